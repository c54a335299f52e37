// Package source decodes and normalizes the per-feed payload shapes into the
// storage models. Feeds are loosely typed: numeric fields arrive as numbers,
// numeric strings, percent strings or the "-" placeholder, so the decoders
// here absorb all of those.
package source

import (
	"bytes"
	"strconv"
	"strings"
)

// FlexFloat decodes a JSON number, numeric string, percent string, "-"
// placeholder or null. Unparseable values become zero.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat(flexParse(data))
	return nil
}

// FlexInt is FlexFloat truncated to an int.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt(flexParse(data))
	return nil
}

// FlexString decodes a JSON string or renders any scalar as its text form.
// The "-" placeholder and null become empty.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	text := string(bytes.Trim(data, `"`))
	if text == "-" || text == "null" {
		*f = ""
		return nil
	}
	*f = FlexString(text)
	return nil
}

func flexParse(data []byte) float64 {
	text := strings.TrimSpace(string(bytes.Trim(data, `"`)))
	text = strings.TrimSuffix(text, "%")
	if text == "" || text == "-" || text == "null" {
		return 0
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return value
}
