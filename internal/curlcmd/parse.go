// Package curlcmd converts between pasted curl commands and structured
// request descriptors. Capture flows parse a command copied out of browser
// devtools; the admin UI reads back a command rebuilt from the stored fields.
package curlcmd

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"

	"github.com/zhixing/auctionradar/internal/model"
)

// ErrMissingURL is returned when no URL can be found in the command.
var ErrMissingURL = errors.New("curl command contains no URL")

// flags that take a value but do not affect the replayed request.
var skippedValueFlags = map[string]bool{
	"-o": true, "--output": true,
	"-u": true, "--user": true,
	"-A": true, "--user-agent": true,
	"-e": true, "--referer": true,
	"--connect-timeout": true,
	"-m":                true, "--max-time": true,
	"--proxy": true, "-x": true,
}

// Parse extracts the URL, method, headers and body from a pasted curl
// command. Line continuations are flattened before tokenizing. The method is
// the last explicit -X value when one is present; otherwise a data flag
// implies POST and the default is GET.
func Parse(command string, log *logrus.Logger) (*model.RequestDescriptor, error) {
	tokens, err := tokenize(command)
	if err != nil {
		log.WithError(err).Warn("shlex tokenize failed, falling back to whitespace split")
		tokens = strings.Fields(cleanup(command))
	}

	desc := &model.RequestDescriptor{
		Method:  "GET",
		Headers: map[string]string{},
	}

	var (
		explicitMethod string
		rawBody        string
		hasData        bool
		cookies        []string
	)

	i := 0
	if i < len(tokens) && tokens[i] == "curl" {
		i++
	}
	for ; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok == "-H" || tok == "--header":
			if i+1 >= len(tokens) {
				continue
			}
			i++
			key, value, found := strings.Cut(tokens[i], ":")
			if !found {
				continue
			}
			desc.Headers[strings.TrimSpace(key)] = strings.TrimSpace(value)

		case tok == "-X" || tok == "--request":
			if i+1 >= len(tokens) {
				continue
			}
			i++
			explicitMethod = strings.ToUpper(tokens[i])

		case tok == "-d" || tok == "--data" || tok == "--data-raw" ||
			tok == "--data-binary" || tok == "--data-ascii":
			if i+1 >= len(tokens) {
				continue
			}
			i++
			rawBody = tokens[i]
			hasData = true

		case tok == "-b" || tok == "--cookie":
			if i+1 >= len(tokens) {
				continue
			}
			i++
			cookies = append(cookies, tokens[i])

		case tok == "--compressed":
			if _, ok := desc.Headers["Accept-Encoding"]; !ok {
				desc.Headers["Accept-Encoding"] = "gzip, deflate, br"
			}

		case strings.HasPrefix(tok, "http://") || strings.HasPrefix(tok, "https://"):
			if desc.URL == "" {
				desc.URL = tok
			}

		case strings.HasPrefix(tok, "-"):
			if skippedValueFlags[tok] {
				i++
			}

		default:
			if desc.URL == "" {
				desc.URL = tok
			}
		}
	}

	if desc.URL == "" {
		return nil, ErrMissingURL
	}

	if len(cookies) > 0 {
		desc.Headers["Cookie"] = strings.Join(cookies, "; ")
	}

	switch {
	case explicitMethod != "":
		desc.Method = explicitMethod
	case hasData:
		desc.Method = "POST"
	}

	if hasData {
		desc.Body = decodeBody(rawBody)
	}

	return desc, nil
}

// tokenize flattens line continuations and splits shell-style.
func tokenize(command string) ([]string, error) {
	return shlex.Split(cleanup(command))
}

func cleanup(command string) string {
	r := strings.NewReplacer("\\\r\n", " ", "\\\n", " ")
	flat := r.Replace(command)
	flat = strings.ReplaceAll(flat, "\r", " ")
	flat = strings.ReplaceAll(flat, "\n", " ")
	return strings.TrimSpace(flat)
}

// decodeBody keeps JSON objects and arrays structured so that individual
// fields can be overridden per fetch; anything else stays an opaque string.
func decodeBody(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		switch v.(type) {
		case map[string]any, []any:
			return v
		}
	}
	return raw
}
