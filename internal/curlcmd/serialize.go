package curlcmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/zhixing/auctionradar/internal/model"
)

// Serialize rebuilds a runnable curl command from a descriptor. Headers are
// emitted in sorted key order so the same descriptor always round-trips to
// the same text.
func Serialize(desc *model.RequestDescriptor) string {
	parts := []string{fmt.Sprintf("curl %s", quote(desc.URL))}

	if desc.Method != "" && desc.Method != "GET" {
		parts = append(parts, fmt.Sprintf("-X %s", desc.Method))
	}

	keys := make([]string, 0, len(desc.Headers))
	for k := range desc.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("-H %s", quote(k+": "+desc.Headers[k])))
	}

	if body := bodyText(desc.Body); body != "" {
		parts = append(parts, fmt.Sprintf("--data-raw %s", quote(body)))
	}

	return strings.Join(parts, " \\\n  ")
}

func bodyText(body any) string {
	switch b := body.(type) {
	case nil:
		return ""
	case string:
		return b
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

// quote single-quotes a value shell-style, escaping embedded single quotes
// with the '\'' idiom.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
