package response

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// Normalize coerces raw model output into a compact JSON document.
// Fenced JSON is unwrapped and re-marshaled, bare JSON is re-marshaled
// as-is, and anything else is wrapped into a basic answer object. The
// result is always valid JSON.
func Normalize(raw string) string {
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		if compact, ok := recompact(m[1]); ok {
			return compact
		}
	}

	if compact, ok := recompact(raw); ok {
		return compact
	}

	fallback, _ := marshalCompact(map[string]string{"answer": strings.TrimSpace(raw)})
	return fallback
}

func recompact(s string) (string, bool) {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return "", false
	}
	out, err := marshalCompact(v)
	if err != nil {
		return "", false
	}
	return out, true
}

// marshalCompact keeps HTML tags like <b> readable instead of escaping
// them to unicode sequences.
func marshalCompact(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
