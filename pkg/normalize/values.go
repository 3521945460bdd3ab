package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// asString returns v as a string. Non-string scalars are formatted so that
// integer ids survive.
func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

// asStrings returns v as a string slice, or an empty slice.
func asStrings(v any) []string {
	switch s := v.(type) {
	case []string:
		return append([]string{}, s...)
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if item == nil {
				continue
			}
			out = append(out, asString(item))
		}
		return out
	case string:
		if s == "" {
			return []string{}
		}
		return []string{s}
	default:
		return []string{}
	}
}

// asFloat converts the numeric types a graph driver returns.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// parseMetadata decodes a stored metadata value. Strings are parsed as a
// JSON object; with repair set, jsonrepair gets a second chance. Anything
// that does not decode to an object is kept as the raw string.
func parseMetadata(v any, repair bool) any {
	switch m := v.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return m
	case string:
		trimmed := strings.TrimSpace(m)
		if trimmed == "" {
			return map[string]any{}
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil && obj != nil {
			return obj
		}
		if !repair {
			return m
		}
		if repaired, err := jsonrepair.JSONRepair(trimmed); err == nil {
			var fixed map[string]any
			if err := json.Unmarshal([]byte(repaired), &fixed); err == nil && fixed != nil {
				return fixed
			}
		}
		return m
	default:
		return m
	}
}
