package usecase

import (
	"fmt"
	"strconv"
)

// stringify renders a record value the way it should appear on a label.
// JSON numbers arrive as float64; whole values must print without a decimal
// point (40, not 40.0) so formatted strings match the submitted data.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// numberField reads a numeric record value, accepting the types JSON and
// hand-built test records produce.
func numberField(record map[string]any, key string) (float64, bool) {
	switch t := record[key].(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	}
	return 0, false
}

// isDigits reports whether s is non-empty and all ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// hasKeys reports whether m carries every named key.
func hasKeys(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

// containsString reports whether list carries exactly s.
func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
