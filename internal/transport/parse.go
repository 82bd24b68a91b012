// Package transport turns the wire shapes the storefront API actually
// returns into the canonical models. Accepted field spellings are listed
// in explicit alias tables so the tolerated shapes stay auditable.
package transport

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ParsePrice coerces a decoded JSON value into a decimal amount. Strings
// are stripped of currency symbols and separators first; anything that
// still fails to parse yields zero, never an error.
func ParsePrice(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		return decimal.NewFromFloat(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case string:
		cleaned := nonNumeric.ReplaceAllString(n, "")
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// ParseInt coerces a decoded JSON value into an int, falling back to def.
func ParseInt(v any, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case string:
		cleaned := nonNumeric.ReplaceAllString(n, "")
		var out int
		if _, err := fmt.Sscanf(cleaned, "%d", &out); err != nil {
			return def
		}
		return out
	default:
		return def
	}
}

// ParseFloat coerces a decoded JSON value into a float64, failure yields 0.
func ParseFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		cleaned := nonNumeric.ReplaceAllString(n, "")
		var out float64
		if _, err := fmt.Sscanf(cleaned, "%g", &out); err != nil {
			return 0
		}
		return out
	default:
		return 0
	}
}

// ParseBool treats JSON booleans, non-zero numbers and affirmative strings
// as true.
func ParseBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1", "yes":
			return true
		}
		return false
	default:
		return false
	}
}

// AsString renders scalar JSON values as their textual form; numbers lose
// a trailing ".0" so server ids round-trip as "42" not "42.0".
func AsString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%g", s)
	case bool:
		if s {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// NormalizeImageURL makes relative image paths absolute against base.
func NormalizeImageURL(base string, v any) string {
	raw, ok := v.(string)
	if !ok || raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	base = strings.TrimSuffix(base, "/")
	if strings.HasPrefix(raw, "/") {
		return base + raw
	}
	return base + "/" + raw
}

// first returns the value of the first alias present and non-nil in m.
func first(m map[string]any, aliases ...string) (any, bool) {
	for _, a := range aliases {
		if v, ok := m[a]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// nested reads m[key][inner] when m[key] is itself an object.
func nested(m map[string]any, key, inner string) (any, bool) {
	obj, ok := m[key].(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := obj[inner]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}
