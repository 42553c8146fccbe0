package api

import (
	"encoding/json"
	"strconv"
	"strings"

	"coachdesk/internal/domain/ident"
)

// Row is one decoded record from a backend response. Numbers are kept as
// json.Number so large ids survive.
type Row map[string]any

// String returns the first non-empty value among keys, rendered as text.
func (r Row) String(keys ...string) string {
	for _, k := range keys {
		if s := textOf(r[k]); s != "" {
			return s
		}
	}
	return ""
}

// ID returns the first non-empty identifier among keys.
func (r Row) ID(keys ...string) ident.ID {
	return ident.ID(r.String(keys...))
}

// Float returns the first value among keys that reads as a number.
// Numeric strings are accepted.
func (r Row) Float(keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := r[k].(type) {
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, true
			}
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// Int returns Float truncated toward zero, or 0.
func (r Row) Int(keys ...string) int {
	f, ok := r.Float(keys...)
	if !ok {
		return 0
	}
	return int(f)
}

// Bool returns the first value among keys that reads as a boolean.
// Accepts true/false, "true"/"false", and 1/0.
func (r Row) Bool(keys ...string) (bool, bool) {
	for _, k := range keys {
		switch v := r[k].(type) {
		case bool:
			return v, true
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f != 0, true
			}
		case float64:
			return v != 0, true
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b, true
			}
		}
	}
	return false, false
}

// Object returns the nested object under key, or nil.
func (r Row) Object(key string) Row {
	if m, ok := r[key].(map[string]any); ok {
		return Row(m)
	}
	return nil
}

func textOf(v any) string {
	if id := ident.FromAny(v); id != "" {
		return string(id)
	}
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		// {"error": {"message": "..."}}
		return textOf(t["message"])
	default:
		return ""
	}
}
