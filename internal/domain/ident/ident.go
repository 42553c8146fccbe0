package ident

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a backend identifier. The backend emits ids as JSON strings in some
// payloads and as numbers in others; ID accepts both and always presents as a
// string.
type ID string

// String returns the identifier as a plain string.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is empty.
func (id ID) IsZero() bool {
	return id == ""
}

// UnmarshalJSON decodes a string, a number or null into an ID.
// PRE: data is a single JSON value
// POST: id holds the textual form of the value, or "" for null
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON always encodes the ID as a JSON string.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// FromAny converts a decoded JSON value (string, float64, json.Number) into an ID.
// Unsupported values yield "".
func FromAny(v any) ID {
	switch t := v.(type) {
	case string:
		return ID(t)
	case json.Number:
		return ID(t.String())
	case float64:
		return ID(strconv.FormatFloat(t, 'f', -1, 64))
	case int:
		return ID(strconv.Itoa(t))
	case int64:
		return ID(strconv.FormatInt(t, 10))
	default:
		return ""
	}
}
