package ident

import (
	"encoding/json"
	"testing"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
	}{
		{"string", `"42"`, "42"},
		{"integer", `42`, "42"},
		{"large integer", `9007199254740993`, "9007199254740993"},
		{"null", `null`, ""},
		{"empty string", `""`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ID
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestID_UnmarshalJSON_RejectsObjects(t *testing.T) {
	var got ID
	if err := json.Unmarshal([]byte(`{"id":1}`), &got); err == nil {
		t.Error("expected error for object id")
	}
}

func TestID_MarshalJSON_AlwaysString(t *testing.T) {
	out, err := json.Marshal(struct {
		ID ID `json:"id"`
	}{ID: "7"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"id":"7"}` {
		t.Errorf("got %s", out)
	}
}

func TestFromAny(t *testing.T) {
	if got := FromAny(float64(12)); got != "12" {
		t.Errorf("float64: got %q", got)
	}
	if got := FromAny("abc"); got != "abc" {
		t.Errorf("string: got %q", got)
	}
	if got := FromAny(json.Number("5")); got != "5" {
		t.Errorf("json.Number: got %q", got)
	}
	if got := FromAny(true); got != "" {
		t.Errorf("bool: got %q, want empty", got)
	}
}
