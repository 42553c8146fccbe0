package schedule_test

import (
	"testing"

	"coachdesk/internal/domain/schedule"
)

// TestEvent_Validate tests validation of Event.
func TestEvent_Validate(t *testing.T) {
	valid := schedule.Event{TenantID: "t1", Title: "Evening drills", Type: schedule.TypeTraining, Date: "2026-01-23", Time: "18:30"}

	tests := []struct {
		name    string
		mutate  func(e *schedule.Event)
		wantErr error
	}{
		{name: "valid event", mutate: func(e *schedule.Event) {}},
		{name: "missing time is allowed", mutate: func(e *schedule.Event) { e.Time = "" }},
		{name: "valid match", mutate: func(e *schedule.Event) { e.Type = schedule.TypeMatch }},
		{name: "empty tenant", mutate: func(e *schedule.Event) { e.TenantID = "" }, wantErr: schedule.ErrEmptyTenant},
		{name: "empty title", mutate: func(e *schedule.Event) { e.Title = "  " }, wantErr: schedule.ErrEmptyTitle},
		{name: "unknown type", mutate: func(e *schedule.Event) { e.Type = "party" }, wantErr: schedule.ErrInvalidType},
		{name: "bad date", mutate: func(e *schedule.Event) { e.Date = "23/01/2026" }, wantErr: schedule.ErrInvalidDate},
		{name: "bad time", mutate: func(e *schedule.Event) { e.Time = "6pm" }, wantErr: schedule.ErrInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate()
			if err != tt.wantErr {
				t.Errorf("Event.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestNormalizeType tests type normalization.
func TestNormalizeType(t *testing.T) {
	tests := map[string]string{
		"":          schedule.TypeTraining,
		"MATCH":     schedule.TypeMatch,
		" Meeting ": schedule.TypeMeeting,
	}
	for in, want := range tests {
		if got := schedule.NormalizeType(in); got != want {
			t.Errorf("NormalizeType(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestNormalizeDate tests date normalization.
func TestNormalizeDate(t *testing.T) {
	tests := map[string]string{
		"2026-01-23":               "2026-01-23",
		"2026-01-23T00:00:00.000Z": "2026-01-23",
		"2026-01-23 18:00:00":      "2026-01-23",
		"":                         "",
	}
	for in, want := range tests {
		if got := schedule.NormalizeDate(in); got != want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestEvent_Day tests date parsing.
func TestEvent_Day(t *testing.T) {
	e := schedule.Event{Date: "2026-02-01"}
	d, err := e.Day()
	if err != nil {
		t.Fatalf("Day() error: %v", err)
	}
	if d.Month() != 2 || d.Day() != 1 {
		t.Errorf("Day() = %v", d)
	}
	if _, err := (schedule.Event{Date: "nope"}).Day(); err == nil {
		t.Error("expected error for invalid date")
	}
}
