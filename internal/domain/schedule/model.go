package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Event type constants
const (
	TypeTraining   = "training"
	TypeMatch      = "match"
	TypeMeeting    = "meeting"
	TypeTournament = "tournament"
)

// ValidTypes contains all valid event types.
var ValidTypes = []string{TypeTraining, TypeMatch, TypeMeeting, TypeTournament}

// DefaultTime is used when the backend omits an event time.
const DefaultTime = "10:00"

// DefaultTitle is used when the backend omits an event title.
const DefaultTitle = "Untitled Event"

// Domain errors
var (
	ErrEmptyTitle  = errors.New("event title cannot be empty")
	ErrInvalidType = errors.New("event type must be training, match, meeting or tournament")
	ErrInvalidDate = errors.New("event date must be in YYYY-MM-DD format")
	ErrInvalidTime = errors.New("event time must be in HH:MM format")
	ErrEmptyTenant = errors.New("tenant ID cannot be empty")
)

// Event is a training session, match, meeting or tournament on a team's calendar.
type Event struct {
	ID          string `json:"id,omitempty"`
	TenantID    string `json:"tenant_id,omitempty"`
	Title       string `json:"title"`
	Type        string `json:"event_type"`
	Date        string `json:"event_date"` // YYYY-MM-DD
	Time        string `json:"event_time"` // HH:MM
	Duration    string `json:"duration"`
	Location    string `json:"location"`
	Team        string `json:"team"`
	Description string `json:"description"`
}

// Validate checks if the Event can be submitted.
// PRE: Event struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Event) Validate() error {
	if strings.TrimSpace(e.TenantID) == "" {
		return ErrEmptyTenant
	}
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if !isValidType(e.Type) {
		return ErrInvalidType
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return ErrInvalidDate
	}
	if e.Time != "" {
		if _, err := time.Parse("15:04", e.Time); err != nil {
			return ErrInvalidTime
		}
	}
	return nil
}

// Day parses the event date.
// PRE: Date is in YYYY-MM-DD format
// POST: Returns the date at midnight UTC, or an error
func (e Event) Day() (time.Time, error) {
	d, err := time.Parse("2006-01-02", e.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid event date %q: %w", e.Date, err)
	}
	return d, nil
}

// NormalizeType lower-cases a type and defaults empty values to training.
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return TypeTraining
	}
	return t
}

// NormalizeDate keeps the YYYY-MM-DD part of a date or timestamp.
func NormalizeDate(d string) string {
	d = strings.TrimSpace(d)
	if i := strings.IndexAny(d, "T "); i >= 0 {
		return d[:i]
	}
	return d
}

func isValidType(t string) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}
