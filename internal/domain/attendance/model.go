package attendance

import (
	"errors"
	"strings"
	"time"

	"coachdesk/internal/domain/ident"
)

// Status values reported on attendance rows.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Domain errors
var (
	ErrMissingPlayer = errors.New("attendance must be associated with a player")
	ErrMissingCoach  = errors.New("attendance must be recorded by a coach")
	ErrInvalidDate   = errors.New("attendance date must be in YYYY-MM-DD format")
	ErrNobodyPresent = errors.New("please mark at least one player as present")
	ErrEmptySheet    = errors.New("attendance sheet has no players")
)

// Mark is a single attendance submission.
type Mark struct {
	PlayerID       string `json:"playerId"`
	AttendanceDate string `json:"attendanceDate"` // YYYY-MM-DD format
	IsPresent      bool   `json:"isPresent"`
	CoachID        string `json:"coachId"`
}

// Validate checks if the Mark has valid data.
// PRE: Mark struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: PlayerID and CoachID must not be empty
func (m *Mark) Validate() error {
	if strings.TrimSpace(m.PlayerID) == "" {
		return ErrMissingPlayer
	}
	if strings.TrimSpace(m.CoachID) == "" {
		return ErrMissingCoach
	}
	if _, err := time.Parse("2006-01-02", m.AttendanceDate); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Record is a denormalized attendance row as listed for a coach.
// The backend does not enforce one row per (player, date); duplicates are
// kept as returned.
type Record struct {
	PlayerID       ident.ID
	Name           string
	AttendanceDate string // YYYY-MM-DD
	Status         string
	CoachName      string
	Time           string // HH:MM:SS as recorded
}

// IsPresent reports whether the row records the player as present.
// INVARIANT: r is not mutated
func (r Record) IsPresent() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), StatusPresent)
}

// Entry is one player's line on an attendance sheet.
type Entry struct {
	PlayerID string
	Name     string
	Present  bool
}

// Sheet is a coach's attendance sheet for a single date.
type Sheet struct {
	Date    string // YYYY-MM-DD
	CoachID string
	Entries []Entry
}

// PresentCount returns the number of players marked present.
func (s Sheet) PresentCount() int {
	n := 0
	for _, e := range s.Entries {
		if e.Present {
			n++
		}
	}
	return n
}

// Validate checks if the Sheet can be submitted.
// PRE: Sheet is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: at least one entry must be present
func (s *Sheet) Validate() error {
	if len(s.Entries) == 0 {
		return ErrEmptySheet
	}
	if strings.TrimSpace(s.CoachID) == "" {
		return ErrMissingCoach
	}
	if _, err := time.Parse("2006-01-02", s.Date); err != nil {
		return ErrInvalidDate
	}
	for _, e := range s.Entries {
		if strings.TrimSpace(e.PlayerID) == "" {
			return ErrMissingPlayer
		}
	}
	if s.PresentCount() == 0 {
		return ErrNobodyPresent
	}
	return nil
}

// Marks expands the sheet into one Mark per entry.
// PRE: Sheet has been validated
// POST: Returns marks in entry order
func (s Sheet) Marks() []Mark {
	marks := make([]Mark, 0, len(s.Entries))
	for _, e := range s.Entries {
		marks = append(marks, Mark{
			PlayerID:       e.PlayerID,
			AttendanceDate: s.Date,
			IsPresent:      e.Present,
			CoachID:        s.CoachID,
		})
	}
	return marks
}
