package player

import (
	"strings"

	"coachdesk/internal/domain/ident"
)

// Status values the backend uses for players.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Player is a roster entry as shown to a coach.
type Player struct {
	ID          ident.ID
	Name        string
	Age         int
	Position    string
	Status      string
	Attendance  float64 // percentage, 0-100
	Phone       string
	Center      string
	Coach       string
	PlayerEmail string
}

// IsActive reports whether the player's status is active.
// INVARIANT: p is not mutated
func (p Player) IsActive() bool {
	return strings.EqualFold(strings.TrimSpace(p.Status), StatusActive)
}

// DisplayName returns the name, or a placeholder for unnamed players.
func (p Player) DisplayName() string {
	if strings.TrimSpace(p.Name) == "" {
		return "Unnamed Player"
	}
	return p.Name
}

// Initial returns the upper-case first letter of the name, or "?".
func (p Player) Initial() string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

// ClampAttendance bounds an attendance percentage to [0, 100].
// PRE: none
// POST: Returns a value in [0, 100]
func ClampAttendance(pct float64) float64 {
	switch {
	case pct < 0 || pct != pct: // NaN
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

// Detail is a player record from the player-details endpoints.
type Detail struct {
	Player
	GuardianEmail string
	DateOfBirth   string // YYYY-MM-DD
	JoinedAt      string // YYYY-MM-DD
}
