package sessiondata

import (
	"sort"
	"strings"

	"coachdesk/internal/domain/ident"
)

// Summary is a recent training session shown on the coach dashboard.
type Summary struct {
	ID   ident.ID
	Name string
	Date string // as sent by the backend, usually YYYY-MM-DD or RFC 3339
	Type string
}

// DisplayName returns the session name or "Session #<id>".
func (s Summary) DisplayName() string {
	if strings.TrimSpace(s.Name) != "" {
		return s.Name
	}
	return "Session #" + s.ID.String()
}

// DisplayType returns the session type or "General".
func (s Summary) DisplayType() string {
	if strings.TrimSpace(s.Type) != "" {
		return s.Type
	}
	return "General"
}

// Recent returns up to n sessions, newest date first.
// PRE: n >= 0
// POST: input slice is not mutated
func Recent(sessions []Summary, n int) []Summary {
	out := make([]Summary, len(sessions))
	copy(out, sessions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
