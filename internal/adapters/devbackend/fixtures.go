package devbackend

import (
	"fmt"

	"coachdesk/internal/domain/player"
	"coachdesk/internal/domain/session"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password"

// Demo accounts created by Seed.
const (
	DemoCoachEmail    = "coach@club.test"
	DemoTeacherEmail  = "teacher@club.test"
	DemoGuardianEmail = "guardian@club.test"
)

// Seed fills the store with a coach, a teacher working with that coach,
// a guardian, a small roster and two past sessions.
// PRE: store is empty
// POST: Returns the coach account
func Seed(store *Store) (Account, error) {
	hash, err := HashPassword(DemoPassword)
	if err != nil {
		return Account{}, fmt.Errorf("hash demo password: %w", err)
	}
	coach, err := store.CreateAccount(Account{
		Name: "Sam Lee", Email: DemoCoachEmail, Role: session.RoleCoach, PasswordHash: hash,
	})
	if err != nil {
		return Account{}, fmt.Errorf("seed coach: %w", err)
	}
	if _, err := store.CreateAccount(Account{
		Name: "Jo Park", Email: DemoTeacherEmail, Role: session.RoleTeacher,
		CoachID: coach.ID, PasswordHash: hash,
	}); err != nil {
		return Account{}, fmt.Errorf("seed teacher: %w", err)
	}
	if _, err := store.CreateAccount(Account{
		Name: "Alex Ray", Email: DemoGuardianEmail, Role: session.RoleGuardian, PasswordHash: hash,
	}); err != nil {
		return Account{}, fmt.Errorf("seed guardian: %w", err)
	}

	roster := []PlayerRecord{
		{Name: "Mia Ray", Age: 12, Category: "Forward", Status: player.StatusActive, Attendance: 92, GuardianEmail: DemoGuardianEmail, DateOfBirth: "2013-04-02"},
		{Name: "Leo Ray", Age: 10, Category: "Goalkeeper", Status: player.StatusActive, Attendance: 78, GuardianEmail: DemoGuardianEmail, DateOfBirth: "2015-09-18"},
		{Name: "Ava Chen", Age: 11, Category: "Defender", Status: player.StatusActive, Attendance: 85, GuardianEmail: "chen@club.test", DateOfBirth: "2014-01-30"},
		{Name: "Noah Tui", Age: 13, Category: "Midfielder", Status: player.StatusInactive, Attendance: 40, GuardianEmail: "tui@club.test", DateOfBirth: "2012-11-07"},
	}
	for _, p := range roster {
		p.CoachID = coach.ID
		p.CoachName = coach.Name
		p.Center = "North Field"
		p.Phone = "021 555 0100"
		p.JoinedAt = "2025-02-01"
		store.AddPlayer(p)
	}

	store.AddSession(SessionRecord{CoachID: coach.ID, Name: "Passing drills", Date: "2026-03-02", Type: "Training"})
	store.AddSession(SessionRecord{CoachID: coach.ID, Name: "Friendly vs East", Date: "2026-03-07", Type: "Match"})
	return coach, nil
}
