package devbackend

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"coachdesk/internal/domain/attendance"
	"coachdesk/internal/domain/schedule"
)

// Store errors
var (
	ErrAccountExists   = errors.New("user already exists")
	ErrAccountNotFound = errors.New("account not found")
	ErrPlayerNotFound  = errors.New("player not found")
)

// Account is a login on the dev backend.
type Account struct {
	ID           int64
	Name         string
	Email        string
	Role         string
	TenantID     int64
	CoachID      int64 // coach the account acts for; 0 means the account itself
	PasswordHash []byte
}

// EffectiveCoachID returns the coach id the account's coach-scoped data lives under.
func (a Account) EffectiveCoachID() int64 {
	if a.CoachID != 0 {
		return a.CoachID
	}
	return a.ID
}

// PlayerRecord is a roster entry.
type PlayerRecord struct {
	ID            int64
	Name          string
	Age           int
	Category      string
	Status        string
	Attendance    float64
	Phone         string
	Center        string
	CoachID       int64
	CoachName     string
	PlayerEmail   string
	GuardianEmail string
	DateOfBirth   string
	JoinedAt      string
}

// EventRecord is a stored schedule event.
type EventRecord struct {
	schedule.Event
	CoachID   int64
	CreatedAt time.Time
}

// AttendanceRecord is a stored attendance mark.
type AttendanceRecord struct {
	ID        string
	PlayerID  int64
	Date      string
	Present   bool
	CoachID   int64
	CreatedAt time.Time
}

// SessionRecord is a training session derived from attendance.
type SessionRecord struct {
	ID      int64
	CoachID int64
	Name    string
	Date    string
	Type    string
}

// Store is the dev backend's in-memory state. Safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	now        func() time.Time
	nextID     int64
	accounts   map[string]Account // by lowercased email
	players    map[int64]PlayerRecord
	events     []EventRecord
	attendance []AttendanceRecord
	sessions   []SessionRecord
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		now:      time.Now,
		nextID:   1,
		accounts: make(map[string]Account),
		players:  make(map[int64]PlayerRecord),
	}
}

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// CreateAccount stores a new account and assigns its id.
// PRE: a.Email is non-empty, a.PasswordHash is set
// POST: Returns ErrAccountExists when the email is taken
func (s *Store) CreateAccount(a Account) (Account, error) {
	key := strings.ToLower(strings.TrimSpace(a.Email))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[key]; ok {
		return Account{}, ErrAccountExists
	}
	a.ID = s.allocID()
	if a.TenantID == 0 {
		a.TenantID = 1
	}
	s.accounts[key] = a
	return a, nil
}

// AccountByEmail looks up an account case-insensitively.
func (s *Store) AccountByEmail(email string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return a, nil
}

// AddPlayer stores a player and assigns its id.
func (s *Store) AddPlayer(p PlayerRecord) PlayerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.allocID()
	s.players[p.ID] = p
	return p
}

// Player returns one player.
func (s *Store) Player(id int64) (PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return PlayerRecord{}, ErrPlayerNotFound
	}
	return p, nil
}

// PlayerFilter selects roster entries. Zero fields match everything.
type PlayerFilter struct {
	CoachID       int64
	CoachName     string
	GuardianEmail string
}

// Players returns matching players ordered by id.
func (s *Store) Players(f PlayerFilter) []PlayerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []PlayerRecord
	for _, p := range s.players {
		if f.CoachID != 0 && p.CoachID != f.CoachID {
			continue
		}
		if f.CoachName != "" && !strings.EqualFold(p.CoachName, f.CoachName) {
			continue
		}
		if f.GuardianEmail != "" && !strings.EqualFold(p.GuardianEmail, f.GuardianEmail) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddEvent stores a schedule event under a coach and assigns a uuid.
// PRE: ev has been validated
func (s *Store) AddEvent(ev schedule.Event, coachID int64) EventRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev.ID = uuid.NewString()
	rec := EventRecord{Event: ev, CoachID: coachID, CreatedAt: s.now()}
	s.events = append(s.events, rec)
	return rec
}

// Events returns a coach's events in a tenant, ordered by date then time.
func (s *Store) Events(tenantID string, coachID int64) []EventRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []EventRecord
	for _, e := range s.events {
		if e.TenantID == tenantID && e.CoachID == coachID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out
}

// RecordAttendance stores a mark. Marking the same player twice on a date
// replaces the earlier mark. The first mark for a coach on a date opens a
// training session.
// PRE: m has been validated
// POST: Returns ErrPlayerNotFound for an unknown player
func (s *Store) RecordAttendance(playerID int64, m attendance.Mark, coachID int64) (AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[playerID]; !ok {
		return AttendanceRecord{}, ErrPlayerNotFound
	}
	rec := AttendanceRecord{
		ID:        uuid.NewString(),
		PlayerID:  playerID,
		Date:      m.AttendanceDate,
		Present:   m.IsPresent,
		CoachID:   coachID,
		CreatedAt: s.now(),
	}
	replaced := false
	for i, a := range s.attendance {
		if a.PlayerID == playerID && a.Date == m.AttendanceDate && a.CoachID == coachID {
			s.attendance[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		s.attendance = append(s.attendance, rec)
	}
	s.openSessionLocked(coachID, m.AttendanceDate)
	s.refreshAttendanceLocked(playerID)
	return rec, nil
}

func (s *Store) openSessionLocked(coachID int64, date string) {
	for _, sess := range s.sessions {
		if sess.CoachID == coachID && sess.Date == date {
			return
		}
	}
	s.sessions = append(s.sessions, SessionRecord{
		ID:      s.allocID(),
		CoachID: coachID,
		Name:    "Training " + date,
		Date:    date,
		Type:    "Training",
	})
}

// refreshAttendanceLocked recomputes the player's attendance percentage.
func (s *Store) refreshAttendanceLocked(playerID int64) {
	var total, present int
	for _, a := range s.attendance {
		if a.PlayerID != playerID {
			continue
		}
		total++
		if a.Present {
			present++
		}
	}
	if total == 0 {
		return
	}
	p := s.players[playerID]
	p.Attendance = float64(present) * 100 / float64(total)
	s.players[playerID] = p
}

// Attendance returns a coach's marks, newest date first.
func (s *Store) Attendance(coachID int64) []AttendanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []AttendanceRecord
	for _, a := range s.attendance {
		if a.CoachID == coachID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// AddSession stores a session directly.
func (s *Store) AddSession(sess SessionRecord) SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.ID = s.allocID()
	s.sessions = append(s.sessions, sess)
	return sess
}

// Sessions returns a coach's sessions in insertion order.
func (s *Store) Sessions(coachID int64) []SessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []SessionRecord
	for _, sess := range s.sessions {
		if sess.CoachID == coachID {
			out = append(out, sess)
		}
	}
	return out
}
