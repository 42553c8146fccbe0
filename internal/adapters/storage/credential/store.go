package credential

import (
	"context"
	"encoding/json"
	"log/slog"

	"coachdesk/internal/domain/session"
)

// Persisted keys.
const (
	KeyToken = "userToken"
	KeyUser  = "userData"
)

// KV is a string key/value backend.
// Delete of an absent key is not an error.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store persists the session token and user profile. It never returns
// errors: backend failures are logged, reads degrade to absent and failed
// writes leave the previous state in place.
type Store struct {
	kv     KV
	sealer *Sealer
}

// NewStore wraps kv. sealer may be nil to store values in the clear.
func NewStore(kv KV, sealer *Sealer) *Store {
	return &Store{kv: kv, sealer: sealer}
}

// SaveToken persists the bearer token.
// PRE: none
// POST: token stored, or a credential_write_failed event logged
func (s *Store) SaveToken(ctx context.Context, token string) {
	s.write(ctx, KeyToken, token)
}

// GetToken returns the stored token, or "" when absent or unreadable.
func (s *Store) GetToken(ctx context.Context) string {
	token, _ := s.read(ctx, KeyToken)
	return token
}

// ClearToken removes the token. Clearing an absent token is a no-op.
func (s *Store) ClearToken(ctx context.Context) {
	s.remove(ctx, KeyToken)
}

// SaveUser persists the user profile as JSON.
// PRE: none
// POST: profile stored, or a credential_write_failed event logged
func (s *Store) SaveUser(ctx context.Context, user session.User) {
	data, err := json.Marshal(user)
	if err != nil {
		slog.Error("credential_write_failed", "key", KeyUser, "error", err)
		return
	}
	s.write(ctx, KeyUser, string(data))
}

// GetUser returns the stored profile. A missing, unreadable or malformed
// profile reads as absent, as does one without an email or role.
func (s *Store) GetUser(ctx context.Context) (session.User, bool) {
	raw, ok := s.read(ctx, KeyUser)
	if !ok || raw == "" {
		return session.User{}, false
	}
	var user session.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		slog.Warn("credential_read_failed", "key", KeyUser, "reason", "malformed_profile", "error", err)
		return session.User{}, false
	}
	if err := user.Validate(); err != nil {
		slog.Warn("credential_read_failed", "key", KeyUser, "reason", "incomplete_profile", "error", err)
		return session.User{}, false
	}
	return user, true
}

// ClearUser removes the profile. Clearing an absent profile is a no-op.
func (s *Store) ClearUser(ctx context.Context) {
	s.remove(ctx, KeyUser)
}

// Load reads both keys and builds a session context.
func (s *Store) Load(ctx context.Context) session.Context {
	user, _ := s.GetUser(ctx)
	return session.Context{Token: s.GetToken(ctx), User: user}
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	value, found, err := s.kv.Get(ctx, key)
	if err != nil {
		slog.Warn("credential_read_failed", "key", key, "error", err)
		return "", false
	}
	if !found {
		return "", false
	}
	if s.sealer == nil {
		return value, true
	}
	opened, err := s.sealer.Open(value)
	if err != nil {
		slog.Warn("credential_read_failed", "key", key, "reason", "unsealable", "error", err)
		return "", false
	}
	return opened, true
}

func (s *Store) write(ctx context.Context, key, value string) {
	if s.sealer != nil {
		sealed, err := s.sealer.Seal(value)
		if err != nil {
			slog.Error("credential_write_failed", "key", key, "error", err)
			return
		}
		value = sealed
	}
	if err := s.kv.Set(ctx, key, value); err != nil {
		slog.Error("credential_write_failed", "key", key, "error", err)
	}
}

func (s *Store) remove(ctx context.Context, key string) {
	if err := s.kv.Delete(ctx, key); err != nil {
		slog.Warn("credential_clear_failed", "key", key, "error", err)
	}
}
