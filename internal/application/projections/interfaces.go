package projections

import (
	"context"

	"coachdesk/internal/adapters/api"
	"coachdesk/internal/domain/session"
)

// Caller issues backend calls. *api.Client satisfies it.
type Caller interface {
	Do(ctx context.Context, req api.Request) (*api.Response, error)
	ResolveToken(ctx context.Context, explicit string) string
}

// CredentialReader reads the stored session. *credential.Store satisfies it.
type CredentialReader interface {
	GetToken(ctx context.Context) string
	GetUser(ctx context.Context) (session.User, bool)
}

// TokenRefresher obtains a fresh token and stores it. It reports whether a
// new token was stored.
type TokenRefresher interface {
	RefreshToken(ctx context.Context) bool
}
