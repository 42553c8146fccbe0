package orchestrators

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

// CredentialWriter persists and clears the session.
// *credential.Store satisfies it.
type CredentialWriter interface {
	SaveToken(ctx context.Context, token string)
	SaveUser(ctx context.Context, user session.User)
	ClearToken(ctx context.Context)
	ClearUser(ctx context.Context)
}
