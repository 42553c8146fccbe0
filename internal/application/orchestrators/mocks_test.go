package orchestrators

import (
	"context"
	"sync"

	"coachdesk/internal/adapters/api"
	"coachdesk/internal/domain/session"
)

// mockCaller implements Caller with a scripted handler.
type mockCaller struct {
	mu          sync.Mutex
	handler     func(req api.Request) (*api.Response, error)
	calls       []api.Request
	storedToken string
}

// Do implements Caller.
// PRE: handler is set
// POST: request recorded, scripted response returned
func (m *mockCaller) Do(_ context.Context, req api.Request) (*api.Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	return m.handler(req)
}

// ResolveToken implements Caller.
func (m *mockCaller) ResolveToken(_ context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return m.storedToken
}

func (m *mockCaller) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func respond(status int, body string) func(api.Request) (*api.Response, error) {
	return func(api.Request) (*api.Response, error) {
		return &api.Response{Status: status, Body: []byte(body)}, nil
	}
}

func unreachable(req api.Request) (*api.Response, error) {
	return nil, api.Unreachable(req.Op, "http://backend.test", context.DeadlineExceeded)
}

// mockCredentials implements CredentialWriter in memory.
type mockCredentials struct {
	token string
	user  session.User
	saves int
}

func (m *mockCredentials) SaveToken(_ context.Context, token string) {
	m.token = token
	m.saves++
}

func (m *mockCredentials) SaveUser(_ context.Context, u session.User) {
	m.user = u
	m.saves++
}

func (m *mockCredentials) ClearToken(_ context.Context) {
	m.token = ""
}

func (m *mockCredentials) ClearUser(_ context.Context) {
	m.user = session.User{}
}
