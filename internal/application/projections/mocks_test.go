package projections

import (
	"context"
	"sync"

	"coachdesk/internal/adapters/api"
	"coachdesk/internal/domain/session"
)

// route is a scripted response.
type route struct {
	status int
	body   string
	err    bool // simulate a transport failure
}

// mockCaller implements Caller by routing on path plus encoded query.
type mockCaller struct {
	mu          sync.Mutex
	routes      map[string]route
	calls       []api.Request
	storedToken string
}

func newMockCaller(routes map[string]route) *mockCaller {
	return &mockCaller{routes: routes}
}

// Do implements Caller.
// PRE: none
// POST: request recorded; unknown routes answer 404 with an empty body
func (m *mockCaller) Do(_ context.Context, req api.Request) (*api.Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	key := req.Path
	if len(req.Query) > 0 {
		key += "?" + req.Query.Encode()
	}
	r, ok := m.routes[key]
	if !ok {
		return &api.Response{Status: 404}, nil
	}
	if r.err {
		return nil, api.Unreachable(req.Op, "http://backend.test", context.DeadlineExceeded)
	}
	return &api.Response{Status: r.status, Body: []byte(r.body)}, nil
}

// ResolveToken implements Caller.
func (m *mockCaller) ResolveToken(_ context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return m.storedToken
}

func (m *mockCaller) paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.calls))
	for _, c := range m.calls {
		p := c.Path
		if len(c.Query) > 0 {
			p += "?" + c.Query.Encode()
		}
		out = append(out, p)
	}
	return out
}

// mockCredentials implements CredentialReader.
type mockCredentials struct {
	token string
	user  session.User
	reads int
}

// GetToken implements CredentialReader.
func (m *mockCredentials) GetToken(_ context.Context) string {
	m.reads++
	return m.token
}

// GetUser implements CredentialReader.
func (m *mockCredentials) GetUser(_ context.Context) (session.User, bool) {
	return m.user, !m.user.IsZero()
}

// mockRefresher implements TokenRefresher by storing a new token.
type mockRefresher struct {
	creds *mockCredentials
	token string
	calls int
}

// RefreshToken implements TokenRefresher.
func (m *mockRefresher) RefreshToken(_ context.Context) bool {
	m.calls++
	if m.token == "" {
		return false
	}
	m.creds.token = m.token
	return true
}
