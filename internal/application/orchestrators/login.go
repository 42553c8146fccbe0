package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"coachdesk/internal/adapters/api"
	"coachdesk/internal/domain/session"
)

const (
	opSignup = "signup"
	opLogin  = "login"
)

// connectHint replaces the reachability message on the auth screens.
const connectHint = "Could not connect to the server. Make sure backend is running."

// SignupInput carries input for the signup orchestrator.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// SignupResult carries what the backend returned for a new account.
// Token and User are empty when the backend does not log the account in.
type SignupResult struct {
	Token string
	User  session.User
	Data  api.Row
}

// SignupDeps holds dependencies for Signup.
type SignupDeps struct {
	Client Caller
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
	Role     string
}

// LoginResult carries the session established by a successful login.
type LoginResult struct {
	Session session.Context
	Data    api.Row
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Client      Caller
	Credentials CredentialWriter
}

// ExecuteSignup registers an account.
// PRE: email and password are non-empty
// POST: Returns the backend's response, or an error whose message is fit for display
func ExecuteSignup(ctx context.Context, input SignupInput, deps SignupDeps) (SignupResult, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return SignupResult{}, api.Validation(opSignup, nil, "Email and password are required.")
	}
	role := strings.ToLower(strings.TrimSpace(input.Role))
	if role != "" && !session.IsValidRole(role) {
		return SignupResult{}, api.Validation(opSignup, session.ErrInvalidRole, "Role must be one of %s.", strings.Join(session.ValidRoles, ", "))
	}

	resp, err := deps.Client.Do(ctx, api.Request{
		Op:        opSignup,
		Method:    http.MethodPost,
		Path:      "/api/signup",
		Anonymous: true,
		Body: map[string]string{
			"name":     input.Name,
			"email":    strings.TrimSpace(input.Email),
			"password": input.Password,
			"role":     role,
		},
	})
	if err != nil {
		slog.Info("auth_event", "event", "signup_failed", "email", input.Email, "reason", "unreachable")
		return SignupResult{}, authConnectError(opSignup, err)
	}

	data, err := api.ReadAck(resp, opSignup, "Signup failed.")
	if err != nil {
		slog.Info("auth_event", "event", "signup_failed", "email", input.Email, "status", resp.Status)
		return SignupResult{}, err
	}

	result := SignupResult{Token: data.String("token"), Data: data}
	if u := data.Object("user"); u != nil {
		result.User = api.UserFromRow(u)
	}
	slog.Info("auth_event", "event", "signup", "email", input.Email, "role", input.Role)
	return result, nil
}

// ExecuteLogin authenticates and persists the session.
// PRE: email and password are non-empty
// POST: On success token and profile are stored and returned as a session context
// INVARIANT: Nothing is stored when login fails
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return LoginResult{}, api.Validation(opLogin, nil, "Email and password are required.")
	}

	resp, err := deps.Client.Do(ctx, api.Request{
		Op:        opLogin,
		Method:    http.MethodPost,
		Path:      "/api/login",
		Anonymous: true,
		Body: map[string]string{
			"email":    strings.TrimSpace(input.Email),
			"password": input.Password,
			"role":     strings.ToLower(strings.TrimSpace(input.Role)),
		},
	})
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "reason", "unreachable")
		return LoginResult{}, authConnectError(opLogin, err)
	}

	data, err := api.ReadAck(resp, opLogin, "Login failed.")
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "status", resp.Status)
		return LoginResult{}, err
	}

	token := data.String("token")
	if token == "" {
		slog.Warn("auth_event", "event", "login_failed", "email", input.Email, "reason", "no_token")
		return LoginResult{}, api.ServerFailure(opLogin, resp.Status, "Login failed.")
	}

	var user session.User
	if u := data.Object("user"); u != nil {
		user = api.UserFromRow(u)
	}
	if user.Email == "" {
		user.Email = strings.TrimSpace(input.Email)
	}
	if user.Role == "" {
		user.Role = strings.ToLower(strings.TrimSpace(input.Role))
	}

	deps.Credentials.SaveToken(ctx, token)
	deps.Credentials.SaveUser(ctx, user)

	slog.Info("auth_event", "event", "login", "email", user.Email, "role", user.Role)
	return LoginResult{Session: session.Context{Token: token, User: user}, Data: data}, nil
}

// ExecuteLogout clears the stored session.
// PRE: none
// POST: token and profile are cleared; returns an empty session context
func ExecuteLogout(ctx context.Context, deps LoginDeps) session.Context {
	deps.Credentials.ClearToken(ctx)
	deps.Credentials.ClearUser(ctx)
	slog.Info("auth_event", "event", "logout")
	return session.Context{}
}

func authConnectError(op string, err error) error {
	if errors.Is(err, api.ErrNetworkUnavailable) {
		return &api.Error{Kind: api.KindNetworkUnavailable, Op: op, Message: connectHint, Err: err}
	}
	return err
}
