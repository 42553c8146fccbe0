package session

import (
	"encoding/json"
	"errors"
	"strings"

	"coachdesk/internal/domain/ident"
)

// Role constants as issued by the backend.
const (
	RoleCoach    = "coach"
	RoleTeacher  = "teacher"
	RoleAdmin    = "admin"
	RolePlayer   = "player"
	RoleGuardian = "guardian"
)

// ValidRoles contains all roles a user can sign up or log in with.
var ValidRoles = []string{RoleCoach, RoleTeacher, RoleAdmin, RolePlayer, RoleGuardian}

// Domain errors
var (
	ErrMissingEmail = errors.New("email is required")
	ErrMissingRole  = errors.New("role is required")
	ErrInvalidRole  = errors.New("role must be one of coach, teacher, admin, player, guardian")
)

// User is the profile returned by login and persisted under the userData key.
type User struct {
	ID       ident.ID `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	TenantID ident.ID `json:"tenant_id"`
	CoachRef ident.ID `json:"coach_id,omitempty"`
}

// UnmarshalJSON accepts both coach_id and coachId for the coach reference.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var aux struct {
		plain
		CoachIDCamel  ident.ID `json:"coachId"`
		TenantIDCamel ident.ID `json:"tenantId"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	if u.CoachRef.IsZero() {
		u.CoachRef = aux.CoachIDCamel
	}
	if u.TenantID.IsZero() {
		u.TenantID = aux.TenantIDCamel
	}
	return nil
}

// IsZero reports whether no profile is present.
func (u User) IsZero() bool {
	return u.ID.IsZero() && u.Email == ""
}

// CoachID derives the id used for coach-scoped endpoints.
// PRE: none
// POST: Returns coach_id if present, else the user id
func (u User) CoachID() ident.ID {
	if !u.CoachRef.IsZero() {
		return u.CoachRef
	}
	return u.ID
}

// Validate checks the fields a stored profile must carry.
// PRE: User struct is populated
// POST: Returns nil if valid, error otherwise
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return ErrMissingEmail
	}
	if strings.TrimSpace(u.Role) == "" {
		return ErrMissingRole
	}
	return nil
}

// IsStaffRole returns true for roles that may use the roster fallbacks.
func IsStaffRole(role string) bool {
	r := strings.ToLower(strings.TrimSpace(role))
	return r == RoleTeacher || r == RoleCoach
}

// IsValidRole returns true if role is one of ValidRoles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Context is the explicit session state passed to façade operations.
// It is built once at login (or from storage at startup) and replaced on
// logout, so operations never re-read storage behind the caller's back.
type Context struct {
	Token string
	User  User
}

// Authenticated reports whether the context carries a token.
func (c Context) Authenticated() bool {
	return c.Token != ""
}

// HasProfile reports whether a user profile is loaded.
func (c Context) HasProfile() bool {
	return !c.User.IsZero()
}
