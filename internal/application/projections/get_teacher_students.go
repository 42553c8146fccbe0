package projections

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"coachdesk/internal/adapters/api"
	"coachdesk/internal/domain/player"
	"coachdesk/internal/domain/session"
)

const opTeacherStudents = "fetch_teacher_students"

// Where a student list came from.
const (
	SourceDashboard = "dashboard"
	SourceCoachID   = "coach_id_fallback"
	SourceCoachName = "coach_name_fallback"
	SourceNone      = "none"
)

// TeacherStudentsQuery holds query parameters for the teacher roster.
// Fields left empty are read from the credential store.
type TeacherStudentsQuery struct {
	Session session.Context
}

// TeacherStudentsResult is the roster and where it was found.
type TeacherStudentsResult struct {
	Players []player.Player
	Source  string
}

// TeacherStudentsDeps holds dependencies for QueryTeacherAssignedStudents.
type TeacherStudentsDeps struct {
	Client      Caller
	Credentials CredentialReader
}

// QueryTeacherAssignedStudents finds the caller's students. The role-aware
// dashboard is tried first; when it is missing or refuses the role, staff
// users fall back to the coach roster filtered by coach id, then by name.
// PRE: a token is available from the session or the store
// POST: Returns the first non-empty list found, or an empty list with SourceNone
// INVARIANT: a dashboard failure other than 404/403/"only coaches" is returned
// without trying any fallback
func QueryTeacherAssignedStudents(ctx context.Context, query TeacherStudentsQuery, deps TeacherStudentsDeps) (TeacherStudentsResult, error) {
	token := query.Session.Token
	user := query.Session.User
	if deps.Credentials != nil {
		if token == "" {
			token = deps.Credentials.GetToken(ctx)
		}
		if user.IsZero() {
			user, _ = deps.Credentials.GetUser(ctx)
		}
	}
	if token == "" {
		return TeacherStudentsResult{}, api.AccessDenied(opTeacherStudents)
	}

	if email := strings.TrimSpace(user.Email); email != "" {
		rows, fallThrough, err := fetchDashboard(ctx, deps.Client, token, email)
		if err != nil {
			return TeacherStudentsResult{}, err
		}
		if !fallThrough {
			return TeacherStudentsResult{Players: api.PlayersFromRows(rows), Source: SourceDashboard}, nil
		}
	} else {
		slog.Info("students_fallback", "stage", "dashboard", "reason", "no_email")
	}

	if !session.IsStaffRole(user.Role) {
		slog.Info("students_fallback", "stage", "skipped", "role", user.Role)
		return TeacherStudentsResult{Players: []player.Player{}, Source: SourceNone}, nil
	}

	attempts := []struct {
		source string
		param  string
		value  string
	}{
		{SourceCoachID, "coachId", user.CoachID().String()},
		{SourceCoachName, "coachName", strings.TrimSpace(user.Name)},
	}
	for _, a := range attempts {
		if a.value == "" {
			continue
		}
		rows, _, err := fetchRoster(ctx, deps.Client, token, url.Values{a.param: {a.value}})
		if err != nil {
			slog.Warn("students_fallback", "stage", a.source, "error", err)
			continue
		}
		if len(rows) > 0 {
			slog.Info("students_fallback", "stage", a.source, "count", len(rows))
			return TeacherStudentsResult{Players: api.PlayersFromRows(rows), Source: a.source}, nil
		}
	}
	return TeacherStudentsResult{Players: []player.Player{}, Source: SourceNone}, nil
}

// fetchDashboard calls the role-aware dashboard. fallThrough is true when the
// endpoint is missing or refuses the role.
func fetchDashboard(ctx context.Context, client Caller, token, email string) ([]api.Row, bool, error) {
	resp, err := client.Do(ctx, api.Request{
		Op:    opTeacherStudents,
		Path:  "/api/teacher/dashboard",
		Query: url.Values{"email": {email}},
		Token: token,
	})
	if err != nil {
		return nil, false, err
	}
	if resp.OK() {
		res, _ := api.ReadList(resp, opTeacherStudents, api.ListSpec{})
		return res.Rows, false, nil
	}

	switch {
	case resp.Status == http.StatusNotFound:
		slog.Info("students_fallback", "stage", "dashboard", "status", resp.Status, "reason", "not_found")
		return nil, true, nil
	case resp.Status == http.StatusForbidden, api.BodyMentions(resp.Body, "only coaches"):
		slog.Info("students_fallback", "stage", "dashboard", "status", resp.Status, "reason", "forbidden")
		return nil, true, nil
	}

	text := api.JSONMessage(resp.Body)
	if text == "" {
		text = api.GenericFailure(resp.Status, "Failed to fetch students.")
	}
	return nil, false, api.ServerFailure(opTeacherStudents, resp.Status, text)
}
