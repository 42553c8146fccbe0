package projections

import (
	"context"
	"log/slog"
	"strings"

	"coachdesk/internal/adapters/api"
	"coachdesk/internal/domain/sessiondata"
)

const opSessionData = "fetch_session_data"

// Outcome tells a confirmed result from a failure that was swallowed.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeDowngraded   Outcome = "downgraded"
	OutcomeMissingCoach Outcome = "missing_coach"
	OutcomeNoToken      Outcome = "no_token"
	OutcomeFailed       Outcome = "failed"
)

// SessionDataQuery holds query parameters for recent sessions.
type SessionDataQuery struct {
	CoachID string
	Token   string // optional; store, then refresher, are tried when empty
}

// SessionDataResult is best effort: Sessions is always non-nil and Outcome
// says whether it is a confirmed answer.
type SessionDataResult struct {
	Sessions []sessiondata.Summary
	Outcome  Outcome
	Err      error // set when Outcome is OutcomeFailed
}

// SessionDataDeps holds dependencies for QuerySessionData.
type SessionDataDeps struct {
	Client      Caller
	Credentials CredentialReader // optional
	Refresher   TokenRefresher   // optional
}

// QuerySessionData returns a coach's sessions. It never fails; failures are
// logged and reported through Outcome.
// PRE: none
// POST: Sessions is non-nil
func QuerySessionData(ctx context.Context, query SessionDataQuery, deps SessionDataDeps) SessionDataResult {
	empty := []sessiondata.Summary{}
	coachID := strings.TrimSpace(query.CoachID)
	if coachID == "" {
		slog.Warn("session_data_skipped", "reason", "missing_coach_id")
		return SessionDataResult{Sessions: empty, Outcome: OutcomeMissingCoach}
	}

	token := resolveSessionToken(ctx, query.Token, deps)
	if token == "" {
		slog.Warn("session_data_skipped", "coach_id", coachID, "reason", "no_token")
		return SessionDataResult{Sessions: empty, Outcome: OutcomeNoToken}
	}

	resp, err := deps.Client.Do(ctx, api.Request{
		Op:    opSessionData,
		Path:  "/api/sessions-data/" + api.PathSegment(coachID),
		Token: token,
	})
	if err != nil {
		slog.Warn("session_data_failed", "coach_id", coachID, "error", err)
		return SessionDataResult{Sessions: empty, Outcome: OutcomeFailed, Err: err}
	}
	res, err := api.ReadList(resp, opSessionData, api.ListSpec{Downgrades: api.EmptyDowngrades})
	if err != nil {
		slog.Warn("session_data_failed", "coach_id", coachID, "status", resp.Status, "error", err)
		return SessionDataResult{Sessions: empty, Outcome: OutcomeFailed, Err: err}
	}
	if res.Downgraded {
		return SessionDataResult{Sessions: empty, Outcome: OutcomeDowngraded}
	}

	sessions := make([]sessiondata.Summary, 0, len(res.Rows))
	for _, r := range res.Rows {
		sessions = append(sessions, api.SummaryFromRow(r))
	}
	return SessionDataResult{Sessions: sessions, Outcome: OutcomeOK}
}

func resolveSessionToken(ctx context.Context, explicit string, deps SessionDataDeps) string {
	if explicit != "" {
		return explicit
	}
	if deps.Credentials == nil {
		return deps.Client.ResolveToken(ctx, "")
	}
	if token := deps.Credentials.GetToken(ctx); token != "" {
		return token
	}
	if deps.Refresher != nil && deps.Refresher.RefreshToken(ctx) {
		slog.Info("auth_event", "event", "token_refreshed", "op", opSessionData)
		return deps.Credentials.GetToken(ctx)
	}
	return ""
}
