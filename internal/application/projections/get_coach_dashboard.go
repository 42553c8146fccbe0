package projections

import (
	"context"

	"golang.org/x/sync/errgroup"

	"coachdesk/internal/adapters/api"
	"coachdesk/internal/domain/player"
	"coachdesk/internal/domain/session"
	"coachdesk/internal/domain/sessiondata"
)

const opCoachDashboard = "coach_dashboard"

// RecentSessionCount is how many sessions the dashboard lists.
const RecentSessionCount = 5

// CoachDashboardQuery holds query parameters for the home dashboard.
type CoachDashboardQuery struct {
	Session session.Context
}

// CoachDashboardResult is the data for the coach's home screen.
type CoachDashboardResult struct {
	Players           []player.Player
	PlayerCount       int
	ActiveCount       int
	AverageAttendance float64
	SessionCount      int
	RecentSessions    []sessiondata.Summary
	SessionsOutcome   Outcome
}

// CoachDashboardDeps holds dependencies for QueryCoachDashboard.
type CoachDashboardDeps struct {
	Client      Caller
	Credentials CredentialReader // optional
	Refresher   TokenRefresher   // optional
}

// QueryCoachDashboard loads the roster and recent sessions concurrently.
// PRE: a token is available from the session or the store
// POST: A roster failure is returned; a session failure only sets SessionsOutcome
func QueryCoachDashboard(ctx context.Context, query CoachDashboardQuery, deps CoachDashboardDeps) (CoachDashboardResult, error) {
	token := deps.Client.ResolveToken(ctx, query.Session.Token)
	if token == "" {
		return CoachDashboardResult{}, api.AccessDenied(opCoachDashboard)
	}
	user := query.Session.User
	if user.IsZero() && deps.Credentials != nil {
		user, _ = deps.Credentials.GetUser(ctx)
	}

	var (
		roster   CoachPlayersResult
		sessions SessionDataResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = QueryCoachAssignedPlayers(gctx, CoachPlayersQuery{Token: token}, CoachPlayersDeps{Client: deps.Client})
		return err
	})
	g.Go(func() error {
		sessions = QuerySessionData(gctx, SessionDataQuery{CoachID: user.CoachID().String(), Token: token},
			SessionDataDeps{Client: deps.Client, Credentials: deps.Credentials, Refresher: deps.Refresher})
		return nil
	})
	if err := g.Wait(); err != nil {
		return CoachDashboardResult{}, err
	}

	result := CoachDashboardResult{
		Players:         roster.Players,
		PlayerCount:     len(roster.Players),
		SessionCount:    len(sessions.Sessions),
		RecentSessions:  sessiondata.Recent(sessions.Sessions, RecentSessionCount),
		SessionsOutcome: sessions.Outcome,
	}
	var total float64
	for _, p := range roster.Players {
		if p.IsActive() {
			result.ActiveCount++
		}
		total += p.Attendance
	}
	if result.PlayerCount > 0 {
		result.AverageAttendance = total / float64(result.PlayerCount)
	}
	return result, nil
}
