package projections

import (
	"context"
	"fmt"
	"net/url"

	"coachdesk/internal/adapters/api"
	"coachdesk/internal/domain/player"
)

const opCoachPlayers = "fetch_coach_players"

// CoachPlayersQuery holds query parameters for the coach roster.
type CoachPlayersQuery struct {
	Token     string // required
	CoachID   string // optional filter
	CoachName string // optional filter
}

// CoachPlayersResult is the coach's roster.
type CoachPlayersResult struct {
	Players []player.Player
	Shape   string
}

// CoachPlayersDeps holds dependencies for QueryCoachAssignedPlayers.
type CoachPlayersDeps struct {
	Client Caller
}

// QueryCoachAssignedPlayers returns the players assigned to the caller.
// PRE: query.Token is non-empty
// POST: Returns the roster in server order; any non-2xx is an error
func QueryCoachAssignedPlayers(ctx context.Context, query CoachPlayersQuery, deps CoachPlayersDeps) (CoachPlayersResult, error) {
	if query.Token == "" {
		return CoachPlayersResult{}, api.AccessDenied(opCoachPlayers)
	}
	q := url.Values{}
	if query.CoachID != "" {
		q.Set("coachId", query.CoachID)
	}
	if query.CoachName != "" {
		q.Set("coachName", query.CoachName)
	}
	rows, shape, err := fetchRoster(ctx, deps.Client, query.Token, q)
	if err != nil {
		return CoachPlayersResult{}, err
	}
	return CoachPlayersResult{Players: api.PlayersFromRows(rows), Shape: shape}, nil
}

func fetchRoster(ctx context.Context, client Caller, token string, q url.Values) ([]api.Row, string, error) {
	resp, err := client.Do(ctx, api.Request{
		Op:    opCoachPlayers,
		Path:  "/api/coach-data",
		Query: q,
		Token: token,
	})
	if err != nil {
		return nil, "", err
	}
	res, err := api.ReadList(resp, opCoachPlayers, api.ListSpec{
		Fallback: fmt.Sprintf("Failed to fetch players: %d", resp.Status),
	})
	if err != nil {
		return nil, "", err
	}
	return res.Rows, res.Shape, nil
}
