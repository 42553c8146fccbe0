package projections

import (
	"context"
	"fmt"
	"strings"

	"coachdesk/internal/adapters/api"
	"coachdesk/internal/domain/player"
)

const (
	opPlayerDetails  = "fetch_player_details"
	opGuardianPlayer = "fetch_guardian_players"
	opPlayer         = "fetch_player"
)

// PlayerDetailsQuery holds query parameters for a player's details as seen by a guardian or coach.
type PlayerDetailsQuery struct {
	Email    string // required
	PlayerID string // required
	Token    string
}

// GuardianPlayersQuery holds query parameters for a guardian's players.
type GuardianPlayersQuery struct {
	Email string // required
	Token string
}

// PlayerQuery holds query parameters for a single player.
type PlayerQuery struct {
	PlayerID string // required
	Token    string
}

// PlayerDetailsResult is a list of player details.
type PlayerDetailsResult struct {
	Players    []player.Detail
	Downgraded bool
}

// PlayerResult is one player's details.
type PlayerResult struct {
	Player player.Detail
	Found  bool
}

// PlayerDetailsDeps holds dependencies for the player detail queries.
type PlayerDetailsDeps struct {
	Client Caller
}

// QueryPlayerDetails returns the details for one player under a guardian email.
// PRE: Email and PlayerID are non-empty
// POST: Returns zero or more details; any non-2xx is an error
func QueryPlayerDetails(ctx context.Context, query PlayerDetailsQuery, deps PlayerDetailsDeps) (PlayerDetailsResult, error) {
	email := strings.TrimSpace(query.Email)
	id := strings.TrimSpace(query.PlayerID)
	if email == "" || id == "" {
		return PlayerDetailsResult{}, api.Validation(opPlayerDetails, nil, "Both email and playerId are required to fetch player details.")
	}
	return fetchDetails(ctx, deps.Client, opPlayerDetails,
		"/api/player-details/"+api.PathSegment(email)+"/"+api.PathSegment(id), query.Token, nil)
}

// QueryGuardianPlayers returns every player linked to a guardian email.
// PRE: Email is non-empty
// POST: 404 "no data" and 403 "only coaches" give an empty, downgraded result
func QueryGuardianPlayers(ctx context.Context, query GuardianPlayersQuery, deps PlayerDetailsDeps) (PlayerDetailsResult, error) {
	email := strings.TrimSpace(query.Email)
	if email == "" {
		return PlayerDetailsResult{}, api.Validation(opGuardianPlayer, nil, "email is required to fetch guardian players.")
	}
	return fetchDetails(ctx, deps.Client, opGuardianPlayer,
		"/api/player-details-by-guardian/"+api.PathSegment(email), query.Token, api.EmptyDowngrades)
}

// QueryPlayer returns a single player.
// PRE: PlayerID is non-empty
// POST: Found is false when the server answered with no record; non-2xx is an error
func QueryPlayer(ctx context.Context, query PlayerQuery, deps PlayerDetailsDeps) (PlayerResult, error) {
	id := strings.TrimSpace(query.PlayerID)
	if id == "" {
		return PlayerResult{}, api.Validation(opPlayer, nil, "playerId is required to fetch a player.")
	}
	resp, err := deps.Client.Do(ctx, api.Request{
		Op:    opPlayer,
		Path:  "/api/player/" + api.PathSegment(id),
		Token: query.Token,
	})
	if err != nil {
		return PlayerResult{}, err
	}
	res, err := api.ReadList(resp, opPlayer, api.ListSpec{
		Fallback: fmt.Sprintf("Error %d: Failed to fetch player.", resp.Status),
	})
	if err != nil {
		return PlayerResult{}, err
	}
	if len(res.Rows) == 0 {
		return PlayerResult{}, nil
	}
	return PlayerResult{Player: api.DetailFromRow(res.Rows[0]), Found: true}, nil
}

func fetchDetails(ctx context.Context, client Caller, op, path, token string, downgrades []api.DowngradeRule) (PlayerDetailsResult, error) {
	resp, err := client.Do(ctx, api.Request{Op: op, Path: path, Token: token})
	if err != nil {
		return PlayerDetailsResult{}, err
	}
	res, err := api.ReadList(resp, op, api.ListSpec{
		Downgrades: downgrades,
		Fallback:   fmt.Sprintf("Error %d: Failed to fetch player details.", resp.Status),
	})
	if err != nil {
		return PlayerDetailsResult{}, err
	}
	details := make([]player.Detail, 0, len(res.Rows))
	for _, r := range res.Rows {
		details = append(details, api.DetailFromRow(r))
	}
	return PlayerDetailsResult{Players: details, Downgraded: res.Downgraded}, nil
}
