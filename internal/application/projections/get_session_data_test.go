package projections

import (
	"context"
	"errors"
	"testing"

	"coachdesk/internal/adapters/api"
)

const sessionsPath = "/api/sessions-data/5"

// TestQuerySessionData_Shapes verifies every session envelope the backend sends.
func TestQuerySessionData_Shapes(t *testing.T) {
	for _, body := range []string{
		`[{"id":1,"session_name":"Warmup","date":"2026-02-01","session_type":"Fitness"}]`,
		`{"sessions":[{"id":1,"session_name":"Warmup","date":"2026-02-01","session_type":"Fitness"}]}`,
		`{"payload":{"sessions":[{"id":1,"session_name":"Warmup","date":"2026-02-01","session_type":"Fitness"}]}}`,
		`{"id":1,"session_name":"Warmup","date":"2026-02-01","session_type":"Fitness"}`,
	} {
		caller := newMockCaller(map[string]route{sessionsPath: {status: 200, body: body}})
		res := QuerySessionData(context.Background(), SessionDataQuery{CoachID: "5", Token: "tok"}, SessionDataDeps{Client: caller})
		if res.Outcome != OutcomeOK || len(res.Sessions) != 1 || res.Sessions[0].Name != "Warmup" {
			t.Errorf("body %s: result = %+v", body, res)
		}
	}
}

// TestQuerySessionData_NeverFails verifies failures become outcomes with an empty list.
func TestQuerySessionData_NeverFails(t *testing.T) {
	tests := []struct {
		name    string
		r       route
		outcome Outcome
	}{
		{"server error", route{status: 500, body: `{"error":"boom"}`}, OutcomeFailed},
		{"unreachable", route{err: true}, OutcomeFailed},
		{"no data", route{status: 404, body: `{"message":"No data found"}`}, OutcomeDowngraded},
		{"garbage", route{status: 200, body: `{"message":"ok"}`}, OutcomeOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := newMockCaller(map[string]route{sessionsPath: tt.r})
			res := QuerySessionData(context.Background(), SessionDataQuery{CoachID: "5", Token: "tok"}, SessionDataDeps{Client: caller})
			if res.Outcome != tt.outcome {
				t.Errorf("Outcome = %q, want %q", res.Outcome, tt.outcome)
			}
			if res.Sessions == nil || len(res.Sessions) != 0 {
				t.Errorf("Sessions = %v, want empty non-nil", res.Sessions)
			}
		})
	}
}

// TestQuerySessionData_FailedCarriesError verifies the swallowed error stays inspectable.
func TestQuerySessionData_FailedCarriesError(t *testing.T) {
	caller := newMockCaller(map[string]route{sessionsPath: {err: true}})
	res := QuerySessionData(context.Background(), SessionDataQuery{CoachID: "5", Token: "tok"}, SessionDataDeps{Client: caller})
	if !errors.Is(res.Err, api.ErrNetworkUnavailable) {
		t.Errorf("Err = %v", res.Err)
	}
}

// TestQuerySessionData_MissingCoach verifies no call is made without a coach id.
func TestQuerySessionData_MissingCoach(t *testing.T) {
	caller := newMockCaller(nil)
	res := QuerySessionData(context.Background(), SessionDataQuery{Token: "tok"}, SessionDataDeps{Client: caller})
	if res.Outcome != OutcomeMissingCoach || len(caller.paths()) != 0 {
		t.Errorf("result = %+v calls = %v", res, caller.paths())
	}
}

// TestQuerySessionData_TokenResolution verifies store, then refresher, then give up.
func TestQuerySessionData_TokenResolution(t *testing.T) {
	routes := map[string]route{sessionsPath: {status: 200, body: `[]`}}

	creds := &mockCredentials{token: "stored"}
	caller := newMockCaller(routes)
	res := QuerySessionData(context.Background(), SessionDataQuery{CoachID: "5"}, SessionDataDeps{Client: caller, Credentials: creds})
	if res.Outcome != OutcomeOK || caller.calls[0].Token != "stored" {
		t.Errorf("stored: result = %+v calls = %+v", res, caller.calls)
	}

	creds = &mockCredentials{}
	refresher := &mockRefresher{creds: creds, token: "fresh"}
	caller = newMockCaller(routes)
	res = QuerySessionData(context.Background(), SessionDataQuery{CoachID: "5"},
		SessionDataDeps{Client: caller, Credentials: creds, Refresher: refresher})
	if res.Outcome != OutcomeOK || refresher.calls != 1 || caller.calls[0].Token != "fresh" {
		t.Errorf("refreshed: result = %+v refresher calls = %d", res, refresher.calls)
	}

	creds = &mockCredentials{}
	caller = newMockCaller(routes)
	res = QuerySessionData(context.Background(), SessionDataQuery{CoachID: "5"},
		SessionDataDeps{Client: caller, Credentials: creds, Refresher: &mockRefresher{creds: creds}})
	if res.Outcome != OutcomeNoToken || len(caller.paths()) != 0 {
		t.Errorf("no token: result = %+v calls = %v", res, caller.paths())
	}
}

// TestQuerySessionData_ExplicitTokenSkipsStore verifies the store is not read when a token is given.
func TestQuerySessionData_ExplicitTokenSkipsStore(t *testing.T) {
	creds := &mockCredentials{token: "stored"}
	caller := newMockCaller(map[string]route{sessionsPath: {status: 200, body: `[]`}})
	QuerySessionData(context.Background(), SessionDataQuery{CoachID: "5", Token: "explicit"},
		SessionDataDeps{Client: caller, Credentials: creds})
	if creds.reads != 0 {
		t.Errorf("store reads = %d, want 0", creds.reads)
	}
}
