package projections

import (
	"context"
	"errors"
	"strings"
	"testing"

	"coachdesk/internal/adapters/api"
)

const recordsPath = "/api/attendance-records/5"

func queryRecords(t *testing.T, r route) (AttendanceRecordsResult, error) {
	t.Helper()
	caller := newMockCaller(map[string]route{recordsPath: r})
	return QueryAttendanceRecords(context.Background(), AttendanceRecordsQuery{CoachID: "5", Token: "tok"},
		AttendanceRecordsDeps{Client: caller})
}

// TestQueryAttendanceRecords_Shapes verifies bare arrays and wrapped lists decode the same.
func TestQueryAttendanceRecords_Shapes(t *testing.T) {
	for _, body := range []string{
		`[{"player_id":1,"name":"Ana","attendance_date":"2026-01-20","attendance_status":"present"}]`,
		`{"data":[{"player_id":1,"name":"Ana","attendance_date":"2026-01-20","attendance_status":"present"}]}`,
		`{"records":[{"player_id":1,"name":"Ana","attendance_date":"2026-01-20","attendance_status":"present"}]}`,
	} {
		res, err := queryRecords(t, route{status: 200, body: body})
		if err != nil {
			t.Fatalf("body %s: unexpected error: %v", body, err)
		}
		if len(res.Records) != 1 || !res.Records[0].IsPresent() || res.Records[0].Name != "Ana" {
			t.Errorf("body %s: records = %+v", body, res.Records)
		}
	}
}

// TestQueryAttendanceRecords_NoDataDowngraded verifies 404 "No data found" is an empty success.
func TestQueryAttendanceRecords_NoDataDowngraded(t *testing.T) {
	res, err := queryRecords(t, route{status: 404, body: `{"message":"No data found"}`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 0 || res.Records == nil || !res.Downgraded || res.Reason != "no_data" {
		t.Errorf("result = %+v", res)
	}
}

// TestQueryAttendanceRecords_OnlyCoachesDowngraded verifies 403 "Only coaches" is an empty success.
func TestQueryAttendanceRecords_OnlyCoachesDowngraded(t *testing.T) {
	res, err := queryRecords(t, route{status: 403, body: `{"error":"Only coaches can view this"}`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 0 || !res.Downgraded || res.Reason != "only_coaches" {
		t.Errorf("result = %+v", res)
	}
}

// TestQueryAttendanceRecords_PhraseBesideErrorField verifies the downgrade
// phrase is found in message when error carries a generic status text.
func TestQueryAttendanceRecords_PhraseBesideErrorField(t *testing.T) {
	tests := []struct {
		status int
		body   string
		reason string
	}{
		{404, `{"error":"Not Found","message":"No data found for this coach"}`, "no_data"},
		{403, `{"error":"Forbidden","message":"Only coaches can view attendance"}`, "only_coaches"},
	}
	for _, tt := range tests {
		res, err := queryRecords(t, route{status: tt.status, body: tt.body})
		if err != nil {
			t.Fatalf("status %d: unexpected error: %v", tt.status, err)
		}
		if !res.Downgraded || res.Reason != tt.reason || len(res.Records) != 0 {
			t.Errorf("status %d: result = %+v", tt.status, res)
		}
	}
}

// TestQueryAttendanceRecords_ServerError verifies a 500 raises with the server text.
func TestQueryAttendanceRecords_ServerError(t *testing.T) {
	_, err := queryRecords(t, route{status: 500, body: `{"error":"Database connection lost"}`})
	if !errors.Is(err, api.ErrServer) || !strings.Contains(err.Error(), "Database connection lost") {
		t.Errorf("err = %v", err)
	}

	_, err = queryRecords(t, route{status: 500, body: ``})
	if err == nil || err.Error() != "Error 500: Failed to fetch attendance records." {
		t.Errorf("err = %v", err)
	}
}

// TestQueryAttendanceRecords_MissingCoach verifies validation before I/O.
func TestQueryAttendanceRecords_MissingCoach(t *testing.T) {
	caller := newMockCaller(nil)
	_, err := QueryAttendanceRecords(context.Background(), AttendanceRecordsQuery{Token: "tok"}, AttendanceRecordsDeps{Client: caller})
	if !errors.Is(err, api.ErrValidation) || len(caller.paths()) != 0 {
		t.Errorf("err = %v calls = %v", err, caller.paths())
	}
}
