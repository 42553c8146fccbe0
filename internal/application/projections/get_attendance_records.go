package projections

import (
	"context"
	"fmt"
	"strings"

	"coachdesk/internal/adapters/api"
	"coachdesk/internal/domain/attendance"
)

const opAttendanceRecords = "fetch_attendance_records"

// AttendanceRecordsQuery holds query parameters for a coach's attendance log.
type AttendanceRecordsQuery struct {
	CoachID string // required
	Token   string // optional; the stored token is used when empty
}

// AttendanceRecordsResult is the attendance log. Downgraded is set when the
// server reported no data or refused the role; Records is then empty.
type AttendanceRecordsResult struct {
	Records    []attendance.Record
	Downgraded bool
	Reason     string
}

// AttendanceRecordsDeps holds dependencies for QueryAttendanceRecords.
type AttendanceRecordsDeps struct {
	Client Caller
}

// QueryAttendanceRecords returns the attendance rows recorded by a coach.
// PRE: CoachID is non-empty
// POST: 404 "no data" and 403 "only coaches" give an empty, downgraded result;
// other non-2xx responses are errors
func QueryAttendanceRecords(ctx context.Context, query AttendanceRecordsQuery, deps AttendanceRecordsDeps) (AttendanceRecordsResult, error) {
	coachID := strings.TrimSpace(query.CoachID)
	if coachID == "" {
		return AttendanceRecordsResult{}, api.Validation(opAttendanceRecords, nil, "coachId is required to fetch attendance records.")
	}

	resp, err := deps.Client.Do(ctx, api.Request{
		Op:    opAttendanceRecords,
		Path:  "/api/attendance-records/" + api.PathSegment(coachID),
		Token: query.Token,
	})
	if err != nil {
		return AttendanceRecordsResult{}, err
	}
	res, err := api.ReadList(resp, opAttendanceRecords, api.ListSpec{
		Downgrades: api.EmptyDowngrades,
		Fallback:   fmt.Sprintf("Error %d: Failed to fetch attendance records.", resp.Status),
	})
	if err != nil {
		return AttendanceRecordsResult{}, err
	}

	records := make([]attendance.Record, 0, len(res.Rows))
	for _, r := range res.Rows {
		records = append(records, api.RecordFromRow(r))
	}
	return AttendanceRecordsResult{Records: records, Downgraded: res.Downgraded, Reason: res.Reason}, nil
}
