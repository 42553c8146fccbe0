package projections

import (
	"context"
	"net/http"
	"strings"

	"coachdesk/internal/adapters/api"
	"coachdesk/internal/domain/schedule"
)

const opScheduleRecords = "fetch_schedule_records"

// ScheduleRecordsQuery holds query parameters for a coach's schedule.
type ScheduleRecordsQuery struct {
	TenantID string // required
	CoachID  string // required
	Token    string // optional; the stored token is used when empty
}

// ScheduleRecordsResult is the coach's schedule in server order.
type ScheduleRecordsResult struct {
	Events []schedule.Event
}

// ScheduleRecordsDeps holds dependencies for QueryScheduleRecords.
type ScheduleRecordsDeps struct {
	Client Caller
}

// QueryScheduleRecords returns the events for a tenant and coach.
// PRE: TenantID and CoachID are non-empty
// POST: Returns events with display defaults applied; any non-2xx is an error
func QueryScheduleRecords(ctx context.Context, query ScheduleRecordsQuery, deps ScheduleRecordsDeps) (ScheduleRecordsResult, error) {
	tenantID := strings.TrimSpace(query.TenantID)
	coachID := strings.TrimSpace(query.CoachID)
	if tenantID == "" || coachID == "" {
		return ScheduleRecordsResult{}, api.Validation(opScheduleRecords, nil, "Both tenantId and coachId are required to fetch schedule records.")
	}

	resp, err := deps.Client.Do(ctx, api.Request{
		Op:    opScheduleRecords,
		Path:  "/api/events-fetch/" + api.PathSegment(tenantID) + "/" + api.PathSegment(coachID),
		Token: query.Token,
	})
	if err != nil {
		return ScheduleRecordsResult{}, err
	}
	if !resp.OK() {
		detail := api.JSONMessage(resp.Body)
		if detail == "" {
			detail = http.StatusText(resp.Status)
		}
		return ScheduleRecordsResult{}, api.ServerFailure(opScheduleRecords, resp.Status, "Failed to fetch schedule records: "+detail)
	}

	res, _ := api.ReadList(resp, opScheduleRecords, api.ListSpec{})
	events := make([]schedule.Event, 0, len(res.Rows))
	for _, r := range res.Rows {
		events = append(events, api.EventFromRow(r))
	}
	return ScheduleRecordsResult{Events: events}, nil
}
