package orchestrators

import (
	"context"
	"log/slog"
	"net/http"

	"coachdesk/internal/adapters/api"
	"coachdesk/internal/domain/schedule"
)

const opAddScheduleEvent = "add_schedule_event"

// AddScheduleEventInput carries input for the add-event orchestrator.
type AddScheduleEventInput struct {
	Event schedule.Event
	Token string // optional; the stored token is used when empty
}

// AddScheduleEventResult carries the created event.
type AddScheduleEventResult struct {
	Event schedule.Event // the submitted event with server-assigned fields applied
	Data  api.Row        // the server's data object as returned
}

// AddScheduleEventDeps holds dependencies for AddScheduleEvent.
type AddScheduleEventDeps struct {
	Client Caller
}

// ExecuteAddScheduleEvent validates and submits a new schedule event.
// PRE: input.Event passes Validate
// POST: Returns the event with its server-assigned id, or a classified error
func ExecuteAddScheduleEvent(ctx context.Context, input AddScheduleEventInput, deps AddScheduleEventDeps) (AddScheduleEventResult, error) {
	ev := input.Event
	ev.Type = schedule.NormalizeType(ev.Type)
	if err := ev.Validate(); err != nil {
		return AddScheduleEventResult{}, api.Validation(opAddScheduleEvent, err, "%s", err.Error())
	}

	resp, err := deps.Client.Do(ctx, api.Request{
		Op:     opAddScheduleEvent,
		Method: http.MethodPost,
		Path:   "/api/schedule-addevents",
		Token:  input.Token,
		Body:   ev,
	})
	if err != nil {
		return AddScheduleEventResult{}, err
	}

	ack, err := api.ReadObject(resp, opAddScheduleEvent, api.GenericFailure(resp.Status, "Failed to add schedule event."))
	if err != nil {
		slog.Warn("schedule_event_rejected", "title", ev.Title, "status", resp.Status, "error", err)
		return AddScheduleEventResult{}, err
	}

	data := ack.Object("data")
	if data == nil {
		data = ack
	}
	if id := data.String("id", "event_id"); id != "" {
		ev.ID = id
	}
	if tenant := data.String("tenant_id"); tenant != "" {
		ev.TenantID = tenant
	}

	slog.Info("schedule_event_added", "id", ev.ID, "type", ev.Type, "date", ev.Date)
	return AddScheduleEventResult{Event: ev, Data: data}, nil
}

