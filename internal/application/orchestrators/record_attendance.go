package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"coachdesk/internal/adapters/api"
	"coachdesk/internal/domain/attendance"
)

const (
	opRecordAttendance = "record_attendance"
	opSubmitSheet      = "submit_attendance_sheet"
)

// DefaultSheetParallelism bounds concurrent attendance writes for one sheet.
const DefaultSheetParallelism = 4

// RecordAttendanceInput carries input for the record-attendance orchestrator.
type RecordAttendanceInput struct {
	Mark  attendance.Mark
	Token string // optional; the stored token is used when empty
}

// RecordAttendanceDeps holds dependencies for RecordAttendance and SubmitAttendanceSheet.
type RecordAttendanceDeps struct {
	Client Caller
}

// ExecuteRecordAttendance submits one attendance mark.
// PRE: input.Mark passes Validate
// POST: Returns the server acknowledgement; a rejection is always an error
func ExecuteRecordAttendance(ctx context.Context, input RecordAttendanceInput, deps RecordAttendanceDeps) (api.Row, error) {
	if err := input.Mark.Validate(); err != nil {
		return nil, api.Validation(opRecordAttendance, err, "%s", err.Error())
	}
	return recordMark(ctx, input.Mark, input.Token, deps.Client)
}

func recordMark(ctx context.Context, mark attendance.Mark, token string, client Caller) (api.Row, error) {
	resp, err := client.Do(ctx, api.Request{
		Op:     opRecordAttendance,
		Method: http.MethodPost,
		Path:   "/api/attendance",
		Token:  token,
		Body:   mark,
	})
	if err != nil {
		return nil, err
	}
	ack, err := api.ReadAck(resp, opRecordAttendance, api.GenericFailure(resp.Status, "Failed to save record."))
	if err != nil {
		slog.Warn("attendance_rejected", "player_id", mark.PlayerID, "date", mark.AttendanceDate, "status", resp.Status, "error", err)
		return nil, err
	}
	slog.Info("attendance_recorded", "player_id", mark.PlayerID, "date", mark.AttendanceDate, "present", mark.IsPresent)
	return ack, nil
}

// SubmitAttendanceSheetInput carries input for the sheet orchestrator.
type SubmitAttendanceSheetInput struct {
	Sheet       attendance.Sheet
	Token       string // optional; resolved once for the whole sheet
	Parallelism int    // zero means DefaultSheetParallelism
}

// MarkOutcome is the result of one sheet entry.
type MarkOutcome struct {
	PlayerID string
	Name     string
	Present  bool
	Ack      api.Row
	Err      error
}

// SubmitAttendanceSheetResult carries per-player outcomes in sheet order.
type SubmitAttendanceSheetResult struct {
	Outcomes []MarkOutcome
	Recorded int
	Failed   int
}

// ExecuteSubmitAttendanceSheet records every entry on a sheet.
// PRE: input.Sheet passes Validate (at least one player present)
// POST: Every entry is attempted once; failures are returned joined, never dropped
// INVARIANT: Outcomes has one element per entry, in entry order
func ExecuteSubmitAttendanceSheet(ctx context.Context, input SubmitAttendanceSheetInput, deps RecordAttendanceDeps) (SubmitAttendanceSheetResult, error) {
	if err := input.Sheet.Validate(); err != nil {
		return SubmitAttendanceSheetResult{}, api.Validation(opSubmitSheet, err, "%s", err.Error())
	}

	token := deps.Client.ResolveToken(ctx, input.Token)
	marks := input.Sheet.Marks()
	outcomes := make([]MarkOutcome, len(marks))

	limit := input.Parallelism
	if limit <= 0 {
		limit = DefaultSheetParallelism
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i, mark := range marks {
		i, mark := i, mark
		entry := input.Sheet.Entries[i]
		g.Go(func() error {
			ack, err := recordMark(ctx, mark, token, deps.Client)
			outcomes[i] = MarkOutcome{
				PlayerID: mark.PlayerID,
				Name:     entry.Name,
				Present:  mark.IsPresent,
				Ack:      ack,
				Err:      err,
			}
			return nil
		})
	}
	_ = g.Wait()

	result := SubmitAttendanceSheetResult{Outcomes: outcomes}
	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			result.Failed++
			errs = append(errs, fmt.Errorf("player %s: %w", o.PlayerID, o.Err))
			continue
		}
		result.Recorded++
	}

	slog.Info("attendance_sheet_submitted",
		"date", input.Sheet.Date,
		"coach_id", input.Sheet.CoachID,
		"recorded", result.Recorded,
		"failed", result.Failed,
	)
	return result, errors.Join(errs...)
}
