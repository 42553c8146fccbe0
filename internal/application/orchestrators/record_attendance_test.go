package orchestrators

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"coachdesk/internal/adapters/api"
	"coachdesk/internal/domain/attendance"
)

var sampleMark = attendance.Mark{PlayerID: "1", AttendanceDate: "2026-01-23", IsPresent: true, CoachID: "5"}

// TestExecuteRecordAttendance_Ack verifies a 201 returns the acknowledgement body.
func TestExecuteRecordAttendance_Ack(t *testing.T) {
	caller := &mockCaller{handler: respond(201, `{"success":true,"id":77}`)}
	ack, err := ExecuteRecordAttendance(context.Background(), RecordAttendanceInput{Mark: sampleMark, Token: "tok"},
		RecordAttendanceDeps{Client: caller})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ack.String("id") != "77" {
		t.Errorf("ack = %v", ack)
	}
	if got := caller.calls[0].Body.(attendance.Mark); got != sampleMark {
		t.Errorf("body = %+v", got)
	}
}

// TestExecuteRecordAttendance_Duplicate verifies the server message is raised verbatim.
func TestExecuteRecordAttendance_Duplicate(t *testing.T) {
	_, err := ExecuteRecordAttendance(context.Background(), RecordAttendanceInput{Mark: sampleMark, Token: "tok"},
		RecordAttendanceDeps{Client: &mockCaller{handler: respond(400, `{"error":"duplicate"}`)}})
	if err == nil || err.Error() != "duplicate" {
		t.Errorf("err = %v, want duplicate", err)
	}
	if !errors.Is(err, api.ErrServer) {
		t.Errorf("err kind wrong: %v", err)
	}
}

// TestExecuteRecordAttendance_GenericMessage verifies the fallback text carries the status.
func TestExecuteRecordAttendance_GenericMessage(t *testing.T) {
	_, err := ExecuteRecordAttendance(context.Background(), RecordAttendanceInput{Mark: sampleMark},
		RecordAttendanceDeps{Client: &mockCaller{handler: respond(502, `bad gateway`)}})
	if err == nil || err.Error() != "Error 502: Failed to save record." {
		t.Errorf("err = %v", err)
	}
}

// TestExecuteRecordAttendance_Invalid verifies validation before I/O.
func TestExecuteRecordAttendance_Invalid(t *testing.T) {
	caller := &mockCaller{handler: respond(201, `{}`)}
	m := sampleMark
	m.CoachID = ""
	_, err := ExecuteRecordAttendance(context.Background(), RecordAttendanceInput{Mark: m}, RecordAttendanceDeps{Client: caller})
	if !errors.Is(err, attendance.ErrMissingCoach) || caller.callCount() != 0 {
		t.Errorf("err = %v calls = %d", err, caller.callCount())
	}
}

// TestExecuteSubmitAttendanceSheet_AllRecorded verifies one call per entry with a shared token.
func TestExecuteSubmitAttendanceSheet_AllRecorded(t *testing.T) {
	caller := &mockCaller{handler: respond(201, `{"success":true}`), storedToken: "stored"}
	sheet := attendance.Sheet{Date: "2026-01-23", CoachID: "5", Entries: []attendance.Entry{
		{PlayerID: "1", Name: "Ana", Present: true},
		{PlayerID: "2", Name: "Ben", Present: false},
		{PlayerID: "3", Name: "Caz", Present: true},
	}}
	res, err := ExecuteSubmitAttendanceSheet(context.Background(), SubmitAttendanceSheetInput{Sheet: sheet, Parallelism: 2},
		RecordAttendanceDeps{Client: caller})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Recorded != 3 || res.Failed != 0 || len(res.Outcomes) != 3 {
		t.Fatalf("result = %+v", res)
	}
	for i, o := range res.Outcomes {
		if o.PlayerID != sheet.Entries[i].PlayerID || o.Name != sheet.Entries[i].Name {
			t.Errorf("outcome %d = %+v, out of order", i, o)
		}
	}
	for _, req := range caller.calls {
		if req.Token != "stored" {
			t.Errorf("token = %q, want the resolved token on every call", req.Token)
		}
	}
}

// TestExecuteSubmitAttendanceSheet_PartialFailure verifies failures are joined, never dropped.
func TestExecuteSubmitAttendanceSheet_PartialFailure(t *testing.T) {
	var n atomic.Int32
	caller := &mockCaller{handler: func(req api.Request) (*api.Response, error) {
		n.Add(1)
		if req.Body.(attendance.Mark).PlayerID == "2" {
			return &api.Response{Status: 400, Body: []byte(`{"error":"duplicate"}`)}, nil
		}
		return &api.Response{Status: 201, Body: []byte(`{}`)}, nil
	}}
	sheet := attendance.Sheet{Date: "2026-01-23", CoachID: "5", Entries: []attendance.Entry{
		{PlayerID: "1", Present: true},
		{PlayerID: "2", Present: true},
	}}
	res, err := ExecuteSubmitAttendanceSheet(context.Background(), SubmitAttendanceSheetInput{Sheet: sheet, Token: "tok"},
		RecordAttendanceDeps{Client: caller})
	if err == nil || !strings.Contains(err.Error(), "player 2: duplicate") {
		t.Fatalf("err = %v", err)
	}
	if !errors.Is(err, api.ErrServer) {
		t.Errorf("joined error lost its kind: %v", err)
	}
	if res.Recorded != 1 || res.Failed != 1 || n.Load() != 2 {
		t.Errorf("result = %+v calls = %d", res, n.Load())
	}
}

// TestExecuteSubmitAttendanceSheet_NobodyPresent verifies the at-least-one-present rule.
func TestExecuteSubmitAttendanceSheet_NobodyPresent(t *testing.T) {
	caller := &mockCaller{handler: respond(201, `{}`)}
	sheet := attendance.Sheet{Date: "2026-01-23", CoachID: "5", Entries: []attendance.Entry{{PlayerID: "1"}}}
	_, err := ExecuteSubmitAttendanceSheet(context.Background(), SubmitAttendanceSheetInput{Sheet: sheet}, RecordAttendanceDeps{Client: caller})
	if !errors.Is(err, attendance.ErrNobodyPresent) || !errors.Is(err, api.ErrValidation) {
		t.Errorf("err = %v", err)
	}
	if caller.callCount() != 0 {
		t.Errorf("calls = %d, want 0", caller.callCount())
	}
}
