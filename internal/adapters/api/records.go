package api

import (
	"strings"

	"coachdesk/internal/domain/attendance"
	"coachdesk/internal/domain/player"
	"coachdesk/internal/domain/schedule"
	"coachdesk/internal/domain/session"
	"coachdesk/internal/domain/sessiondata"
)

// Row mappers. Each accepts the field aliases the backend has been seen to
// send for the same value.

// PlayerFromRow maps a roster row.
func PlayerFromRow(r Row) player.Player {
	pct, _ := r.Float("attendance", "attendance_percentage")
	return player.Player{
		ID:          r.ID("id", "player_id"),
		Name:        r.String("name", "player_name", "full_name"),
		Age:         r.Int("age"),
		Position:    r.String("category", "position"),
		Status:      r.String("status"),
		Attendance:  player.ClampAttendance(pct),
		Phone:       r.String("phone", "phone_number"),
		Center:      r.String("center", "center_name"),
		Coach:       r.String("coach", "coach_name"),
		PlayerEmail: r.String("player_email"),
	}
}

// PlayersFromRows maps every row, keeping order.
func PlayersFromRows(rows []Row) []player.Player {
	out := make([]player.Player, 0, len(rows))
	for _, r := range rows {
		out = append(out, PlayerFromRow(r))
	}
	return out
}

// DetailFromRow maps a player-details row.
func DetailFromRow(r Row) player.Detail {
	return player.Detail{
		Player:        PlayerFromRow(r),
		GuardianEmail: r.String("guardian_email", "email_id", "email"),
		DateOfBirth:   schedule.NormalizeDate(r.String("date_of_birth", "dob")),
		JoinedAt:      schedule.NormalizeDate(r.String("joined_at", "created_at")),
	}
}

// EventFromRow maps a schedule row, applying the display defaults.
func EventFromRow(r Row) schedule.Event {
	title := r.String("title", "event_title")
	if strings.TrimSpace(title) == "" {
		title = schedule.DefaultTitle
	}
	clock := r.String("event_time", "time")
	if clock == "" {
		clock = schedule.DefaultTime
	}
	return schedule.Event{
		ID:          r.String("id", "event_id"),
		TenantID:    r.String("tenant_id", "tenantId"),
		Title:       title,
		Type:        schedule.NormalizeType(r.String("event_type", "type")),
		Date:        schedule.NormalizeDate(r.String("event_date", "date")),
		Time:        clock,
		Duration:    r.String("duration"),
		Location:    r.String("location"),
		Team:        r.String("team"),
		Description: r.String("description"),
	}
}

// RecordFromRow maps an attendance row.
func RecordFromRow(r Row) attendance.Record {
	status := r.String("attendance_status", "status")
	if status == "" {
		if present, ok := r.Bool("is_present", "isPresent"); ok {
			status = attendance.StatusAbsent
			if present {
				status = attendance.StatusPresent
			}
		}
	}
	return attendance.Record{
		PlayerID:       r.ID("player_id", "playerId", "id"),
		Name:           r.String("name", "player_name"),
		AttendanceDate: schedule.NormalizeDate(r.String("attendance_date", "attendanceDate", "date")),
		Status:         status,
		CoachName:      r.String("coach_name", "marked_by"),
		Time:           r.String("created_time", "time"),
	}
}

// SummaryFromRow maps a session summary row.
func SummaryFromRow(r Row) sessiondata.Summary {
	return sessiondata.Summary{
		ID:   r.ID("id", "session_id"),
		Name: r.String("session_name", "name"),
		Date: r.String("date", "session_date"),
		Type: r.String("session_type", "type"),
	}
}

// UserFromRow maps a login profile.
func UserFromRow(r Row) session.User {
	return session.User{
		ID:       r.ID("id", "user_id"),
		Name:     r.String("name"),
		Email:    r.String("email"),
		Role:     strings.ToLower(r.String("role")),
		TenantID: r.ID("tenant_id", "tenantId"),
		CoachRef: r.ID("coach_id", "coachId"),
	}
}
