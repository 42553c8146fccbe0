package devbackend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"coachdesk/internal/domain/attendance"
	"coachdesk/internal/domain/schedule"
	"coachdesk/internal/domain/session"
)

const maxRequestBytes = 1 << 20

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	return dec.Decode(v)
}

func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func pathInt(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

type credentialsBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(body.Email) == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	role := strings.ToLower(strings.TrimSpace(body.Role))
	if role == "" {
		role = session.RoleCoach
	}
	if !session.IsValidRole(role) {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}
	hash, err := HashPassword(body.Password)
	if err != nil {
		internalError(w, err)
		return
	}
	acct, err := s.store.CreateAccount(Account{
		Name:         strings.TrimSpace(body.Name),
		Email:        strings.TrimSpace(body.Email),
		Role:         role,
		PasswordHash: hash,
	})
	if errors.Is(err, ErrAccountExists) {
		writeError(w, http.StatusConflict, "User already exists")
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	token, err := NewAccessToken(s.cfg.JWTSecret, s.cfg.TokenTTL, ClaimsFor(acct))
	if err != nil {
		internalError(w, err)
		return
	}
	slog.Info("dev_signup", "email", acct.Email, "role", acct.Role)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"token":   token,
		"user":    userRow(acct),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	acct, err := s.store.AccountByEmail(body.Email)
	if err != nil || !CheckPassword(acct.PasswordHash, body.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if role := strings.ToLower(strings.TrimSpace(body.Role)); role != "" && role != acct.Role {
		writeError(w, http.StatusForbidden, fmt.Sprintf("This account is not registered as a %s.", role))
		return
	}
	token, err := NewAccessToken(s.cfg.JWTSecret, s.cfg.TokenTTL, ClaimsFor(acct))
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    userRow(acct),
	})
}

// handleCoachData answers {"players": [...]}.
func (s *Server) handleCoachData(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if !session.IsStaffRole(claims.Role) && claims.Role != session.RoleAdmin {
		writeError(w, http.StatusForbidden, "Only coaches can view this")
		return
	}
	filter := PlayerFilter{CoachName: strings.TrimSpace(r.URL.Query().Get("coachName"))}
	if raw := strings.TrimSpace(r.URL.Query().Get("coachId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid coachId")
			return
		}
		filter.CoachID = id
	}
	if filter.CoachID == 0 && filter.CoachName == "" {
		filter.CoachID = claims.CoachID
	}
	rows := []map[string]any{}
	for _, p := range s.store.Players(filter) {
		rows = append(rows, playerRow(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": rows})
}

// handleTeacherDashboard answers {"rows": [...]} for teacher accounts.
func (s *Server) handleTeacherDashboard(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if claims.Role != session.RoleTeacher && claims.Role != session.RoleAdmin {
		writeError(w, http.StatusForbidden, "Only teachers can view this dashboard")
		return
	}
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	teacher, err := s.store.AccountByEmail(email)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Teacher not found"})
		return
	}
	players := s.store.Players(PlayerFilter{CoachID: teacher.EffectiveCoachID()})
	if len(players) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No students assigned"})
		return
	}
	rows := make([]map[string]any, 0, len(players))
	for _, p := range players {
		rows = append(rows, playerRow(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

// handleAddEvent answers {"data": {...}} with the stored event.
func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	var ev schedule.Event
	if err := decodeBody(r, &ev); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(ev.TenantID) == "" {
		ev.TenantID = strconv.FormatInt(claims.TenantID, 10)
	}
	ev.Type = schedule.NormalizeType(ev.Type)
	if err := ev.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec := s.store.AddEvent(ev, claims.CoachID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Event added successfully",
		"data":    eventRow(rec),
	})
}

// handleEventsFetch answers {"data": [...]}.
func (s *Server) handleEventsFetch(w http.ResponseWriter, r *http.Request) {
	coachID, err := pathInt(r, "coachId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coachId")
		return
	}
	rows := []map[string]any{}
	for _, e := range s.store.Events(chi.URLParam(r, "tenantId"), coachID) {
		rows = append(rows, eventRow(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rows})
}

// handleAttendance stores one mark and answers with its id.
func (s *Server) handleAttendance(w http.ResponseWriter, r *http.Request) {
	var m attendance.Mark
	if err := decodeBody(r, &m); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := m.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	playerID, err := strconv.ParseInt(m.PlayerID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid playerId")
		return
	}
	coachID, err := strconv.ParseInt(m.CoachID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coachId")
		return
	}
	rec, err := s.store.RecordAttendance(playerID, m, coachID)
	if errors.Is(err, ErrPlayerNotFound) {
		writeError(w, http.StatusNotFound, "Player not found")
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Attendance recorded",
		"id":      rec.ID,
	})
}

// handleAttendanceRecords answers a bare array, or 404 when there is nothing.
func (s *Server) handleAttendanceRecords(w http.ResponseWriter, r *http.Request) {
	coachID, err := pathInt(r, "coachId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coachId")
		return
	}
	records := s.store.Attendance(coachID)
	if len(records) == 0 {
		writeNoData(w)
		return
	}
	rows := make([]map[string]any, 0, len(records))
	for _, a := range records {
		p, _ := s.store.Player(a.PlayerID)
		rows = append(rows, attendanceRow(a, p))
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleSessionsData answers {"payload": {"sessions": [...]}}.
func (s *Server) handleSessionsData(w http.ResponseWriter, r *http.Request) {
	coachID, err := pathInt(r, "coachId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coachId")
		return
	}
	sessions := s.store.Sessions(coachID)
	if len(sessions) == 0 {
		writeNoData(w)
		return
	}
	rows := make([]map[string]any, 0, len(sessions))
	for _, sess := range sessions {
		rows = append(rows, map[string]any{
			"id":           sess.ID,
			"session_name": sess.Name,
			"date":         sess.Date,
			"session_type": sess.Type,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"payload": map[string]any{"sessions": rows}})
}

// handlePlayerDetails answers {"data": [...]} with at most one row.
func (s *Server) handlePlayerDetails(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathInt(r, "playerId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid playerId")
		return
	}
	rows := []map[string]any{}
	if p, err := s.store.Player(playerID); err == nil && strings.EqualFold(p.GuardianEmail, chi.URLParam(r, "email")) {
		rows = append(rows, detailRow(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rows})
}

// handleGuardianPlayers answers {"data": [...]}, or 404 when the guardian has no players.
func (s *Server) handleGuardianPlayers(w http.ResponseWriter, r *http.Request) {
	players := s.store.Players(PlayerFilter{GuardianEmail: chi.URLParam(r, "email")})
	if len(players) == 0 {
		writeNoData(w)
		return
	}
	rows := make([]map[string]any, 0, len(players))
	for _, p := range players {
		rows = append(rows, detailRow(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rows})
}

// handlePlayer answers {"data": {...}}.
func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathInt(r, "playerId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid playerId")
		return
	}
	p, err := s.store.Player(playerID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Player not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": detailRow(p)})
}

func userRow(a Account) map[string]any {
	row := map[string]any{
		"id":        a.ID,
		"name":      a.Name,
		"email":     a.Email,
		"role":      a.Role,
		"tenant_id": a.TenantID,
	}
	if a.CoachID != 0 {
		row["coach_id"] = a.CoachID
	}
	return row
}

func playerRow(p PlayerRecord) map[string]any {
	return map[string]any{
		"id":           p.ID,
		"name":         p.Name,
		"age":          p.Age,
		"category":     p.Category,
		"status":       p.Status,
		"attendance":   p.Attendance,
		"phone":        p.Phone,
		"center_name":  p.Center,
		"coach_name":   p.CoachName,
		"player_email": p.PlayerEmail,
	}
}

func detailRow(p PlayerRecord) map[string]any {
	row := playerRow(p)
	row["player_id"] = p.ID
	row["guardian_email"] = p.GuardianEmail
	row["date_of_birth"] = p.DateOfBirth
	row["joined_at"] = p.JoinedAt
	return row
}

func eventRow(e EventRecord) map[string]any {
	return map[string]any{
		"id":          e.ID,
		"tenant_id":   e.TenantID,
		"coach_id":    e.CoachID,
		"title":       e.Title,
		"event_type":  e.Type,
		"event_date":  e.Date,
		"event_time":  e.Time,
		"duration":    e.Duration,
		"location":    e.Location,
		"team":        e.Team,
		"description": e.Description,
		"created_at":  e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func attendanceRow(a AttendanceRecord, p PlayerRecord) map[string]any {
	status := attendance.StatusAbsent
	if a.Present {
		status = attendance.StatusPresent
	}
	return map[string]any{
		"id":                a.ID,
		"player_id":         a.PlayerID,
		"name":              p.Name,
		"attendance_date":   a.Date,
		"attendance_status": status,
		"coach_name":        p.CoachName,
		"created_time":      a.CreatedAt.Format("15:04"),
	}
}
