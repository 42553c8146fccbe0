package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"coachdesk/internal/application/orchestrators"
	"coachdesk/internal/application/projections"
	"coachdesk/internal/domain/attendance"
	"coachdesk/internal/domain/schedule"
	"coachdesk/internal/domain/session"
)

var errNotLoggedIn = errors.New("not logged in; run coachctl login first")

func newFlags(name string) *flag.FlagSet {
	return flag.NewFlagSet("coachctl "+name, flag.ContinueOnError)
}

// requireSession loads the stored session or fails when there is none.
func (a *app) requireSession(ctx context.Context) (session.Context, error) {
	sess := a.creds.Load(ctx)
	if !sess.Authenticated() {
		return session.Context{}, errNotLoggedIn
	}
	return sess, nil
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func cmdSignup(ctx context.Context, a *app, args []string) error {
	fs := newFlags("signup")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	role := fs.String("role", session.RoleCoach, "coach, teacher, admin, player or guardian")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := orchestrators.ExecuteSignup(ctx, orchestrators.SignupInput{
		Name: *name, Email: *email, Password: *password, Role: *role,
	}, orchestrators.SignupDeps{Client: a.client})
	if err != nil {
		return err
	}
	msg := res.Data.String("message")
	if msg == "" {
		msg = "Account created."
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	role := fs.String("role", "", "expected role (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := orchestrators.ExecuteLogin(ctx, orchestrators.LoginInput{
		Email: *email, Password: *password, Role: *role,
	}, orchestrators.LoginDeps{Client: a.client, Credentials: a.creds})
	if err != nil {
		return err
	}
	u := res.Session.User
	fmt.Fprintf(a.out, "Logged in as %s (%s), coach id %s\n", u.Name, u.Role, u.CoachID())
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	orchestrators.ExecuteLogout(ctx, orchestrators.LoginDeps{Client: a.client, Credentials: a.creds})
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func cmdWhoami(ctx context.Context, a *app, _ []string) error {
	sess := a.creds.Load(ctx)
	if !sess.HasProfile() {
		if sess.Authenticated() {
			fmt.Fprintln(a.out, "Token stored, no profile.")
			return nil
		}
		return errNotLoggedIn
	}
	u := sess.User
	w := a.table()
	fmt.Fprintf(w, "name\t%s\n", u.Name)
	fmt.Fprintf(w, "email\t%s\n", u.Email)
	fmt.Fprintf(w, "role\t%s\n", u.Role)
	fmt.Fprintf(w, "tenant\t%s\n", u.TenantID)
	fmt.Fprintf(w, "coach id\t%s\n", u.CoachID())
	fmt.Fprintf(w, "token\t%t\n", sess.Authenticated())
	fmt.Fprintf(w, "server\t%s\n", a.client.BaseURL())
	return w.Flush()
}

func cmdPlayers(ctx context.Context, a *app, args []string) error {
	fs := newFlags("players")
	coachID := fs.String("coach-id", "", "filter by coach id")
	coachName := fs.String("coach-name", "", "filter by coach name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := projections.QueryCoachAssignedPlayers(ctx, projections.CoachPlayersQuery{
		Token:     a.client.ResolveToken(ctx, ""),
		CoachID:   *coachID,
		CoachName: *coachName,
	}, projections.CoachPlayersDeps{Client: a.client})
	if err != nil {
		return err
	}
	w := a.table()
	fmt.Fprintln(w, "ID\tNAME\tAGE\tPOSITION\tSTATUS\tATTENDANCE")
	for _, p := range res.Players {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%.0f%%\n", p.ID, p.DisplayName(), p.Age, p.Position, p.Status, p.Attendance)
	}
	return w.Flush()
}

func cmdStudents(ctx context.Context, a *app, _ []string) error {
	res, err := projections.QueryTeacherAssignedStudents(ctx, projections.TeacherStudentsQuery{Session: a.creds.Load(ctx)},
		projections.TeacherStudentsDeps{Client: a.client, Credentials: a.creds})
	if err != nil {
		return err
	}
	if len(res.Players) == 0 {
		fmt.Fprintln(a.out, "No students assigned.")
		return nil
	}
	w := a.table()
	fmt.Fprintln(w, "ID\tNAME\tPOSITION\tSTATUS")
	for _, p := range res.Players {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.DisplayName(), p.Position, p.Status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "(source: %s)\n", res.Source)
	return nil
}

func cmdSchedule(ctx context.Context, a *app, args []string) error {
	fs := newFlags("schedule")
	tenant := fs.String("tenant", "", "tenant id (defaults to the logged-in user's)")
	coach := fs.String("coach", "", "coach id (defaults to the logged-in user's)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tenant == "" || *coach == "" {
		if sess := a.creds.Load(ctx); sess.HasProfile() {
			*tenant = firstNonEmpty(*tenant, sess.User.TenantID.String())
			*coach = firstNonEmpty(*coach, sess.User.CoachID().String())
		}
	}
	res, err := projections.QueryScheduleRecords(ctx, projections.ScheduleRecordsQuery{TenantID: *tenant, CoachID: *coach},
		projections.ScheduleRecordsDeps{Client: a.client})
	if err != nil {
		return err
	}
	w := a.table()
	fmt.Fprintln(w, "DATE\tTIME\tTYPE\tTITLE\tLOCATION")
	for _, e := range res.Events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Date, e.Time, e.Type, e.Title, e.Location)
	}
	return w.Flush()
}

func cmdAddEvent(ctx context.Context, a *app, args []string) error {
	fs := newFlags("add-event")
	var ev schedule.Event
	fs.StringVar(&ev.TenantID, "tenant", "", "tenant id (defaults to the logged-in user's)")
	fs.StringVar(&ev.Title, "title", "", "event title")
	fs.StringVar(&ev.Type, "type", schedule.TypeTraining, "training, match, meeting or tournament")
	fs.StringVar(&ev.Date, "date", "", "YYYY-MM-DD")
	fs.StringVar(&ev.Time, "time", "", "HH:MM")
	fs.StringVar(&ev.Duration, "duration", "", "free text, e.g. 90 min")
	fs.StringVar(&ev.Location, "location", "", "where")
	fs.StringVar(&ev.Team, "team", "", "team")
	fs.StringVar(&ev.Description, "description", "", "notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if ev.TenantID == "" {
		if sess := a.creds.Load(ctx); sess.HasProfile() {
			ev.TenantID = sess.User.TenantID.String()
		}
	}
	res, err := orchestrators.ExecuteAddScheduleEvent(ctx, orchestrators.AddScheduleEventInput{Event: ev},
		orchestrators.AddScheduleEventDeps{Client: a.client})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s %q on %s (id %s)\n", res.Event.Type, res.Event.Title, res.Event.Date, res.Event.ID)
	return nil
}

func cmdAttend(ctx context.Context, a *app, args []string) error {
	fs := newFlags("attend")
	date := fs.String("date", time.Now().Format("2006-01-02"), "YYYY-MM-DD")
	present := fs.String("present", "", "comma-separated player ids marked present")
	absent := fs.String("absent", "", "comma-separated player ids marked absent")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	sheet := attendance.Sheet{Date: *date, CoachID: sess.User.CoachID().String()}
	for _, id := range splitIDs(*present) {
		sheet.Entries = append(sheet.Entries, attendance.Entry{PlayerID: id, Present: true})
	}
	for _, id := range splitIDs(*absent) {
		sheet.Entries = append(sheet.Entries, attendance.Entry{PlayerID: id})
	}
	res, err := orchestrators.ExecuteSubmitAttendanceSheet(ctx, orchestrators.SubmitAttendanceSheetInput{Sheet: sheet, Token: sess.Token},
		orchestrators.RecordAttendanceDeps{Client: a.client})
	if len(res.Outcomes) == 0 {
		return err
	}
	for _, o := range res.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(a.out, "  player %s: %v\n", o.PlayerID, o.Err)
		}
	}
	fmt.Fprintf(a.out, "Recorded %d, failed %d.\n", res.Recorded, res.Failed)
	if err != nil {
		return errors.New("some marks were not saved")
	}
	return nil
}

func cmdRecords(ctx context.Context, a *app, args []string) error {
	fs := newFlags("records")
	coach := fs.String("coach", "", "coach id (defaults to the logged-in user's)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *coach == "" {
		*coach = a.creds.Load(ctx).User.CoachID().String()
	}
	res, err := projections.QueryAttendanceRecords(ctx, projections.AttendanceRecordsQuery{CoachID: *coach},
		projections.AttendanceRecordsDeps{Client: a.client})
	if err != nil {
		return err
	}
	if len(res.Records) == 0 {
		fmt.Fprintln(a.out, "No attendance records.")
		return nil
	}
	w := a.table()
	fmt.Fprintln(w, "DATE\tPLAYER\tSTATUS\tTIME")
	for _, r := range res.Records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.AttendanceDate, r.Name, r.Status, r.Time)
	}
	return w.Flush()
}

func cmdSessions(ctx context.Context, a *app, args []string) error {
	fs := newFlags("sessions")
	coach := fs.String("coach", "", "coach id (defaults to the logged-in user's)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *coach == "" {
		*coach = a.creds.Load(ctx).User.CoachID().String()
	}
	res := projections.QuerySessionData(ctx, projections.SessionDataQuery{CoachID: *coach},
		projections.SessionDataDeps{Client: a.client, Credentials: a.creds})
	if res.Outcome == projections.OutcomeFailed {
		return res.Err
	}
	if len(res.Sessions) == 0 {
		fmt.Fprintf(a.out, "No sessions (%s).\n", res.Outcome)
		return nil
	}
	w := a.table()
	fmt.Fprintln(w, "DATE\tNAME\tTYPE")
	for _, s := range res.Sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Date, s.DisplayName(), s.DisplayType())
	}
	return w.Flush()
}

func cmdPlayer(ctx context.Context, a *app, args []string) error {
	fs := newFlags("player")
	id := fs.String("id", "", "player id")
	guardian := fs.String("guardian", "", "guardian email; lists that guardian's players, or one player with --id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	deps := projections.PlayerDetailsDeps{Client: a.client}
	switch {
	case *guardian != "" && *id != "":
		res, err := projections.QueryPlayerDetails(ctx, projections.PlayerDetailsQuery{Email: *guardian, PlayerID: *id}, deps)
		if err != nil {
			return err
		}
		for _, d := range res.Players {
			fmt.Fprintf(a.out, "%s  %s  born %s  joined %s  attendance %.0f%%\n",
				d.ID, d.DisplayName(), d.DateOfBirth, d.JoinedAt, d.Attendance)
		}
		return nil
	case *guardian != "":
		res, err := projections.QueryGuardianPlayers(ctx, projections.GuardianPlayersQuery{Email: *guardian}, deps)
		if err != nil {
			return err
		}
		if len(res.Players) == 0 {
			fmt.Fprintln(a.out, "No players for this guardian.")
		}
		for _, d := range res.Players {
			fmt.Fprintf(a.out, "%s  %s  %s\n", d.ID, d.DisplayName(), d.Position)
		}
		return nil
	default:
		res, err := projections.QueryPlayer(ctx, projections.PlayerQuery{PlayerID: *id}, deps)
		if err != nil {
			return err
		}
		if !res.Found {
			fmt.Fprintln(a.out, "Player not found.")
			return nil
		}
		p := res.Player
		w := a.table()
		fmt.Fprintf(w, "name\t%s\n", p.DisplayName())
		fmt.Fprintf(w, "position\t%s\n", p.Position)
		fmt.Fprintf(w, "status\t%s\n", p.Status)
		fmt.Fprintf(w, "guardian\t%s\n", p.GuardianEmail)
		fmt.Fprintf(w, "born\t%s\n", p.DateOfBirth)
		fmt.Fprintf(w, "attendance\t%.0f%%\n", p.Attendance)
		return w.Flush()
	}
}

func cmdDashboard(ctx context.Context, a *app, _ []string) error {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	res, err := projections.QueryCoachDashboard(ctx, projections.CoachDashboardQuery{Session: sess},
		projections.CoachDashboardDeps{Client: a.client, Credentials: a.creds})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Players: %d (%d active), average attendance %.0f%%\n",
		res.PlayerCount, res.ActiveCount, res.AverageAttendance)
	fmt.Fprintf(a.out, "Sessions: %d (%s)\n", res.SessionCount, res.SessionsOutcome)
	for _, s := range res.RecentSessions {
		fmt.Fprintf(a.out, "  %s  %s  %s\n", s.Date, s.DisplayName(), s.DisplayType())
	}
	return nil
}

// cmdStats runs the dashboard reads and reports the timings they produced.
func cmdStats(ctx context.Context, a *app, args []string) error {
	fs := newFlags("stats")
	top := fs.Int("top", 5, "number of slowest operations to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	start := time.Now()
	if err := cmdDashboard(ctx, a, nil); err != nil {
		return err
	}
	snap := a.collector.Snapshot(start, *top)
	fmt.Fprintf(a.out, "\ncalls %d, failed %d, p50 %.1fms, p95 %.1fms, p99 %.1fms\n",
		snap.Calls, snap.FailedCalls, snap.CallP50Ms, snap.CallP95Ms, snap.CallP99Ms)
	w := a.table()
	fmt.Fprintln(w, "OP\tCOUNT\tAVG MS\tMAX MS\tFAILURES")
	for _, s := range append(snap.SlowestOps, snap.SlowestStorageOps...) {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\t%d\n", s.Op, s.Count, s.AvgMs, s.MaxMs, s.Failures)
	}
	return w.Flush()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
