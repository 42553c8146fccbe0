package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coachdesk/internal/adapters/devbackend"
)

// setupBackend starts a seeded dev backend and points coachctl at it with a
// throwaway SQLite credential store.
func setupBackend(t *testing.T) {
	t.Helper()
	store := devbackend.NewStore()
	if _, err := devbackend.Seed(store); err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv := httptest.NewServer(devbackend.NewRouter(store, devbackend.Config{JWTSecret: "cli-secret"}))
	t.Cleanup(srv.Close)

	t.Setenv("COACHDESK_API_URL", srv.URL)
	t.Setenv("COACHDESK_STORE", "sqlite")
	t.Setenv("COACHDESK_DB_PATH", filepath.Join(t.TempDir(), "creds.db"))
	t.Setenv("COACHDESK_CREDENTIAL_KEY", "cli-test-key")
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--env", filepath.Join(t.TempDir(), "missing.env")}, args...)
	code := run(context.Background(), full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// TestRun_Usage tests that a missing or unknown command exits with 2.
func TestRun_Usage(t *testing.T) {
	for _, args := range [][]string{nil, {"frobnicate"}} {
		code, _, stderr := runCLI(t, args...)
		if code != 2 {
			t.Errorf("args %v: code = %d, want 2", args, code)
		}
		if !strings.Contains(stderr, "usage: coachctl") {
			t.Errorf("args %v: expected usage, got %q", args, stderr)
		}
	}
}

// TestRun_SessionPersistsAcrossInvocations tests login, reads and logout as separate runs.
func TestRun_SessionPersistsAcrossInvocations(t *testing.T) {
	setupBackend(t)

	code, out, stderr := runCLI(t, "login", "--email", devbackend.DemoCoachEmail, "--password", devbackend.DemoPassword)
	if code != 0 {
		t.Fatalf("login: code %d stderr %s", code, stderr)
	}
	if !strings.Contains(out, "Logged in as Sam Lee") {
		t.Errorf("login output = %q", out)
	}

	code, out, _ = runCLI(t, "whoami")
	if code != 0 || !strings.Contains(out, devbackend.DemoCoachEmail) {
		t.Errorf("whoami: code %d output %q", code, out)
	}
	if !strings.Contains(out, os.Getenv("COACHDESK_API_URL")) {
		t.Errorf("whoami does not name the server: %q", out)
	}

	code, out, _ = runCLI(t, "players")
	if code != 0 || !strings.Contains(out, "Mia Ray") {
		t.Errorf("players: code %d output %q", code, out)
	}

	code, out, _ = runCLI(t, "records")
	if code != 0 || !strings.Contains(out, "No attendance records.") {
		t.Errorf("records: code %d output %q", code, out)
	}

	code, out, _ = runCLI(t, "add-event", "--title", "Cup final", "--type", "match", "--date", "2026-05-01")
	if code != 0 || !strings.Contains(out, `Added match "Cup final"`) {
		t.Errorf("add-event: code %d output %q", code, out)
	}

	code, out, _ = runCLI(t, "schedule")
	if code != 0 || !strings.Contains(out, "Cup final") {
		t.Errorf("schedule: code %d output %q", code, out)
	}

	code, out, _ = runCLI(t, "dashboard")
	if code != 0 || !strings.Contains(out, "Players: 4 (3 active)") {
		t.Errorf("dashboard: code %d output %q", code, out)
	}

	code, _, _ = runCLI(t, "logout")
	if code != 0 {
		t.Fatalf("logout: code %d", code)
	}
	code, _, stderr = runCLI(t, "dashboard")
	if code != 1 || !strings.Contains(stderr, "not logged in") {
		t.Errorf("dashboard after logout: code %d stderr %q", code, stderr)
	}
}

// TestRun_AttendRequiresSomeonePresent tests that an all-absent sheet is rejected before any call.
func TestRun_AttendRequiresSomeonePresent(t *testing.T) {
	setupBackend(t)
	if code, _, stderr := runCLI(t, "login", "--email", devbackend.DemoCoachEmail, "--password", devbackend.DemoPassword); code != 0 {
		t.Fatalf("login: %s", stderr)
	}
	code, _, stderr := runCLI(t, "attend", "--date", "2026-04-01", "--absent", "1,2")
	if code != 1 || !strings.Contains(stderr, "at least one player") {
		t.Errorf("code %d stderr %q", code, stderr)
	}
}

// TestRun_LoginFailureShowsServerMessage tests that a rejected login prints the backend's message.
func TestRun_LoginFailureShowsServerMessage(t *testing.T) {
	setupBackend(t)
	code, _, stderr := runCLI(t, "login", "--email", devbackend.DemoCoachEmail, "--password", "nope")
	if code != 1 || !strings.Contains(stderr, "Invalid email or password") {
		t.Errorf("code %d stderr %q", code, stderr)
	}
}

func TestSplitIDs(t *testing.T) {
	got := splitIDs(" 1, ,2,3 ")
	if strings.Join(got, "|") != "1|2|3" {
		t.Errorf("splitIDs = %v", got)
	}
}
