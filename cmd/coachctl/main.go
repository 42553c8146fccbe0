// Command coachctl drives the coaching backend from a terminal: it logs in,
// keeps the session in the configured credential store and runs the same
// reads and writes as the mobile screens.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"coachdesk/internal/adapters/api"
	"coachdesk/internal/adapters/api/perf"
	"coachdesk/internal/adapters/storage/credential"
	"coachdesk/internal/config"
)

// app holds the wiring shared by every subcommand.
type app struct {
	cfg       config.Config
	client    *api.Client
	creds     *credential.Store
	collector *perf.Collector
	out       io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"signup":    {"create an account", cmdSignup},
	"login":     {"log in and store the session", cmdLogin},
	"logout":    {"clear the stored session", cmdLogout},
	"whoami":    {"show the stored profile", cmdWhoami},
	"players":   {"list the coach's players", cmdPlayers},
	"students":  {"list a teacher's students", cmdStudents},
	"schedule":  {"list schedule events", cmdSchedule},
	"add-event": {"add a schedule event", cmdAddEvent},
	"attend":    {"submit an attendance sheet", cmdAttend},
	"records":   {"list attendance records", cmdRecords},
	"sessions":  {"list recent sessions", cmdSessions},
	"player":    {"show player details", cmdPlayer},
	"dashboard": {"show the coach dashboard", cmdDashboard},
	"stats":     {"show backend call timings for this run", cmdStats},
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run parses global flags, wires dependencies and dispatches a subcommand.
// POST: Returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("coachctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	debug := fs.Bool("debug", false, "enable debug logging")
	envFile := fs.String("env", ".env", "dotenv file to load if present")
	fs.Usage = func() { usage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	rest := fs.Args()
	if len(rest) == 0 {
		usage(stderr)
		return 2
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "coachctl: unknown command %q\n", rest[0])
		usage(stderr)
		return 2
	}

	config.LoadDotEnv(*envFile)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "coachctl:", err)
		return 1
	}

	collector := perf.NewCollector(512)
	creds, closeStore, err := credential.Open(credential.Options{
		Kind:       cfg.Store,
		DBPath:     cfg.DBPath,
		RedisURL:   cfg.RedisURL,
		Passphrase: cfg.CredentialKey,
	}, collector)
	if err != nil {
		fmt.Fprintln(stderr, "coachctl: credential store:", err)
		return 1
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Warn("credential_store_close_failed", "error", err)
		}
	}()

	client, err := api.NewClient(api.Config{
		BaseURL:    cfg.APIURL,
		Timeout:    cfg.Timeout,
		SlowCallMs: cfg.SlowCallMs,
	}, creds, collector)
	if err != nil {
		fmt.Fprintln(stderr, "coachctl:", err)
		return 1
	}

	a := &app{cfg: cfg, client: client, creds: creds, collector: collector, out: stdout}
	if err := cmd.run(ctx, a, rest[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: coachctl [--debug] [--env FILE] <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}
}

// splitIDs parses a comma-separated id list, dropping blanks.
func splitIDs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
