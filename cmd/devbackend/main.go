// Command devbackend serves an in-memory copy of the coaching REST backend
// for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coachdesk/internal/adapters/devbackend"
	"coachdesk/internal/config"
)

func main() {
	var (
		seed     bool
		debug    bool
		authRate int
	)
	flag.BoolVar(&seed, "seed", true, "load demo accounts and players")
	flag.BoolVar(&debug, "debug", false, "log every request")
	flag.IntVar(&authRate, "auth-rate", 20, "login/signup attempts per minute per IP (0 disables)")
	flag.Parse()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	config.LoadDotEnv()
	cfg := config.Load()

	store := devbackend.NewStore()
	if seed {
		coach, err := devbackend.Seed(store)
		if err != nil {
			slog.Error("seed_failed", "error", err)
			os.Exit(1)
		}
		slog.Info("seeded", "coach_email", coach.Email, "coach_id", coach.ID, "password", devbackend.DemoPassword)
	}

	srv := &http.Server{
		Addr: cfg.DevAddr,
		Handler: devbackend.NewRouter(store, devbackend.Config{
			JWTSecret: cfg.DevJWTSecret,
			TokenTTL:  cfg.DevTokenTTL,
			AuthRate:  authRate,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("devbackend_listening", "addr", cfg.DevAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("devbackend_failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("devbackend_shutdown_failed", "error", err)
	}
}
