// Package devbackend is an in-memory stand-in for the coaching REST backend.
// It serves the same inconsistent envelopes the real backend does so the
// client can be exercised locally and in tests.
package devbackend

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Config holds router settings.
type Config struct {
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string // defaults to "*"
	AuthRate       int      // login/signup attempts per minute per IP; 0 disables limiting
	SlowRequestMs  float64
}

// Server wires the store to HTTP handlers.
type Server struct {
	store *Store
	cfg   Config
}

// NewRouter builds the HTTP handler for the dev backend.
// PRE: store is non-nil, cfg.JWTSecret is non-empty
// POST: Returns a handler serving every /api route
func NewRouter(store *Store, cfg Config) http.Handler {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.SlowRequestMs <= 0 {
		cfg.SlowRequestMs = DefaultSlowRequestMs
	}
	s := &Server{store: store, cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLog(cfg.SlowRequestMs))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.AuthRate > 0 {
				r.Use(rateLimit(NewRateLimiter(cfg.AuthRate, time.Minute)))
			}
			r.Post("/signup", s.handleSignup)
			r.Post("/login", s.handleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth(cfg.JWTSecret))
			r.Get("/coach-data", s.handleCoachData)
			r.Get("/teacher/dashboard", s.handleTeacherDashboard)
			r.Post("/schedule-addevents", s.handleAddEvent)
			r.Get("/events-fetch/{tenantId}/{coachId}", s.handleEventsFetch)
			r.Post("/attendance", s.handleAttendance)
			r.Get("/attendance-records/{coachId}", s.handleAttendanceRecords)
			r.Get("/sessions-data/{coachId}", s.handleSessionsData)
			r.Get("/player-details/{email}/{playerId}", s.handlePlayerDetails)
			r.Get("/player-details-by-guardian/{email}", s.handleGuardianPlayers)
			r.Get("/player/{playerId}", s.handlePlayer)
		})
	})
	return r
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response_encode_failed", "error", err)
	}
}

// writeError answers {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeNoData answers 404 {"message":"No data found"}.
func writeNoData(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "No data found"})
}
