package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"coachdesk/internal/adapters/api/perf"
)

// DefaultSlowCallMs is the default threshold for slow call warnings.
const DefaultSlowCallMs = 800

type opKey struct{}

func withOp(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, opKey{}, op)
}

func opFrom(ctx context.Context) string {
	if op, ok := ctx.Value(opKey{}).(string); ok && op != "" {
		return op
	}
	return "unknown"
}

// timingTransport logs call duration and records it to a collector.
// Normal calls log at DEBUG; slow calls (above threshold) log at WARN.
type timingTransport struct {
	next      http.RoundTripper
	collector *perf.Collector
	threshold float64
}

func newTimingTransport(next http.RoundTripper, collector *perf.Collector, slowMs int) *timingTransport {
	if slowMs <= 0 {
		slowMs = DefaultSlowCallMs
	}
	return &timingTransport{next: next, collector: collector, threshold: float64(slowMs)}
}

// RoundTrip times a single call.
// PRE: req carries an operation name in its context
// POST: entry recorded to collector whether or not a response arrived
func (t *timingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0

	op := opFrom(req.Context())
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	failed := err != nil || status < 200 || status >= 300

	attrs := []any{
		"op", op,
		"method", req.Method,
		"path", req.URL.Path,
		"status", status,
		"duration_ms", durationMs,
		"request_id", req.Header.Get("X-Request-ID"),
	}
	if durationMs >= t.threshold {
		slog.Warn("slow_api_call", attrs...)
	} else {
		slog.Debug("api_call", attrs...)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindCall,
			Op:         op,
			StatusCode: status,
			Failed:     failed,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
	return resp, err
}
