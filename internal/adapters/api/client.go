package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"coachdesk/internal/adapters/api/perf"
)

// DefaultTimeout bounds every call, connect and response included.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// ErrBodyTooLarge marks a response whose body exceeds the read limit.
var ErrBodyTooLarge = errors.New("response body too large")

// TokenSource resolves the stored bearer token. An empty string means no
// token is available.
type TokenSource interface {
	GetToken(ctx context.Context) string
}

// Config configures a Client.
type Config struct {
	BaseURL    string            // scheme://host[:port], without the /api suffix
	Timeout    time.Duration     // zero means DefaultTimeout
	SlowCallMs int               // zero means DefaultSlowCallMs
	Transport  http.RoundTripper // optional, defaults to http.DefaultTransport
}

// Client issues JSON calls to the coaching backend. It is safe for
// concurrent use; calls share no mutable state.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient builds a Client.
// PRE: cfg.BaseURL is an absolute http(s) URL; tokens may be nil
// POST: Returns a client whose calls are timed into collector (nil disables recording)
func NewClient(cfg Config, tokens TokenSource, collector *perf.Collector) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: must be an absolute http(s) URL", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	next := cfg.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: newTimingTransport(next, collector, cfg.SlowCallMs),
		},
		tokens: tokens,
	}, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one backend call.
type Request struct {
	Op        string     // operation name used in logs, timings and errors
	Method    string     // defaults to GET
	Path      string     // escaped path starting with /api/
	Query     url.Values // optional
	Body      any        // JSON-encoded when non-nil
	Token     string     // explicit bearer token; skips the TokenSource
	Anonymous bool       // never attach a bearer token
}

// Response is a received HTTP response with its body fully read.
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// ResolveToken returns explicit when set, otherwise the stored token.
// PRE: none
// POST: storage is read at most once, and only when explicit is empty
func (c *Client) ResolveToken(ctx context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if c.tokens == nil {
		return ""
	}
	return c.tokens.GetToken(ctx)
}

// Do performs the call. Any HTTP response, whatever its status, is returned
// as a Response; a call that gets no response fails with KindNetworkUnavailable.
// PRE: req.Op and req.Path are non-empty
// POST: Returns the response, or a classified error
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request body: %w", req.Op, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(withOp(ctx, req.Op), method, c.endpoint(req), body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", req.Op, err)
	}
	c.authorize(ctx, httpReq, req)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		slog.Warn("api_unreachable", "op", req.Op, "base_url", c.baseURL, "timeout", isTimeout(err), "error", err)
		return nil, Unreachable(req.Op, c.baseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		slog.Warn("api_body_read_failed", "op", req.Op, "status", resp.StatusCode, "error", err)
		return nil, Unreachable(req.Op, c.baseURL, err)
	}
	if len(data) > maxBodyBytes {
		slog.Warn("api_body_too_large", "op", req.Op, "status", resp.StatusCode, "limit_bytes", maxBodyBytes)
		return nil, &Error{
			Kind:    KindServer,
			Op:      req.Op,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("The server response is larger than %d bytes.", maxBodyBytes),
			Err:     ErrBodyTooLarge,
		}
	}

	return &Response{Status: resp.StatusCode, Body: data, Header: resp.Header}, nil
}

// authorize is the request interceptor: JSON headers, a correlation id and
// the bearer token. Everything else on the request passes through untouched.
func (c *Client) authorize(ctx context.Context, httpReq *http.Request, req Request) {
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if req.Anonymous {
		return
	}
	if token := c.ResolveToken(ctx, req.Token); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) endpoint(req Request) string {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	return target
}

// PathSegment escapes a value for use as a single path segment.
func PathSegment(v string) string {
	return url.PathEscape(v)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
