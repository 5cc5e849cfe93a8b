package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrUnauthorized is matched by any 401 answer; the session gate reacts to it.
	ErrUnauthorized = errors.New("inventory api: unauthorized")
	ErrNotFound     = errors.New("inventory api: not found")
	// ErrUnavailable covers transport failures and an open circuit.
	ErrUnavailable = errors.New("inventory api: unavailable")
)

// StatusError is a non-2xx answer from the inventory API.
type StatusError struct {
	Method string
	Path   string
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("inventory api: %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("inventory api: %s %s returned %d", e.Method, e.Path, e.Status)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

type InventoryAPIConfig struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

// InventoryAPIClient talks JSON to the external inventory REST API. Every call
// carries the configured Basic credential and goes through the circuit breaker.
type InventoryAPIClient struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	cb         *CircuitBreaker
	metrics    *Metrics
}

func NewInventoryAPIClient(cfg InventoryAPIConfig, cb *CircuitBreaker, metrics *Metrics) *InventoryAPIClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cb == nil {
		cb = NewCircuitBreaker(DefaultCBConfig())
	}
	return &InventoryAPIClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cb:         cb,
		metrics:    metrics,
	}
}

// Breaker exposes the circuit breaker for health reporting.
func (c *InventoryAPIClient) Breaker() *CircuitBreaker { return c.cb }

// Do sends in (when non-nil) as the JSON body and decodes the answer into out
// (when non-nil). A single attempt is made.
func (c *InventoryAPIClient) Do(ctx context.Context, method, path string, in, out any) error {
	var statusErr *StatusError
	start := time.Now()

	var callErr error
	err := c.cb.Execute(func() error {
		callErr = c.roundTrip(ctx, method, path, in, out)
		switch {
		case callErr == nil:
			return nil
		// Client-side statuses say nothing about upstream health.
		case errors.As(callErr, &statusErr) && statusErr.Status < http.StatusInternalServerError:
			return nil
		// Neither does a caller that gave up.
		case ctx.Err() != nil:
			return nil
		}
		return callErr
	})

	outcome := "ok"
	switch {
	case errors.Is(err, ErrCircuitOpen):
		outcome = "circuit_open"
		err = fmt.Errorf("%w: %w", ErrUnavailable, err)
	case err != nil:
		outcome = "error"
	case statusErr != nil:
		outcome = fmt.Sprintf("status_%d", statusErr.Status)
		err = statusErr
	case callErr != nil:
		outcome = "canceled"
		err = callErr
	}
	c.metrics.ObserveUpstream(method, resourceOf(path), outcome, time.Since(start))
	return err
}

func (c *InventoryAPIClient) roundTrip(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("inventory api: marshal body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("inventory api: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("inventory api: decode %s %s: %w", method, path, err)
	}
	return nil
}

// readDetail extracts FastAPI-style {"detail": "..."} bodies, falling back to
// the raw text.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var envelope struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(raw, &envelope) == nil && envelope.Detail != nil {
		if s, ok := envelope.Detail.(string); ok {
			return s
		}
		b, _ := json.Marshal(envelope.Detail)
		return string(b)
	}
	return strings.TrimSpace(string(raw))
}

func resourceOf(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}
