package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/woiladev/marketplace-client/internal/config"
	"github.com/woiladev/marketplace-client/internal/infrastructure/monitoring"
	"github.com/woiladev/marketplace-client/internal/infrastructure/store"
	"github.com/woiladev/marketplace-client/internal/pkg/logger"
)

// Result is the uniform envelope every gateway call resolves to. No gateway
// method ever returns a Go error: callers branch on Success only. Data holds
// the raw response body of a 2xx response.
type Result struct {
	Success bool
	Data    json.RawMessage
	Error   string
}

// Decode unmarshals the response body into v. Decode failures count as an
// unsuccessful result rather than an error.
func (r Result) Decode(v any) bool {
	if !r.Success || len(r.Data) == 0 {
		return false
	}
	return json.Unmarshal(r.Data, v) == nil
}

// Message extracts the server's human-readable message field, when present.
func (r Result) Message() string {
	var body struct {
		Message string `json:"message"`
	}
	if r.Decode(&body) {
		return body.Message
	}
	return ""
}

func failure(message string) Result {
	return Result{Success: false, Error: message}
}

// Client issues JSON and multipart requests against the remote API base path
// and normalizes every outcome into a Result.
type Client struct {
	baseURL string
	http    *http.Client
	durable store.Store
	log     *logger.Logger
}

func NewClient(cfg config.APIConfig, durable store.Store, log *logger.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.TimeoutSeconds <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		durable: durable,
		log:     log,
	}
}

// Request issues an unauthenticated JSON request. A nil body sends no payload.
func (c *Client) Request(ctx context.Context, method, path string, body any) Result {
	return c.do(ctx, method, path, body, false)
}

// AuthRequest attaches the bearer token from the durable store, when present.
func (c *Client) AuthRequest(ctx context.Context, method, path string, body any) Result {
	return c.do(ctx, method, path, body, true)
}

func (c *Client) do(ctx context.Context, method, path string, body any, authed bool) Result {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return failure(err.Error())
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return failure(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		c.attachToken(req)
	}

	return c.execute(req, path)
}

// MultipartRequest posts a multipart form. The content type comes from the
// form writer so the boundary is preserved; it is never forced to JSON.
func (c *Client) MultipartRequest(ctx context.Context, method, path string, form *Form) Result {
	contentType, body, err := form.Encode()
	if err != nil {
		return failure(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return failure(err.Error())
	}
	req.Header.Set("Content-Type", contentType)
	c.attachToken(req)

	return c.execute(req, path)
}

func (c *Client) attachToken(req *http.Request) {
	token, ok := c.durable.Get(store.KeyToken)
	if ok && len(token) > 0 {
		req.Header.Set("Authorization", "Bearer "+string(token))
	}
}

func (c *Client) execute(req *http.Request, path string) Result {
	// Query strings carry per-call values (page numbers, filters); labeling
	// with them would grow the metric series without bound.
	endpoint := path
	if i := strings.Index(endpoint, "?"); i >= 0 {
		endpoint = endpoint[:i]
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	monitoring.APIRequestDuration.WithLabelValues(endpoint, req.Method).Observe(time.Since(start).Seconds())

	if err != nil {
		monitoring.APIRequestsTotal.WithLabelValues(endpoint, req.Method, "network_error").Inc()
		c.log.Warn("API request failed", "method", req.Method, "path", path, "error", err.Error())
		message := err.Error()
		if message == "" {
			message = "Network error occurred"
		}
		return failure(message)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		monitoring.APIRequestsTotal.WithLabelValues(endpoint, req.Method, "network_error").Inc()
		return failure("Network error occurred")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		monitoring.APIRequestsTotal.WithLabelValues(endpoint, req.Method, "http_error").Inc()
		c.log.Warn("API request rejected", "method", req.Method, "path", path, "status", resp.StatusCode)
		return failure(errorMessage(raw, resp.StatusCode))
	}

	monitoring.APIRequestsTotal.WithLabelValues(endpoint, req.Method, "success").Inc()
	return Result{Success: true, Data: raw}
}

// errorMessage prefers the server-provided message over the generic
// status-code text.
func errorMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fmt.Sprintf("HTTP error! status: %d", status)
}
