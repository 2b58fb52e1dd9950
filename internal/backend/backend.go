// Package backend implements the HTTP client for the points service of
// record.
//
// Every call is a single synchronous request with a JSON body. HTTP 200 is
// success; any other status code is a call failure and a transport error is
// returned as a Go error. The dispatcher never needs finer error subtypes.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds each backend call.
const DefaultTimeout = 10 * time.Second

// Opts holds configuration options for the backend client.
type Opts struct {
	BaseURL string
	Client  *http.Client
}

// Option defines a configuration option for the backend client.
type Option func(*Opts)

// WithBaseURL sets the points service base URL.
func WithBaseURL(u string) Option {
	return func(o *Opts) {
		o.BaseURL = u
	}
}

// WithHTTPClient overrides the HTTP client (used in tests).
func WithHTTPClient(c *http.Client) Option {
	return func(o *Opts) {
		o.Client = c
	}
}

// Client talks to the points backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a backend client based on provided options.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL not set")
	}
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	slog.Debug("backend.NewClient: created", "base_url", cfg.BaseURL)
	return &Client{baseURL: cfg.BaseURL, http: httpClient}, nil
}

// LinkResult is the outcome of an account-link attempt. Detail carries the
// backend's rejection message when the link was refused with a reason.
type LinkResult struct {
	OK     bool
	Detail string
}

// do issues one JSON request and returns the response status and body.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("backend request failed", "method", method, "path", path, "error", err)
		return 0, nil, fmt.Errorf("backend request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	slog.Debug("backend request completed", "method", method, "path", path, "status", resp.StatusCode)
	return resp.StatusCode, respBody, nil
}

// LinkAccount links an ID number to a chat user identifier. A 400 response
// carries a human-readable rejection detail; other non-200 codes are generic
// failures.
func (c *Client) LinkAccount(ctx context.Context, idNumber, lineID string) (LinkResult, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/linkLineID/", map[string]string{
		"idNumber": idNumber,
		"lineId":   lineID,
	})
	if err != nil {
		return LinkResult{}, err
	}
	switch status {
	case http.StatusOK:
		return LinkResult{OK: true}, nil
	case http.StatusBadRequest:
		var payload struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			slog.Warn("backend LinkAccount: unreadable rejection body", "error", err)
		}
		return LinkResult{OK: false, Detail: payload.Detail}, nil
	default:
		return LinkResult{OK: false}, nil
	}
}

// SearchAccount looks up a registrant by ID number. Returns whether the
// registrant exists.
func (c *Client) SearchAccount(ctx context.Context, idNumber string) (bool, error) {
	status, _, err := c.do(ctx, http.MethodGet, "/search/", map[string]string{"idNumber": idNumber})
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}

// SearchLineID reports whether a chat user identifier is already linked to a
// registrant.
func (c *Client) SearchLineID(ctx context.Context, lineID string) (bool, error) {
	status, _, err := c.do(ctx, http.MethodPost, "/searchLineID/", map[string]string{"lineId": lineID})
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}

// RegisterAccount creates a new registrant record.
func (c *Client) RegisterAccount(ctx context.Context, name, idNumber, tel string) (bool, error) {
	status, _, err := c.do(ctx, http.MethodPost, "/add_user/", map[string]string{
		"name":     name,
		"idNumber": idNumber,
		"tel":      tel,
	})
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}

// IncrementActivity increments the named activity counter for a linked user
// and returns the new count on success.
func (c *Client) IncrementActivity(ctx context.Context, lineID string, activity string) (count int, ok bool, err error) {
	status, body, err := c.do(ctx, http.MethodPut, "/add/"+activity, map[string]string{"lineId": lineID})
	if err != nil {
		return 0, false, err
	}
	if status != http.StatusOK {
		return 0, false, nil
	}

	// The counter comes back under a key named after the activity.
	var payload map[string]int
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.Warn("backend IncrementActivity: unreadable response body", "activity", activity, "error", err)
		return 0, false, nil
	}
	return payload[activity], true, nil
}

// Unlink detaches the chat user from their registrant record.
func (c *Client) Unlink(ctx context.Context, lineID string) (bool, error) {
	status, _, err := c.do(ctx, http.MethodDelete, "/logout/", map[string]string{"lineId": lineID})
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}
