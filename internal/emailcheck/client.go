// Package emailcheck wraps the external email-validation collaborator.
package emailcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Result is one verification outcome.
type Result struct {
	Status    string `json:"status"`
	SubStatus string `json:"sub_status"`
}

// Label renders the status for display and storage, with the sub-status in
// parentheses when present: "invalid (mailbox_not_found)".
func (r Result) Label() string {
	if r.SubStatus == "" {
		return r.Status
	}
	return fmt.Sprintf("%s (%s)", r.Status, r.SubStatus)
}

// Verifier is the interface the verification job runs against.
// One call per row.
type Verifier interface {
	Verify(ctx context.Context, email string) (Result, error)
}

// Client calls an HTTP validation API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a client from the environment: EMAIL_VERIFY_URL and
// EMAIL_VERIFY_API_KEY.
func NewClient() (*Client, error) {
	baseURL := os.Getenv("EMAIL_VERIFY_URL")
	if baseURL == "" {
		slog.Error("EMAIL_VERIFY_URL environment variable not set")
		return nil, fmt.Errorf("EMAIL_VERIFY_URL environment variable not set")
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  os.Getenv("EMAIL_VERIFY_API_KEY"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// NewClientWith builds a client for a known endpoint. Used by tests.
func NewClientWith(baseURL, apiKey string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, http: hc}
}

// Verify implements the Verifier interface.
func (c *Client) Verify(ctx context.Context, email string) (Result, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Result{}, fmt.Errorf("parsing verify URL: %w", err)
	}
	q := u.Query()
	q.Set("email", email)
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Result{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("email verification call failed", "error", err)
		return Result{}, fmt.Errorf("verification call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("verification returned status %d", resp.StatusCode)
	}

	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("decoding verification response: %w", err)
	}
	return out, nil
}
