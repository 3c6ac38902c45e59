// Package contacts wraps the external contact-list collaborator. The
// provider paginates; FetchList materializes the whole list so the importer
// works from a complete sequence.
package contacts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Contact is one flat field-labeled record from the provider.
type Contact struct {
	Fields map[string]string `json:"fields"`
}

// Source is the interface the importer consumes.
type Source interface {
	FetchList(ctx context.Context, listID string) ([]Contact, error)
}

// pageSize is the per-request record cap requested from the provider.
const pageSize = 100

// Client calls an HTTP contact-list API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a client from the environment: CONTACTS_API_URL and
// CONTACTS_API_KEY.
func NewClient() (*Client, error) {
	baseURL := os.Getenv("CONTACTS_API_URL")
	if baseURL == "" {
		slog.Error("CONTACTS_API_URL environment variable not set")
		return nil, fmt.Errorf("CONTACTS_API_URL environment variable not set")
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  os.Getenv("CONTACTS_API_KEY"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// NewClientWith builds a client for a known endpoint. Used by tests.
func NewClientWith(baseURL, apiKey string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, http: hc}
}

// listPage is the provider's page envelope.
type listPage struct {
	Contacts []Contact `json:"contacts"`
}

// FetchList implements Source. Pages are fetched until a short page marks
// the end; the fully materialized sequence is returned.
func (c *Client) FetchList(ctx context.Context, listID string) ([]Contact, error) {
	var all []Contact
	for page := 1; ; page++ {
		contacts, err := c.fetchPage(ctx, listID, page)
		if err != nil {
			return nil, err
		}
		all = append(all, contacts...)
		if len(contacts) < pageSize {
			slog.Debug("contact list materialized", "list", listID, "contacts", len(all), "pages", page)
			return all, nil
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, listID string, page int) ([]Contact, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing contacts URL: %w", err)
	}
	q := u.Query()
	q.Set("list", listID)
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching contact page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("contact list fetch returned status %d", resp.StatusCode)
	}

	var out listPage
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding contact page %d: %w", page, err)
	}
	return out.Contacts, nil
}
