// Package finolog implements a client for the Finolog REST API, the
// external ledger source the forecast engine consumes. The client is
// responsible for pagination and date-window construction; it hands the
// engine plain, already-materialized data.
package finolog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the production Finolog API endpoint.
const DefaultBaseURL = "https://api.finolog.ru/v1"

const (
	// pageSize is the maximum page size the transaction endpoint accepts.
	pageSize = 200

	// windowDays bounds the transaction date window on both sides of
	// the start date. Past plannings matter because overdue planned
	// transactions still shift the projected balance.
	windowDays = 365

	defaultTimeout = 30 * time.Second
)

// Config configures a Client. APIToken and BizID are required.
type Config struct {
	// BaseURL overrides the API endpoint; defaults to DefaultBaseURL.
	BaseURL string

	// APIToken is sent as the Api-Token header on every request.
	APIToken string

	// BizID is the Finolog business the accounts belong to.
	BizID string

	// HTTPClient overrides the HTTP client; defaults to one with a
	// 30 second timeout.
	HTTPClient *http.Client
}

// Client talks to one Finolog business.
type Client struct {
	baseURL string
	token   string
	bizID   string
	http    *http.Client
}

// NewClient creates a Client from the given configuration.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: baseURL,
		token:   cfg.APIToken,
		bizID:   cfg.BizID,
		http:    httpClient,
	}
}

// APIError is returned when the API answers with a non-200 status.
type APIError struct {
	Status int
	URL    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("finolog: %s returned status %d", e.URL, e.Status)
}

// get performs an authenticated GET and decodes the JSON response into v.
// Numbers are decoded as json.Number so amounts never round-trip through
// float64.
func (c *Client) get(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("finolog: building request: %w", err)
	}
	req.Header.Set("Api-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("finolog: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, URL: endpoint}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("finolog: decoding response: %w", err)
	}
	return nil
}
