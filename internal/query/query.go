// Package query provides the read-side client for the inventory alerts API.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"stock-alerts/internal/alerts"
)

// DefaultLimit is the page size used when the caller does not set one.
const DefaultLimit = 50

// requestTimeout is the maximum time to wait for an API response.
const requestTimeout = 15 * time.Second

// Filters restrict an alert page fetch.
type Filters struct {
	StoreID  string
	Severity alerts.Severity
	Limit    int
	Offset   int
}

// Validate checks filter values before any request is issued.
func (f Filters) Validate() error {
	if f.StoreID != "" {
		if _, err := uuid.Parse(f.StoreID); err != nil {
			return &alerts.ValidationError{Field: "store_id", Reason: "must be a valid UUID"}
		}
	}
	if f.Severity != "" && !f.Severity.Valid() {
		return &alerts.ValidationError{Field: "severity", Reason: "must be one of: critical, low, out_of_stock"}
	}
	if f.Limit < 0 {
		return &alerts.ValidationError{Field: "limit", Reason: "must not be negative"}
	}
	if f.Offset < 0 {
		return &alerts.ValidationError{Field: "offset", Reason: "must not be negative"}
	}
	return nil
}

// Page is one fetched page of alerts plus the population-wide summary
// reported by the server.
type Page struct {
	Records    []alerts.Record
	Summary    alerts.Summary
	HasMore    bool
	TotalCount int
}

// Client fetches alert pages and acknowledges alerts over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the API at baseURL, e.g. "http://localhost:8080".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// listEnvelope matches the GET /api/v1/inventory/alerts response shape.
type listEnvelope struct {
	Success bool            `json:"success"`
	Data    []alerts.Record `json:"data"`
	Summary alerts.Summary  `json:"summary"`
	Meta    struct {
		TotalCount int `json:"total_count"`
		Limit      int `json:"limit"`
	} `json:"meta"`
}

// FetchPage retrieves one page of active alerts, newest first. HasMore is
// derived, not authoritative: it is true iff the page came back full, which
// costs one empty fetch when the population is an exact multiple of the
// limit.
func (c *Client) FetchPage(ctx context.Context, f Filters) (*Page, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	limit := f.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	params := url.Values{}
	if f.StoreID != "" {
		params.Set("store_id", f.StoreID)
	}
	if f.Severity != "" {
		params.Set("severity", string(f.Severity))
	}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(f.Offset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/inventory/alerts?"+params.Encode(), nil)
	if err != nil {
		return nil, &alerts.UpstreamError{Op: "fetch alerts", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &alerts.UpstreamError{Op: "fetch alerts", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("fetch alerts", resp)
	}

	var env listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &alerts.UpstreamError{Op: "fetch alerts", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if !env.Success {
		return nil, &alerts.UpstreamError{Op: "fetch alerts", Err: fmt.Errorf("server reported failure")}
	}

	return &Page{
		Records:    env.Data,
		Summary:    env.Summary,
		HasMore:    len(env.Data) == limit,
		TotalCount: env.Meta.TotalCount,
	}, nil
}

// AcknowledgeAlert marks an alert as acknowledged on the server.
func (c *Client) AcknowledgeAlert(ctx context.Context, alertID string) error {
	if alertID == "" {
		return &alerts.ValidationError{Field: "alert_id", Reason: "is required"}
	}

	params := url.Values{}
	params.Set("alert_id", alertID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/inventory/alerts/acknowledge?"+params.Encode(), nil)
	if err != nil {
		return &alerts.UpstreamError{Op: "acknowledge alert", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &alerts.UpstreamError{Op: "acknowledge alert", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return &alerts.NotFoundError{Resource: "alert", ID: alertID}
		}
		return statusError("acknowledge alert", resp)
	}
	return nil
}

// statusError maps a non-2xx API response onto the error taxonomy. The body
// carries a {statusMessage} object on failure.
func statusError(op string, resp *http.Response) error {
	var body struct {
		StatusMessage string `json:"statusMessage"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.StatusMessage
	if msg == "" {
		msg = resp.Status
	}
	if resp.StatusCode == http.StatusBadRequest {
		return &alerts.ValidationError{Reason: msg}
	}
	return &alerts.UpstreamError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, msg)}
}
