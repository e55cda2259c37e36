// Package rules provides the client for alert-rule configuration.
// It validates input before any remote call and never mutates the
// client-side alert view; callers refresh via the query client afterward.
package rules

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"stock-alerts/internal/alerts"
)

const requestTimeout = 15 * time.Second

// CreateInput holds the fields for a new alert rule.
type CreateInput struct {
	ProductID              string           `json:"product_id"`
	LowStockThreshold      int              `json:"low_stock_threshold"`
	CriticalStockThreshold int              `json:"critical_stock_threshold"`
	Enabled                *bool            `json:"enabled,omitempty"`
	NotificationChannels   []alerts.Channel `json:"notification_channels,omitempty"`
}

// UpdateInput holds the optional fields for a rule update. ProductID is
// immutable once a rule exists; setting it here is rejected.
type UpdateInput struct {
	ProductID              string           `json:"-"`
	LowStockThreshold      *int             `json:"low_stock_threshold,omitempty"`
	CriticalStockThreshold *int             `json:"critical_stock_threshold,omitempty"`
	Enabled                *bool            `json:"enabled,omitempty"`
	NotificationChannels   []alerts.Channel `json:"notification_channels,omitempty"`
}

// Client manages alert rules over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a rule client for the API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// ruleEnvelope matches the POST/PUT response shape.
type ruleEnvelope struct {
	Success bool        `json:"success"`
	Data    alerts.Rule `json:"data"`
	Message string      `json:"message"`
}

func validateChannels(channels []alerts.Channel) error {
	for _, ch := range channels {
		if !ch.Valid() {
			return &alerts.ValidationError{Field: "notification_channels", Reason: "must be drawn from: email, sms, in_app"}
		}
	}
	return nil
}

// CreateRule validates and persists a new rule. The server re-evaluates the
// product's stock immediately after creation; a failure of that secondary
// check is logged server-side, never surfaced here.
func (c *Client) CreateRule(ctx context.Context, in CreateInput) (*alerts.Rule, error) {
	if _, err := uuid.Parse(in.ProductID); err != nil {
		return nil, &alerts.ValidationError{Field: "product_id", Reason: "must be a valid UUID"}
	}
	if in.LowStockThreshold < 0 {
		return nil, &alerts.ValidationError{Field: "low_stock_threshold", Reason: "must not be negative"}
	}
	if in.CriticalStockThreshold < 0 {
		return nil, &alerts.ValidationError{Field: "critical_stock_threshold", Reason: "must not be negative"}
	}
	if err := validateChannels(in.NotificationChannels); err != nil {
		return nil, err
	}

	rule, err := c.sendRule(ctx, http.MethodPost, in)
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// UpdateRule validates and applies a partial update. If either threshold
// changed, the server re-triggers the stock check.
func (c *Client) UpdateRule(ctx context.Context, ruleID string, in UpdateInput) (*alerts.Rule, error) {
	if _, err := uuid.Parse(ruleID); err != nil {
		return nil, &alerts.ValidationError{Field: "rule_id", Reason: "must be a valid UUID"}
	}
	if in.ProductID != "" {
		return nil, &alerts.ValidationError{Field: "product_id", Reason: "is immutable once a rule exists"}
	}
	if in.LowStockThreshold != nil && *in.LowStockThreshold < 0 {
		return nil, &alerts.ValidationError{Field: "low_stock_threshold", Reason: "must not be negative"}
	}
	if in.CriticalStockThreshold != nil && *in.CriticalStockThreshold < 0 {
		return nil, &alerts.ValidationError{Field: "critical_stock_threshold", Reason: "must not be negative"}
	}
	if err := validateChannels(in.NotificationChannels); err != nil {
		return nil, err
	}

	body := struct {
		RuleID string `json:"rule_id"`
		UpdateInput
	}{RuleID: ruleID, UpdateInput: in}

	rule, err := c.sendRule(ctx, http.MethodPut, body)
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// DeleteRule removes a rule. An unknown id surfaces as NotFoundError, not
// swallowed.
func (c *Client) DeleteRule(ctx context.Context, ruleID string) error {
	if _, err := uuid.Parse(ruleID); err != nil {
		return &alerts.ValidationError{Field: "rule_id", Reason: "must be a valid UUID"}
	}

	params := url.Values{}
	params.Set("rule_id", ruleID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/v1/inventory/alerts?"+params.Encode(), nil)
	if err != nil {
		return &alerts.UpstreamError{Op: "delete rule", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &alerts.UpstreamError{Op: "delete rule", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return &alerts.NotFoundError{Resource: "rule", ID: ruleID}
		}
		return statusError("delete rule", resp)
	}
	return nil
}

// sendRule issues a POST or PUT with a JSON body and decodes the rule
// envelope.
func (c *Client) sendRule(ctx context.Context, method string, body interface{}) (*alerts.Rule, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rule request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1/inventory/alerts", bytes.NewReader(payload))
	if err != nil {
		return nil, &alerts.UpstreamError{Op: "save rule", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &alerts.UpstreamError{Op: "save rule", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if resp.StatusCode == http.StatusNotFound {
			return nil, &alerts.NotFoundError{Resource: "product", ID: ""}
		}
		return nil, statusError("save rule", resp)
	}

	var env ruleEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &alerts.UpstreamError{Op: "save rule", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if !env.Success {
		return nil, &alerts.UpstreamError{Op: "save rule", Err: fmt.Errorf("server reported failure")}
	}
	return &env.Data, nil
}

// statusError maps a non-2xx API response onto the error taxonomy.
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
