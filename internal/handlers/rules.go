package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"stock-alerts/internal/alerts"
)

// CreateRuleRequest represents a request to create an alert rule.
type CreateRuleRequest struct {
	ProductID              string           `json:"product_id"`
	LowStockThreshold      *int             `json:"low_stock_threshold"`
	CriticalStockThreshold *int             `json:"critical_stock_threshold"`
	Enabled                *bool            `json:"enabled"`
	NotificationChannels   []alerts.Channel `json:"notification_channels"`
	CreatedBy              string           `json:"created_by"`
}

// UpdateRuleRequest represents a partial rule update. Every field except
// rule_id is optional; product_id is immutable and rejected if present.
type UpdateRuleRequest struct {
	RuleID                 string           `json:"rule_id"`
	ProductID              string           `json:"product_id"`
	LowStockThreshold      *int             `json:"low_stock_threshold"`
	CriticalStockThreshold *int             `json:"critical_stock_threshold"`
	Enabled                *bool            `json:"enabled"`
	NotificationChannels   []alerts.Channel `json:"notification_channels"`
}

// RuleResponse is the envelope for rule mutations.
type RuleResponse struct {
	Success bool         `json:"success"`
	Data    *alerts.Rule `json:"data"`
	Message string       `json:"message"`
}

// validateRuleThresholds checks that set thresholds are non-negative.
// No ordering between the two thresholds is enforced.
func validateRuleThresholds(w http.ResponseWriter, low, critical *int) bool {
	if low != nil && *low < 0 {
		writeError(w, http.StatusBadRequest, "low_stock_threshold must not be negative")
		return false
	}
	if critical != nil && *critical < 0 {
		writeError(w, http.StatusBadRequest, "critical_stock_threshold must not be negative")
		return false
	}
	return true
}

// validateRuleChannels checks channels against the fixed enum.
func validateRuleChannels(w http.ResponseWriter, channels []alerts.Channel) bool {
	for _, ch := range channels {
		if !ch.Valid() {
			writeError(w, http.StatusBadRequest, "notification_channels must be drawn from: email, sms, in_app")
			return false
		}
	}
	return true
}

// CreateRule creates a new alert rule and triggers an immediate stock
// re-evaluation for the product.
func (h *Handlers) CreateRule(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req CreateRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := uuid.Parse(req.ProductID); err != nil {
		writeError(w, http.StatusBadRequest, "product_id must be a valid UUID")
		return
	}
	if req.LowStockThreshold == nil {
		writeError(w, http.StatusBadRequest, "low_stock_threshold is required")
		return
	}
	if req.CriticalStockThreshold == nil {
		writeError(w, http.StatusBadRequest, "critical_stock_threshold is required")
		return
	}
	if !validateRuleThresholds(w, req.LowStockThreshold, req.CriticalStockThreshold) {
		return
	}
	if !validateRuleChannels(w, req.NotificationChannels) {
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	channels := req.NotificationChannels
	if len(channels) == 0 {
		channels = alerts.DefaultChannels
	}

	ctx := r.Context()
	product, err := h.store.GetProduct(ctx, req.ProductID)
	if err != nil {
		writeStoreError(w, err, "look up product")
		return
	}

	rule, err := h.store.CreateRule(ctx, req.ProductID, *req.LowStockThreshold, *req.CriticalStockThreshold, enabled, channels, req.CreatedBy)
	if err != nil {
		writeStoreError(w, err, "create rule")
		return
	}

	// Immediate re-evaluation; failure is logged, never rolls back the rule.
	h.runStockCheck(ctx, rule.ProductID)

	writeJSON(w, http.StatusCreated, RuleResponse{
		Success: true,
		Data:    rule,
		Message: fmt.Sprintf("Alert rule created for product: %s (%s)", product.Name, product.SKU),
	})
}

// UpdateRule applies a partial update to a rule. If either threshold
// changed, the stock check is re-triggered.
func (h *Handlers) UpdateRule(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPut) {
		return
	}

	var req UpdateRuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.RuleID == "" {
		writeError(w, http.StatusBadRequest, "Alert rule ID is required")
		return
	}
	if req.ProductID != "" {
		writeError(w, http.StatusBadRequest, "product_id is immutable once a rule exists")
		return
	}
	if !validateRuleThresholds(w, req.LowStockThreshold, req.CriticalStockThreshold) {
		return
	}
	if !validateRuleChannels(w, req.NotificationChannels) {
		return
	}

	ctx := r.Context()
	rule, err := h.store.UpdateRule(ctx, req.RuleID, req.LowStockThreshold, req.CriticalStockThreshold, req.Enabled, req.NotificationChannels)
	if err != nil {
		writeStoreError(w, err, "update rule")
		return
	}

	if req.LowStockThreshold != nil || req.CriticalStockThreshold != nil {
		h.runStockCheck(ctx, rule.ProductID)
	}

	writeJSON(w, http.StatusOK, RuleResponse{
		Success: true,
		Data:    rule,
		Message: "Alert rule updated successfully",
	})
}

// DeleteRule deletes a rule. Unknown ids surface as 404.
func (h *Handlers) DeleteRule(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodDelete) {
		return
	}

	ruleID, ok := requireQueryParam(w, r, "rule_id")
	if !ok {
		return
	}

	ctx := r.Context()
	if err := h.store.DeleteRule(ctx, ruleID); err != nil {
		writeStoreError(w, err, "delete rule")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Alert rule deleted successfully",
	})
}
