package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"stock-alerts/internal/alerts"
	"stock-alerts/internal/events"
)

// ListMeta describes the page returned by ListAlerts.
type ListMeta struct {
	TotalCount int               `json:"total_count"`
	Limit      int               `json:"limit"`
	FilteredBy map[string]string `json:"filtered_by"`
}

// ListResponse is the envelope for GET /api/v1/inventory/alerts.
type ListResponse struct {
	Success bool            `json:"success"`
	Data    []alerts.Record `json:"data"`
	Summary alerts.Summary  `json:"summary"`
	Meta    ListMeta        `json:"meta"`
}

// ListAlerts returns a page of active alerts plus the population-wide
// summary. Query params: store_id, severity, limit (default 50), offset.
func (h *Handlers) ListAlerts(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	storeID := r.URL.Query().Get("store_id")
	severity := r.URL.Query().Get("severity")
	if severity != "" && !isValidSeverity(severity) {
		writeError(w, http.StatusBadRequest, "severity must be one of: critical, low, out_of_stock")
		return
	}

	p := parsePagination(r)
	ctx := r.Context()

	records, err := h.store.ListAlerts(ctx, storeID, severity, p.Limit, p.Offset)
	if err != nil {
		writeStoreError(w, err, "list alerts")
		return
	}
	if records == nil {
		records = []alerts.Record{}
	}

	summary, err := h.store.GetSummary(ctx)
	if err != nil {
		// The page is still usable; fall back to counting what we fetched.
		slog.Warn("Failed to get alert summary, deriving from page", "error", err)
		summary = summarize(records)
	}

	filteredBy := map[string]string{}
	if storeID != "" {
		filteredBy["store_id"] = storeID
	}
	if severity != "" {
		filteredBy["severity"] = severity
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Success: true,
		Data:    records,
		Summary: summary,
		Meta: ListMeta{
			TotalCount: len(records),
			Limit:      p.Limit,
			FilteredBy: filteredBy,
		},
	})
}

// summarize derives counters from a single page of records. Used only as a
// fallback when the summary view is unavailable.
func summarize(records []alerts.Record) alerts.Summary {
	var s alerts.Summary
	for _, rec := range records {
		s.TotalAlerts++
		switch rec.Severity {
		case alerts.SeverityCritical:
			s.CriticalAlerts++
		case alerts.SeverityLow:
			s.LowStockAlerts++
		case alerts.SeverityOutOfStock:
			s.OutOfStockAlerts++
		}
	}
	return s
}

// AcknowledgeAlert clears an alert's active flag and publishes a DELETE
// change event for it.
func (h *Handlers) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	alertID, ok := requireQueryParam(w, r, "alert_id")
	if !ok {
		return
	}

	ctx := r.Context()
	rec, err := h.store.AcknowledgeAlert(ctx, alertID)
	if err != nil {
		writeStoreError(w, err, "acknowledge alert")
		return
	}

	h.publishChange(ctx, events.TypeDelete, *rec)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Alert acknowledged successfully",
	})
}

// publishChange publishes one alert change event. Publish failures are
// logged, not surfaced: the DB commit already happened and the stream is
// best-effort relative to it.
func (h *Handlers) publishChange(ctx context.Context, eventType string, rec alerts.Record) {
	change := &events.AlertChange{
		EventType:     eventType,
		Record:        rec,
		SchemaVersion: events.SchemaVersion,
	}
	if err := h.producer.Publish(ctx, change); err != nil {
		slog.Error("Failed to publish alert change event",
			"alert_id", rec.ID,
			"event_type", eventType,
			"error", err,
		)
	}
}

// runStockCheck re-evaluates a product's stock and publishes change events
// for whatever the check inserted or cleared. Failure is logged only; rule
// mutations never roll back because of it.
func (h *Handlers) runStockCheck(ctx context.Context, productID string) {
	// The request context may be cancelled as soon as the response is
	// written; give the check its own deadline.
	checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	results, err := h.store.TriggerStockCheck(checkCtx, productID)
	if err != nil {
		slog.Error("Stock check failed", "product_id", productID, "error", err)
		return
	}
	for _, res := range results {
		h.publishChange(checkCtx, res.Action, res.Record)
	}
}
