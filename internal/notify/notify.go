// Package notify surfaces new alerts to a human operator.
package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"stock-alerts/internal/alerts"
)

// Sink receives operator-facing notifications for newly observed alerts.
// Implementations must be fire-and-forget: they never block the caller and
// never propagate failures.
type Sink interface {
	Notify(record alerts.Record)
}

// LogSink renders alerts as severity-tagged log lines. Critical alerts use
// an error-level presentation, everything else a warning-level one.
type LogSink struct{}

// NewLogSink creates a sink that writes through the default slog logger.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Notify logs the alert at a level matching its severity.
func (s *LogSink) Notify(record alerts.Record) {
	msg := fmt.Sprintf("%s: %s", strings.ToUpper(string(record.Severity)), record.Message)
	if record.Severity == alerts.SeverityCritical {
		slog.Error(msg, "alert_id", record.ID, "product_id", record.ProductID, "store_id", record.StoreID)
		return
	}
	slog.Warn(msg, "alert_id", record.ID, "product_id", record.ProductID, "store_id", record.StoreID)
}
