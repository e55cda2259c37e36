// Package events defines the change event structures for the alert stream.
package events

import (
	"stock-alerts/internal/alerts"
)

// Event types carried on the alert.changed topic.
const (
	TypeInsert = "INSERT"
	TypeDelete = "DELETE"
)

// AlertChange represents a single insert or delete of an alert record,
// published to the alert.changed topic. Delivery is at-least-once with no
// ordering guarantee relative to HTTP responses.
type AlertChange struct {
	EventType     string        `json:"event_type"` // INSERT or DELETE
	Record        alerts.Record `json:"record"`
	SchemaVersion int           `json:"schema_version"`
}

// SchemaVersion is the current wire schema version for AlertChange.
const SchemaVersion = 1
