// Package handlers provides HTTP handlers for the inventory alerts API.
package handlers

import (
	"context"

	"stock-alerts/internal/alerts"
	"stock-alerts/internal/database"
	"stock-alerts/internal/events"
)

// Store defines the database operations the handlers need.
// This allows handlers to be tested without a real database.
type Store interface {
	ListAlerts(ctx context.Context, storeID, severity string, limit, offset int) ([]alerts.Record, error)
	GetSummary(ctx context.Context) (alerts.Summary, error)
	AcknowledgeAlert(ctx context.Context, alertID string) (*alerts.Record, error)

	GetProduct(ctx context.Context, productID string) (*database.Product, error)
	CreateRule(ctx context.Context, productID string, low, critical int, enabled bool, channels []alerts.Channel, createdBy string) (*alerts.Rule, error)
	GetRule(ctx context.Context, ruleID string) (*alerts.Rule, error)
	UpdateRule(ctx context.Context, ruleID string, low, critical *int, enabled *bool, channels []alerts.Channel) (*alerts.Rule, error)
	DeleteRule(ctx context.Context, ruleID string) error

	TriggerStockCheck(ctx context.Context, productID string) ([]database.StockCheckResult, error)
}

// ChangePublisher publishes alert change events to the push transport.
type ChangePublisher interface {
	Publish(ctx context.Context, change *events.AlertChange) error
	Close() error
}

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	store    Store
	producer ChangePublisher
}

// NewHandlers creates handlers backed by the given store and publisher.
func NewHandlers(store Store, producer ChangePublisher) *Handlers {
	return &Handlers{store: store, producer: producer}
}
