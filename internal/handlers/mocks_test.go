// Package handlers provides test mocks for handler dependencies.
package handlers

import (
	"context"
	"sync"
	"time"

	"stock-alerts/internal/alerts"
	"stock-alerts/internal/database"
	"stock-alerts/internal/events"
)

// mockStore implements Store for testing.
type mockStore struct {
	// Callbacks for each method (set these to control behavior)
	ListAlertsFn        func(ctx context.Context, storeID, severity string, limit, offset int) ([]alerts.Record, error)
	GetSummaryFn        func(ctx context.Context) (alerts.Summary, error)
	AcknowledgeAlertFn  func(ctx context.Context, alertID string) (*alerts.Record, error)
	GetProductFn        func(ctx context.Context, productID string) (*database.Product, error)
	CreateRuleFn        func(ctx context.Context, productID string, low, critical int, enabled bool, channels []alerts.Channel, createdBy string) (*alerts.Rule, error)
	GetRuleFn           func(ctx context.Context, ruleID string) (*alerts.Rule, error)
	UpdateRuleFn        func(ctx context.Context, ruleID string, low, critical *int, enabled *bool, channels []alerts.Channel) (*alerts.Rule, error)
	DeleteRuleFn        func(ctx context.Context, ruleID string) error
	TriggerStockCheckFn func(ctx context.Context, productID string) ([]database.StockCheckResult, error)
}

func (m *mockStore) ListAlerts(ctx context.Context, storeID, severity string, limit, offset int) ([]alerts.Record, error) {
	if m.ListAlertsFn != nil {
		return m.ListAlertsFn(ctx, storeID, severity, limit, offset)
	}
	return []alerts.Record{}, nil
}

func (m *mockStore) GetSummary(ctx context.Context) (alerts.Summary, error) {
	if m.GetSummaryFn != nil {
		return m.GetSummaryFn(ctx)
	}
	return alerts.Summary{}, nil
}

func (m *mockStore) AcknowledgeAlert(ctx context.Context, alertID string) (*alerts.Record, error) {
	if m.AcknowledgeAlertFn != nil {
		return m.AcknowledgeAlertFn(ctx, alertID)
	}
	return &alerts.Record{ID: alertID, Severity: alerts.SeverityLow, CreatedAt: time.Now()}, nil
}

func (m *mockStore) GetProduct(ctx context.Context, productID string) (*database.Product, error) {
	if m.GetProductFn != nil {
		return m.GetProductFn(ctx, productID)
	}
	return &database.Product{ID: productID, Name: "Widget", SKU: "WID-1"}, nil
}

func (m *mockStore) CreateRule(ctx context.Context, productID string, low, critical int, enabled bool, channels []alerts.Channel, createdBy string) (*alerts.Rule, error) {
	if m.CreateRuleFn != nil {
		return m.CreateRuleFn(ctx, productID, low, critical, enabled, channels, createdBy)
	}
	return &alerts.Rule{
		RuleID:                 "rule-1",
		ProductID:              productID,
		LowStockThreshold:      low,
		CriticalStockThreshold: critical,
		Enabled:                enabled,
		NotificationChannels:   channels,
		CreatedBy:              createdBy,
	}, nil
}

func (m *mockStore) GetRule(ctx context.Context, ruleID string) (*alerts.Rule, error) {
	if m.GetRuleFn != nil {
		return m.GetRuleFn(ctx, ruleID)
	}
	return &alerts.Rule{RuleID: ruleID, ProductID: "product-1", Enabled: true}, nil
}

func (m *mockStore) UpdateRule(ctx context.Context, ruleID string, low, critical *int, enabled *bool, channels []alerts.Channel) (*alerts.Rule, error) {
	if m.UpdateRuleFn != nil {
		return m.UpdateRuleFn(ctx, ruleID, low, critical, enabled, channels)
	}
	rule := &alerts.Rule{RuleID: ruleID, ProductID: "product-1", Enabled: true}
	if low != nil {
		rule.LowStockThreshold = *low
	}
	if critical != nil {
		rule.CriticalStockThreshold = *critical
	}
	if enabled != nil {
		rule.Enabled = *enabled
	}
	return rule, nil
}

func (m *mockStore) DeleteRule(ctx context.Context, ruleID string) error {
	if m.DeleteRuleFn != nil {
		return m.DeleteRuleFn(ctx, ruleID)
	}
	return nil
}

func (m *mockStore) TriggerStockCheck(ctx context.Context, productID string) ([]database.StockCheckResult, error) {
	if m.TriggerStockCheckFn != nil {
		return m.TriggerStockCheckFn(ctx, productID)
	}
	return []database.StockCheckResult{}, nil
}

// mockPublisher implements ChangePublisher for testing.
type mockPublisher struct {
	PublishFn func(ctx context.Context, change *events.AlertChange) error

	mu        sync.Mutex
	Published []*events.AlertChange // Records all published events
}

func (m *mockPublisher) Publish(ctx context.Context, change *events.AlertChange) error {
	m.mu.Lock()
	m.Published = append(m.Published, change)
	m.mu.Unlock()
	if m.PublishFn != nil {
		return m.PublishFn(ctx, change)
	}
	return nil
}

func (m *mockPublisher) Close() error {
	return nil
}

func (m *mockPublisher) published() []*events.AlertChange {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*events.AlertChange(nil), m.Published...)
}
