package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"stock-alerts/internal/alerts"
)

const ruleColumns = "rule_id, product_id, low_stock_threshold, critical_stock_threshold, enabled, notification_channels, created_by, created_at, updated_at"

// Product identifies a product an alert rule can reference.
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

func scanRule(row interface{ Scan(...interface{}) error }, rule *alerts.Rule) error {
	var channels []string
	var createdBy sql.NullString
	if err := row.Scan(
		&rule.RuleID,
		&rule.ProductID,
		&rule.LowStockThreshold,
		&rule.CriticalStockThreshold,
		&rule.Enabled,
		pq.Array(&channels),
		&createdBy,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	); err != nil {
		return err
	}
	rule.CreatedBy = createdBy.String
	rule.NotificationChannels = make([]alerts.Channel, 0, len(channels))
	for _, ch := range channels {
		rule.NotificationChannels = append(rule.NotificationChannels, alerts.Channel(ch))
	}
	return nil
}

func channelStrings(channels []alerts.Channel) []string {
	out := make([]string, 0, len(channels))
	for _, ch := range channels {
		out = append(out, string(ch))
	}
	return out
}

// GetProduct retrieves the product a rule references.
func (db *DB) GetProduct(ctx context.Context, productID string) (*Product, error) {
	query := `
		SELECT id, name, sku
		FROM products
		WHERE id = $1
	`
	var p Product
	err := db.conn.QueryRowContext(ctx, query, productID).Scan(&p.ID, &p.Name, &p.SKU)
	if err == sql.ErrNoRows {
		return nil, &alerts.NotFoundError{Resource: "product", ID: productID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// CreateRule creates a new alert rule. A foreign-key violation on
// product_id surfaces as NotFoundError.
func (db *DB) CreateRule(ctx context.Context, productID string, low, critical int, enabled bool, channels []alerts.Channel, createdBy string) (*alerts.Rule, error) {
	query := `
		INSERT INTO inventory_alert_rules (product_id, low_stock_threshold, critical_stock_threshold, enabled, notification_channels, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + ruleColumns + `
	`
	var rule alerts.Rule
	err := scanRule(db.conn.QueryRowContext(ctx, query, productID, low, critical, enabled, pq.Array(channelStrings(channels)), nullString(createdBy)), &rule)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" { // foreign_key_violation
				return nil, &alerts.NotFoundError{Resource: "product", ID: productID}
			}
			if pqErr.Code == "23505" { // unique_violation
				return nil, fmt.Errorf("rule already exists for product %s", productID)
			}
		}
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}
	return &rule, nil
}

// GetRule retrieves a rule by ID.
func (db *DB) GetRule(ctx context.Context, ruleID string) (*alerts.Rule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM inventory_alert_rules
		WHERE rule_id = $1
	`
	var rule alerts.Rule
	err := scanRule(db.conn.QueryRowContext(ctx, query, ruleID), &rule)
	if err == sql.ErrNoRows {
		return nil, &alerts.NotFoundError{Resource: "rule", ID: ruleID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return &rule, nil
}

// UpdateRule applies a partial update; nil fields keep their current
// values. product_id is immutable and not part of the update surface.
func (db *DB) UpdateRule(ctx context.Context, ruleID string, low, critical *int, enabled *bool, channels []alerts.Channel) (*alerts.Rule, error) {
	query := `
		UPDATE inventory_alert_rules
		SET low_stock_threshold = COALESCE($2, low_stock_threshold),
		    critical_stock_threshold = COALESCE($3, critical_stock_threshold),
		    enabled = COALESCE($4, enabled),
		    notification_channels = COALESCE($5, notification_channels),
		    updated_at = NOW()
		WHERE rule_id = $1
		RETURNING ` + ruleColumns + `
	`
	var channelsArg interface{}
	if channels != nil {
		channelsArg = pq.Array(channelStrings(channels))
	}
	var rule alerts.Rule
	err := scanRule(db.conn.QueryRowContext(ctx, query, ruleID, nullInt(low), nullInt(critical), nullBool(enabled), channelsArg), &rule)
	if err == sql.ErrNoRows {
		return nil, &alerts.NotFoundError{Resource: "rule", ID: ruleID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update rule: %w", err)
	}
	return &rule, nil
}

// DeleteRule deletes a rule by ID. An unknown id is surfaced, not
// swallowed.
func (db *DB) DeleteRule(ctx context.Context, ruleID string) error {
	query := `DELETE FROM inventory_alert_rules WHERE rule_id = $1`
	result, err := db.conn.ExecContext(ctx, query, ruleID)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &alerts.NotFoundError{Resource: "rule", ID: ruleID}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
