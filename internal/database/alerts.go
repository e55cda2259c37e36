package database

import (
	"context"
	"database/sql"
	"fmt"

	"stock-alerts/internal/alerts"
)

const alertColumns = "id, store_id, product_id, severity, message, active, created_at"

func scanAlert(row interface{ Scan(...interface{}) error }, rec *alerts.Record) error {
	return row.Scan(
		&rec.ID,
		&rec.StoreID,
		&rec.ProductID,
		&rec.Severity,
		&rec.Message,
		&rec.Active,
		&rec.CreatedAt,
	)
}

// ListAlerts retrieves active alerts newest first, ties broken by id
// descending for a stable page order. storeID and severity are optional
// filters; pass "" to skip them.
func (db *DB) ListAlerts(ctx context.Context, storeID, severity string, limit, offset int) ([]alerts.Record, error) {
	var query string
	var args []interface{}

	if storeID != "" && severity != "" {
		query = `
			SELECT ` + alertColumns + `
			FROM inventory_alerts
			WHERE active = TRUE AND store_id = $1 AND severity = $2
			ORDER BY created_at DESC, id DESC
			LIMIT $3 OFFSET $4
		`
		args = []interface{}{storeID, severity, limit, offset}
	} else if storeID != "" {
		query = `
			SELECT ` + alertColumns + `
			FROM inventory_alerts
			WHERE active = TRUE AND store_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2 OFFSET $3
		`
		args = []interface{}{storeID, limit, offset}
	} else if severity != "" {
		query = `
			SELECT ` + alertColumns + `
			FROM inventory_alerts
			WHERE active = TRUE AND severity = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2 OFFSET $3
		`
		args = []interface{}{severity, limit, offset}
	} else {
		query = `
			SELECT ` + alertColumns + `
			FROM inventory_alerts
			WHERE active = TRUE
			ORDER BY created_at DESC, id DESC
			LIMIT $1 OFFSET $2
		`
		args = []interface{}{limit, offset}
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var records []alerts.Record
	for rows.Next() {
		var rec alerts.Record
		if err := scanAlert(rows, &rec); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetSummary retrieves the population-wide counters from the summary view.
// An empty view yields a zero summary, not an error.
func (db *DB) GetSummary(ctx context.Context) (alerts.Summary, error) {
	query := `
		SELECT total_alerts, critical_alerts, low_stock_alerts, out_of_stock_alerts
		FROM inventory_alerts_summary
	`
	var s alerts.Summary
	err := db.conn.QueryRowContext(ctx, query).Scan(
		&s.TotalAlerts,
		&s.CriticalAlerts,
		&s.LowStockAlerts,
		&s.OutOfStockAlerts,
	)
	if err == sql.ErrNoRows {
		return alerts.Summary{}, nil
	}
	if err != nil {
		return alerts.Summary{}, fmt.Errorf("failed to get alert summary: %w", err)
	}
	return s, nil
}

// AcknowledgeAlert clears the active flag and returns the acknowledged
// record so the caller can publish a delete event for it.
func (db *DB) AcknowledgeAlert(ctx context.Context, alertID string) (*alerts.Record, error) {
	query := `
		UPDATE inventory_alerts
		SET active = FALSE
		WHERE id = $1 AND active = TRUE
		RETURNING ` + alertColumns + `
	`
	var rec alerts.Record
	err := scanAlert(db.conn.QueryRowContext(ctx, query, alertID), &rec)
	if err == sql.ErrNoRows {
		return nil, &alerts.NotFoundError{Resource: "alert", ID: alertID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acknowledge alert: %w", err)
	}
	return &rec, nil
}
