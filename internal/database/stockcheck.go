package database

import (
	"context"
	"fmt"

	"stock-alerts/internal/alerts"
)

// StockCheckResult is one alert the stock-check procedure inserted or
// cleared while re-evaluating a product.
type StockCheckResult struct {
	Action string // INSERT or DELETE
	Record alerts.Record
}

// TriggerStockCheck re-evaluates a product's stock levels against its
// rules via the check_product_stock_levels procedure and returns the
// alerts it created or cleared so the caller can publish change events.
func (db *DB) TriggerStockCheck(ctx context.Context, productID string) ([]StockCheckResult, error) {
	query := `
		SELECT action, id, store_id, product_id, severity, message, active, created_at
		FROM check_product_stock_levels($1)
	`
	rows, err := db.conn.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to run stock check: %w", err)
	}
	defer rows.Close()

	var results []StockCheckResult
	for rows.Next() {
		var res StockCheckResult
		if err := rows.Scan(
			&res.Action,
			&res.Record.ID,
			&res.Record.StoreID,
			&res.Record.ProductID,
			&res.Record.Severity,
			&res.Record.Message,
			&res.Record.Active,
			&res.Record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stock check result: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
