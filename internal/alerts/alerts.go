// Package alerts defines the core domain types for inventory stock alerts.
package alerts

import (
	"time"
)

// Severity classifies how urgent an alert is.
type Severity string

// Valid severities for an alert.
const (
	SeverityCritical   Severity = "critical"
	SeverityLow        Severity = "low"
	SeverityOutOfStock Severity = "out_of_stock"
)

// Valid reports whether s is one of the recognized severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityLow, SeverityOutOfStock:
		return true
	}
	return false
}

// Channel identifies a notification delivery channel for a rule.
type Channel string

// Valid notification channels.
const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelInApp Channel = "in_app"
)

// Valid reports whether c is one of the recognized channels.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelInApp:
		return true
	}
	return false
}

// DefaultChannels is applied when a rule is created without channels.
var DefaultChannels = []Channel{ChannelInApp}

// Record represents a single inventory alert.
// Immutable once created except for the active flag.
type Record struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	ProductID string    `json:"product_id"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Rule represents an alert rule configuring thresholds for a product.
type Rule struct {
	RuleID                 string    `json:"rule_id"`
	ProductID              string    `json:"product_id"`
	LowStockThreshold      int       `json:"low_stock_threshold"`
	CriticalStockThreshold int       `json:"critical_stock_threshold"`
	Enabled                bool      `json:"enabled"`
	NotificationChannels   []Channel `json:"notification_channels"`
	CreatedBy              string    `json:"created_by,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// Summary holds the aggregate counters for the active alert population.
type Summary struct {
	TotalAlerts      int `json:"total_alerts"`
	CriticalAlerts   int `json:"critical_alerts"`
	LowStockAlerts   int `json:"low_stock_alerts"`
	OutOfStockAlerts int `json:"out_of_stock_alerts"`
}

// Consistent reports whether the total equals the sum of the per-severity counters.
func (s Summary) Consistent() bool {
	return s.TotalAlerts == s.CriticalAlerts+s.LowStockAlerts+s.OutOfStockAlerts
}
