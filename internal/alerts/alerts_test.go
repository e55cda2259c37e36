package alerts

import (
	"errors"
	"fmt"
	"testing"
)

func TestSeverityValid(t *testing.T) {
	tests := []struct {
		severity Severity
		want     bool
	}{
		{SeverityCritical, true},
		{SeverityLow, true},
		{SeverityOutOfStock, true},
		{"urgent", false},
		{"", false},
		{"CRITICAL", false},
	}

	for _, tt := range tests {
		if got := tt.severity.Valid(); got != tt.want {
			t.Errorf("Severity(%q).Valid() = %v, want %v", tt.severity, got, tt.want)
		}
	}
}

func TestChannelValid(t *testing.T) {
	tests := []struct {
		channel Channel
		want    bool
	}{
		{ChannelEmail, true},
		{ChannelSMS, true},
		{ChannelInApp, true},
		{"fax", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.channel.Valid(); got != tt.want {
			t.Errorf("Channel(%q).Valid() = %v, want %v", tt.channel, got, tt.want)
		}
	}
}

func TestSummaryConsistent(t *testing.T) {
	tests := []struct {
		name    string
		summary Summary
		want    bool
	}{
		{name: "zero summary", summary: Summary{}, want: true},
		{name: "balanced", summary: Summary{TotalAlerts: 6, CriticalAlerts: 1, LowStockAlerts: 2, OutOfStockAlerts: 3}, want: true},
		{name: "total too high", summary: Summary{TotalAlerts: 7, CriticalAlerts: 1, LowStockAlerts: 2, OutOfStockAlerts: 3}, want: false},
		{name: "total too low", summary: Summary{TotalAlerts: 5, CriticalAlerts: 1, LowStockAlerts: 2, OutOfStockAlerts: 3}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.summary.Consistent(); got != tt.want {
				t.Errorf("Consistent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	ve := &ValidationError{Field: "store_id", Reason: "must be a valid UUID"}
	if ve.Error() != "validation error: store_id: must be a valid UUID" {
		t.Errorf("Unexpected message: %q", ve.Error())
	}

	bare := &ValidationError{Reason: "bad request"}
	if bare.Error() != "validation error: bad request" {
		t.Errorf("Unexpected message: %q", bare.Error())
	}

	nf := &NotFoundError{Resource: "alert", ID: "a-1"}
	if nf.Error() != "alert not found: a-1" {
		t.Errorf("Unexpected message: %q", nf.Error())
	}
}

func TestUpstreamErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	ue := &UpstreamError{Op: "fetch alerts", Err: cause}

	if !errors.Is(ue, cause) {
		t.Error("Expected UpstreamError to unwrap to its cause")
	}
}
