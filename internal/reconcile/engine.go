// Package reconcile maintains the client-side view of active inventory
// alerts. It merges paginated page loads, live change events, and local
// acknowledgements into one list plus summary counters, keeping the two
// consistent under arbitrary interleaving.
package reconcile

import (
	"context"
	"log/slog"
	"sync"

	"stock-alerts/internal/alerts"
	"stock-alerts/internal/events"
	"stock-alerts/internal/notify"
	"stock-alerts/internal/query"
)

// PageFetcher retrieves one page of alerts plus a summary snapshot.
// This interface allows for dependency injection and easier testing.
type PageFetcher interface {
	FetchPage(ctx context.Context, f query.Filters) (*query.Page, error)
}

// Acknowledger confirms an acknowledgement with the remote store.
type Acknowledger interface {
	AcknowledgeAlert(ctx context.Context, alertID string) error
}

// View is the client-held cache of alerts and counters. It is not the
// authoritative store; the next full load corrects any drift.
type View struct {
	Records []alerts.Record
	Summary alerts.Summary
	HasMore bool
	Loading bool
	Err     string
}

// Engine serializes all mutations of the view. Live events are applied
// immediately against current state even while a fetch is outstanding,
// which is why inserts must tolerate duplicates and deletes absences.
type Engine struct {
	fetcher PageFetcher
	acker   Acknowledger
	sink    notify.Sink
	rec     Recorder

	mu      sync.Mutex
	view    View
	loadSeq uint64 // latest issued LoadInitial; stale completions are discarded
}

// NewEngine creates an engine over an empty view. A nil recorder disables
// metrics.
func NewEngine(fetcher PageFetcher, acker Acknowledger, sink notify.Sink, rec Recorder) *Engine {
	if rec == nil {
		rec = NoOpRecorder{}
	}
	return &Engine{
		fetcher: fetcher,
		acker:   acker,
		sink:    sink,
		rec:     rec,
		view:    View{HasMore: true},
	}
}

// LoadInitial replaces the alert list and summary wholesale from page zero.
// The server-reported summary covers the entire active population, so it
// takes precedence over anything derivable from the fetched page. A newer
// LoadInitial supersedes any in-flight one: only the most recently issued
// request's outcome is applied.
func (e *Engine) LoadInitial(ctx context.Context, f query.Filters) error {
	e.mu.Lock()
	e.loadSeq++
	seq := e.loadSeq
	e.view.Loading = true
	e.view.Err = ""
	e.mu.Unlock()

	f.Offset = 0
	page, err := e.fetcher.FetchPage(ctx, f)

	e.mu.Lock()
	defer e.mu.Unlock()
	if seq != e.loadSeq {
		slog.Debug("Discarding superseded load response", "seq", seq, "latest", e.loadSeq)
		return nil
	}
	e.view.Loading = false
	if err != nil {
		e.view.Err = err.Error()
		e.rec.Increment(CounterErrors)
		return err
	}
	e.view.Records = append([]alerts.Record(nil), page.Records...)
	e.view.Summary = page.Summary
	e.view.HasMore = page.HasMore
	e.rec.Increment(CounterPagesLoaded)
	return nil
}

// LoadMore appends the next page. It is a no-op while a load is in flight
// or when the previous page was short. Page-level summaries are not
// authoritative for the full population, so the counters are untouched.
func (e *Engine) LoadMore(ctx context.Context, f query.Filters) error {
	e.mu.Lock()
	if e.view.Loading || !e.view.HasMore {
		e.mu.Unlock()
		return nil
	}
	e.loadSeq++
	seq := e.loadSeq
	e.view.Loading = true
	f.Offset = len(e.view.Records)
	e.mu.Unlock()

	page, err := e.fetcher.FetchPage(ctx, f)

	e.mu.Lock()
	defer e.mu.Unlock()
	if seq != e.loadSeq {
		slog.Debug("Discarding superseded load response", "seq", seq, "latest", e.loadSeq)
		return nil
	}
	e.view.Loading = false
	if err != nil {
		e.view.Err = err.Error()
		e.rec.Increment(CounterErrors)
		return err
	}
	e.view.Records = append(e.view.Records, page.Records...)
	e.view.HasMore = page.HasMore
	e.rec.Increment(CounterPagesLoaded)
	return nil
}

// ApplyChange merges one live insert or delete event into the view.
func (e *Engine) ApplyChange(ev events.AlertChange) {
	switch ev.EventType {
	case events.TypeInsert:
		e.applyInsert(ev.Record)
	case events.TypeDelete:
		e.applyDelete(ev.Record.ID)
	default:
		slog.Warn("Ignoring change event with unknown type", "event_type", ev.EventType)
	}
}

// applyInsert prepends a new record and bumps the counters. A record whose
// id is already present means a bulk load raced with this event: refresh it
// in place without touching counters or notifying.
func (e *Engine) applyInsert(rec alerts.Record) {
	e.mu.Lock()
	for i := range e.view.Records {
		if e.view.Records[i].ID == rec.ID {
			e.view.Records[i] = rec
			e.mu.Unlock()
			e.rec.Increment(CounterDuplicatesDropped)
			return
		}
	}
	e.view.Records = append([]alerts.Record{rec}, e.view.Records...)
	e.view.Summary.TotalAlerts++
	switch rec.Severity {
	case alerts.SeverityCritical:
		e.view.Summary.CriticalAlerts++
	case alerts.SeverityLow:
		e.view.Summary.LowStockAlerts++
	case alerts.SeverityOutOfStock:
		e.view.Summary.OutOfStockAlerts++
	}
	e.mu.Unlock()

	e.rec.Increment(CounterEventsApplied)
	e.rec.Increment(CounterNotifications)
	// Outside the lock: the sink is fire-and-forget and must never stall
	// reconciliation.
	e.sink.Notify(rec)
}

// applyDelete removes a record by id. An absent id is a no-op: the record
// was already removed locally, typically by a prior acknowledge, and the
// at-least-once stream may redeliver.
func (e *Engine) applyDelete(alertID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removeLocked(alertID) {
		e.rec.Increment(CounterEventsApplied)
	}
}

// removeLocked removes the record and decrements the counters, clamped at
// zero so drift never produces a negative counter. Caller holds e.mu.
func (e *Engine) removeLocked(alertID string) bool {
	for i := range e.view.Records {
		if e.view.Records[i].ID != alertID {
			continue
		}
		removed := e.view.Records[i]
		e.view.Records = append(e.view.Records[:i], e.view.Records[i+1:]...)
		e.decrementLocked(&e.view.Summary.TotalAlerts)
		switch removed.Severity {
		case alerts.SeverityCritical:
			e.decrementLocked(&e.view.Summary.CriticalAlerts)
		case alerts.SeverityLow:
			e.decrementLocked(&e.view.Summary.LowStockAlerts)
		case alerts.SeverityOutOfStock:
			e.decrementLocked(&e.view.Summary.OutOfStockAlerts)
		}
		return true
	}
	return false
}

func (e *Engine) decrementLocked(counter *int) {
	if *counter <= 0 {
		e.rec.Increment(CounterDriftClamps)
		return
	}
	*counter--
}

// Acknowledge removes the alert locally first, then confirms with the
// remote store. A remote failure is recorded in the view's error field and
// the local removal stands; the next LoadInitial reconciles any divergence.
func (e *Engine) Acknowledge(ctx context.Context, alertID string) {
	e.mu.Lock()
	e.removeLocked(alertID)
	e.mu.Unlock()

	if err := e.acker.AcknowledgeAlert(ctx, alertID); err != nil {
		slog.Error("Remote acknowledge failed", "alert_id", alertID, "error", err)
		e.mu.Lock()
		e.view.Err = err.Error()
		e.mu.Unlock()
		e.rec.Increment(CounterErrors)
	}
}

// Reset wipes the view back to its initial state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view = View{HasMore: true}
}

// Snapshot returns a copy of the current view for a presentation layer.
func (e *Engine) Snapshot() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := e.view
	v.Records = append([]alerts.Record(nil), e.view.Records...)
	return v
}

// Run consumes change events until the channel closes or the context is
// cancelled. The subscription lifecycle is the caller's: start Run in a
// goroutine and cancel the context to stop.
func (e *Engine) Run(ctx context.Context, ch <-chan events.AlertChange) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			e.ApplyChange(ev)
		}
	}
}
