package reconcile

// Counter names recorded by the engine.
const (
	CounterPagesLoaded       = "pages_loaded"
	CounterEventsApplied     = "events_applied"
	CounterDuplicatesDropped = "duplicates_dropped"
	CounterDriftClamps       = "drift_clamps"
	CounterNotifications     = "notifications_sent"
	CounterErrors            = "errors"
)

// Recorder counts engine activity.
type Recorder interface {
	Increment(name string)
}

// NoOpRecorder is a Recorder that discards everything.
type NoOpRecorder struct{}

// Ensure NoOpRecorder implements Recorder.
var _ Recorder = NoOpRecorder{}

func (NoOpRecorder) Increment(_ string) {}
