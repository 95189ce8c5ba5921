// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Note lifecycle metrics
	IncNoteCreated()
	IncNoteUpdated()
	IncNoteDeleted()

	// Listing metrics
	IncNoteListed()
	ObserveListDuration(duration time.Duration)

	// Authorization metrics
	IncMutationDenied()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
