package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	NotesCreated        uint64
	NotesUpdated        uint64
	NotesDeleted        uint64
	NotesListed         uint64
	ListDurationCount   uint64
	ListDurationTotalNs int64
	MutationsDenied     uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	notesCreated        uint64
	notesUpdated        uint64
	notesDeleted        uint64
	notesListed         uint64
	listDurationCount   uint64
	listDurationTotalNs int64
	mutationsDenied     uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		NotesCreated:        atomic.LoadUint64(&m.notesCreated),
		NotesUpdated:        atomic.LoadUint64(&m.notesUpdated),
		NotesDeleted:        atomic.LoadUint64(&m.notesDeleted),
		NotesListed:         atomic.LoadUint64(&m.notesListed),
		ListDurationCount:   atomic.LoadUint64(&m.listDurationCount),
		ListDurationTotalNs: atomic.LoadInt64(&m.listDurationTotalNs),
		MutationsDenied:     atomic.LoadUint64(&m.mutationsDenied),
	}
}

// IncNoteCreated increments the note created counter.
func (m *InMemoryRecorder) IncNoteCreated() {
	atomic.AddUint64(&m.notesCreated, 1)
}

// IncNoteUpdated increments the note updated counter.
func (m *InMemoryRecorder) IncNoteUpdated() {
	atomic.AddUint64(&m.notesUpdated, 1)
}

// IncNoteDeleted increments the note deleted counter.
func (m *InMemoryRecorder) IncNoteDeleted() {
	atomic.AddUint64(&m.notesDeleted, 1)
}

// IncNoteListed increments the listing counter.
func (m *InMemoryRecorder) IncNoteListed() {
	atomic.AddUint64(&m.notesListed, 1)
}

// ObserveListDuration records how long a listing query took.
func (m *InMemoryRecorder) ObserveListDuration(duration time.Duration) {
	atomic.AddUint64(&m.listDurationCount, 1)
	atomic.AddInt64(&m.listDurationTotalNs, duration.Nanoseconds())
}

// IncMutationDenied increments the denied mutation counter.
func (m *InMemoryRecorder) IncMutationDenied() {
	atomic.AddUint64(&m.mutationsDenied, 1)
}
