// Package stats holds the queue statistics shared between the push
// channel's read loop and the dashboard. Patches are applied where they
// arrive; renders read the current value, so a dropped redraw hint never
// loses data.
package stats

import (
	"sync"

	"github.com/qmdesk/cashier-console/internal/model"
)

// Tracker is the mutable queue-stats record. All methods are safe for
// concurrent use.
type Tracker struct {
	mu    sync.Mutex
	queue model.QueueStats
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Set replaces the queue statistics wholesale (REST fetch).
func (t *Tracker) Set(s model.QueueStats) {
	t.mu.Lock()
	t.queue = s
	t.mu.Unlock()
}

// Apply merges a partial push update into the current statistics.
func (t *Tracker) Apply(p model.QueueStatsPatch) {
	t.mu.Lock()
	p.Apply(&t.queue)
	t.mu.Unlock()
}

// Queue returns the current queue statistics.
func (t *Tracker) Queue() model.QueueStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.queue
}
