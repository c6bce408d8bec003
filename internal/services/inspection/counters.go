package inspection

import (
	"sync"

	"cap-inspect/internal/models"
)

// Counters keeps the in-memory tallies derived from the inspection log.
// Apply after each append and Reload over the full log must agree.
type Counters struct {
	mu      sync.RWMutex
	scanned int
	good    int
	defect  int
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{}
}

// Reload recomputes the tallies by replaying records from an empty state.
func (c *Counters) Reload(records []models.ClassificationRecord, passLabels map[string]struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.scanned, c.good, c.defect = 0, 0, 0
	for _, rec := range records {
		c.applyLocked(rec, passLabels)
	}
}

// Apply updates the tallies for one freshly appended record.
func (c *Counters) Apply(rec models.ClassificationRecord, passLabels map[string]struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyLocked(rec, passLabels)
}

func (c *Counters) applyLocked(rec models.ClassificationRecord, passLabels map[string]struct{}) {
	if rec.Label == models.LabelNoObject {
		return
	}
	c.scanned++
	if _, ok := passLabels[rec.Label]; ok {
		c.good++
	} else {
		c.defect++
	}
}

// Snapshot returns a consistent copy of all three tallies.
func (c *Counters) Snapshot() models.CounterSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return models.CounterSnapshot{
		TotalScanned: c.scanned,
		TotalGood:    c.good,
		TotalDefect:  c.defect,
	}
}

// Reset zeroes all tallies.
func (c *Counters) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scanned, c.good, c.defect = 0, 0, 0
}
