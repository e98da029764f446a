package board

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/fleetboard/core/model"
)

// History is a bounded, append-only log of board mutations. The oldest
// entries are evicted once the limit is reached.
type History struct {
	mu      sync.RWMutex
	entries []model.HistoryEntry
	limit   int
	now     func() time.Time
}

// NewHistory returns a log keeping at most limit entries.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit, now: time.Now}
}

// Append stamps e with an id and timestamp when missing and stores it.
func (h *History) Append(e model.HistoryEntry) model.HistoryEntry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = h.now().UTC()
	}
	e.Resources = slices.Clone(e.Resources)
	h.mu.Lock()
	h.entries = append(h.entries, e)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = slices.Delete(h.entries, 0, over)
	}
	h.mu.Unlock()
	return e
}

// Entries returns all retained entries, oldest first.
func (h *History) Entries() []model.HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return cloneEntries(h.entries)
}

// Recent returns up to n entries, newest first. n <= 0 returns everything.
func (h *History) Recent(n int) []model.HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n <= 0 || n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]model.HistoryEntry, 0, n)
	for i := len(h.entries) - 1; i >= len(h.entries)-n; i-- {
		out = append(out, h.entries[i])
	}
	return cloneEntries(out)
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Restore replaces the log, keeping only the newest limit entries.
func (h *History) Restore(entries []model.HistoryEntry) {
	if over := len(entries) - h.limit; over > 0 {
		entries = entries[over:]
	}
	h.mu.Lock()
	h.entries = cloneEntries(entries)
	h.mu.Unlock()
}

func cloneEntries(in []model.HistoryEntry) []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(in))
	for i, e := range in {
		e.Resources = slices.Clone(e.Resources)
		out[i] = e
	}
	return out
}
