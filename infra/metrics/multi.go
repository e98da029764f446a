package metrics

import (
	"github.com/kilianp07/fleetboard/core/board"
	"github.com/kilianp07/fleetboard/core/model"
)

// MultiSink fans history entries out to several sinks.
type MultiSink struct {
	Sinks []board.AuditSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...board.AuditSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordHistory forwards entries to every sink and returns the first error.
// A failing sink does not stop delivery to the others.
func (m *MultiSink) RecordHistory(entries []model.HistoryEntry) error {
	var first error
	for _, s := range m.Sinks {
		if err := s.RecordHistory(entries); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes every sink that holds a connection.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
