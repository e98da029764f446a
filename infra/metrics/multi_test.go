package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/fleetboard/core/factory"
	"github.com/kilianp07/fleetboard/core/model"
)

type recordSink struct {
	count int
	err   error
}

func (r *recordSink) RecordHistory(e []model.HistoryEntry) error {
	r.count += len(e)
	return r.err
}

func TestMultiSink(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)

	err := m.RecordHistory([]model.HistoryEntry{{ID: "a"}, {ID: "b"}})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, s1.count)
	assert.Equal(t, 2, s2.count, "later sinks still receive entries")
}

func TestNewAuditSink(t *testing.T) {
	s, err := NewAuditSink(nil)
	assert.NoError(t, err)
	assert.NoError(t, s.RecordHistory(nil))

	s, err = NewAuditSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "nop"}})
	assert.NoError(t, err)
	assert.IsType(t, &MultiSink{}, s)

	_, err = NewAuditSink([]factory.ModuleConfig{{Type: "kafka"}})
	assert.ErrorIs(t, err, factory.ErrUnknownType)
}

type closingSink struct {
	recordSink
	closed bool
}

func (c *closingSink) Close() { c.closed = true }

func TestMultiSinkClose(t *testing.T) {
	c := &closingSink{}
	m := NewMultiSink(&recordSink{}, c)
	m.Close()
	assert.True(t, c.closed)
}
