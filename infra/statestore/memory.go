package statestore

import (
	"context"
	"sync"

	"github.com/kilianp07/fleetboard/core/board"
)

// Memory keeps the last saved state as encoded bytes so callers never share
// maps with the engine.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Load(context.Context) (*board.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return decode(m.data)
}

func (m *Memory) Save(_ context.Context, st board.State) error {
	b, err := encode(st)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = b
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }
