package statestore

import (
	"encoding/json"
	"fmt"

	"github.com/kilianp07/fleetboard/core/board"
)

func encode(st board.State) ([]byte, error) {
	b, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode board state: %w", err)
	}
	return b, nil
}

func decode(b []byte) (*board.State, error) {
	var st board.State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode board state: %w", err)
	}
	return &st, nil
}
