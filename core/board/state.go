package board

import (
	"time"

	"github.com/kilianp07/fleetboard/core/model"
)

// State is the persisted form of the board. It is plain JSON so that any
// key-value medium can hold it.
type State struct {
	Routes     map[string]model.Assignment `json:"routes"`
	FieldTrips map[string]model.Assignment `json:"field_trips"`
	StaffIndex map[string]model.Binding    `json:"staff_index"`
	AssetIndex map[string]model.Binding    `json:"asset_index"`
	History    []model.HistoryEntry        `json:"history"`
	SavedAt    time.Time                   `json:"saved_at"`
}

// Empty reports whether the state carries no owners, bindings or history.
func (s State) Empty() bool {
	return len(s.Routes) == 0 && len(s.FieldTrips) == 0 &&
		len(s.StaffIndex) == 0 && len(s.AssetIndex) == 0 && len(s.History) == 0
}
