package model

import "time"

// HistoryKind classifies a board mutation.
type HistoryKind string

const (
	HistoryAssigned   HistoryKind = "assigned"
	HistoryCleared    HistoryKind = "cleared"
	HistoryDisplaced  HistoryKind = "displaced"
	HistoryReassigned HistoryKind = "reassigned"
	HistoryRepaired   HistoryKind = "repaired"
)

// HistoryEntry records one mutation. Entries are never modified once logged.
type HistoryEntry struct {
	ID           string       `json:"id"`
	Kind         HistoryKind  `json:"kind"`
	Owner        OwnerRef     `json:"owner"`
	Resources    []string     `json:"resources"`
	ResourceType ResourceType `json:"resource_type,omitempty"`
	Role         Role         `json:"role,omitempty"`
	Timestamp    time.Time    `json:"timestamp"`
	Note         string       `json:"note,omitempty"`
}
