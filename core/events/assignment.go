package events

import (
	"time"

	"github.com/kilianp07/fleetboard/core/model"
)

// Event is implemented by every board event.
type Event interface {
	Name() string
}

// AssignmentCreated is published after a resource is bound to an owner.
type AssignmentCreated struct {
	ResourceType model.ResourceType `json:"type"`
	ResourceID   string             `json:"resource_id"`
	Owner        model.OwnerRef     `json:"owner"`
	Role         model.Role         `json:"role"`
	Timestamp    time.Time          `json:"timestamp"`
}

func (AssignmentCreated) Name() string { return "assignment-created" }

// AssignmentCleared is published after resources are released from an owner.
// ResourceType is empty when several resource classes were cleared at once.
type AssignmentCleared struct {
	Owner        model.OwnerRef     `json:"owner"`
	ResourceType model.ResourceType `json:"type,omitempty"`
	ClearedItems []string           `json:"cleared_items"`
	Timestamp    time.Time          `json:"timestamp"`
}

func (AssignmentCleared) Name() string { return "assignment-cleared" }

// AssignmentsReady is published once the board has loaded its state.
type AssignmentsReady struct {
	Routes     int       `json:"routes"`
	FieldTrips int       `json:"field_trips"`
	Timestamp  time.Time `json:"timestamp"`
}

func (AssignmentsReady) Name() string { return "assignments-ready" }
