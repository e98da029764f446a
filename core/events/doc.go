// Package events defines the board events emitted on the event bus.
//
// Available event types:
//   - AssignmentCreated: a resource was bound to a route or field trip
//   - AssignmentCleared: one or more resources were released from an owner
//   - AssignmentsReady: the board finished loading its persisted state
package events
