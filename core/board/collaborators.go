package board

import (
	"context"

	"github.com/kilianp07/fleetboard/core/model"
)

// Confirmer decides whether a conflicting binding may be broken. It may block
// (a modal prompt) until the operator answers or ctx is done.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// StaticConfirmer answers every prompt with the same decision.
type StaticConfirmer bool

func (c StaticConfirmer) Confirm(context.Context, string) (bool, error) { return bool(c), nil }

// Severity grades operator notifications.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier shows a message to the operator. Delivery is fire and forget.
type Notifier interface {
	Notify(message string, severity Severity)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string, Severity) {}

// StateStore persists the serialised board. Load returns (nil, nil) when
// nothing has been saved yet.
type StateStore interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, st State) error
	Close() error
}

// AuditSink receives history entries as they are logged.
type AuditSink interface {
	RecordHistory(entries []model.HistoryEntry) error
}

// NopSink discards audit entries.
type NopSink struct{}

func (NopSink) RecordHistory([]model.HistoryEntry) error { return nil }
