package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kilianp07/fleetboard/core/events"
	"github.com/kilianp07/fleetboard/infra/logger"
)

// Transport is what EventPublisher needs from a broker connection.
type Transport interface {
	Publish(topic string, payload []byte, retained bool) error
}

// EventSource is the subscription side of the board event bus.
type EventSource interface {
	Subscribe() <-chan events.Event
	Unsubscribe(<-chan events.Event)
}

// EventPublisher turns board events into JSON messages under a topic prefix.
type EventPublisher struct {
	t      Transport
	prefix string
	log    logger.Logger
}

// NewEventPublisher returns a publisher writing below prefix.
func NewEventPublisher(t Transport, prefix string) *EventPublisher {
	if prefix == "" {
		prefix = "board"
	}
	return &EventPublisher{t: t, prefix: prefix, log: logger.New("mqtt_events")}
}

// Topic maps an event to its topic.
func (p *EventPublisher) Topic(ev events.Event) string {
	switch ev.(type) {
	case events.AssignmentCreated:
		return p.prefix + "/assignment/created"
	case events.AssignmentCleared:
		return p.prefix + "/assignment/cleared"
	case events.AssignmentsReady:
		return p.prefix + "/assignment/ready"
	}
	return p.prefix + "/event/" + ev.Name()
}

// Publish sends one event. The readiness message is retained.
func (p *EventPublisher) Publish(ev events.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ev.Name(), err)
	}
	_, ready := ev.(events.AssignmentsReady)
	return p.t.Publish(p.Topic(ev), payload, ready)
}

// Run forwards events from src until ctx is canceled or the bus closes.
// Publish failures are logged and do not stop forwarding.
func (p *EventPublisher) Run(ctx context.Context, src EventSource) {
	sub := src.Subscribe()
	go func() {
		defer src.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := p.Publish(ev); err != nil {
					p.log.Errorw("event publish failed", map[string]any{"event": ev.Name(), "error": err.Error()})
				}
			}
		}
	}()
}
