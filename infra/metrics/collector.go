package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/fleetboard/core/events"
	"github.com/kilianp07/fleetboard/infra/logger"
)

// EventSource is the subscription side of the board event bus.
type EventSource interface {
	Subscribe() <-chan events.Event
	Unsubscribe(<-chan events.Event)
}

// EventCounter counts board events by name.
type EventCounter struct {
	events  *prometheus.CounterVec
	cleared prometheus.Counter
	log     logger.Logger
}

// NewEventCounter registers the event counters on reg. A nil registerer
// defaults to the global one; existing collectors are reused.
func NewEventCounter(reg prometheus.Registerer) (*EventCounter, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	evs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "board_events_total",
		Help: "Board events published, by event name",
	}, []string{"event"})
	cleared := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "board_cleared_items_total",
		Help: "Resources named in assignment-cleared events",
	})
	if err := reg.Register(evs); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		evs = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(cleared); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		cleared = are.ExistingCollector.(prometheus.Counter)
	}
	return &EventCounter{events: evs, cleared: cleared, log: logger.New("event-counter")}, nil
}

// Observe records one event.
func (c *EventCounter) Observe(ev events.Event) {
	c.events.WithLabelValues(ev.Name()).Inc()
	if cl, ok := ev.(events.AssignmentCleared); ok {
		c.cleared.Add(float64(len(cl.ClearedItems)))
	}
}

// Run subscribes to src and counts events until ctx is canceled or the bus
// closes. It returns once the subscription is in place.
func (c *EventCounter) Run(ctx context.Context, src EventSource) {
	if src == nil {
		return
	}
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
				c.Observe(ev)
				c.log.Debugw("board event", map[string]any{"event": ev.Name()})
			}
		}
	}()
}
