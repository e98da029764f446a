// Package app wires the board engine to its stores, sinks and servers.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kilianp07/fleetboard/api/assignments"
	"github.com/kilianp07/fleetboard/config"
	"github.com/kilianp07/fleetboard/core/board"
	"github.com/kilianp07/fleetboard/core/events"
	"github.com/kilianp07/fleetboard/core/roster"
	"github.com/kilianp07/fleetboard/infra/logger"
	"github.com/kilianp07/fleetboard/infra/metrics"
	"github.com/kilianp07/fleetboard/infra/mqtt"
	"github.com/kilianp07/fleetboard/infra/statestore"
	"github.com/kilianp07/fleetboard/internal/eventbus"
)

// Service owns the engine and everything attached to it.
type Service struct {
	Engine *board.Engine
	Roster *roster.MemoryDirectory

	cfg     *config.Config
	store   board.StateStore
	audit   board.AuditSink
	bus     *eventbus.TypedBus[events.Event]
	mqtt    *mqtt.Client
	counter *metrics.EventCounter
	log     logger.Logger
}

// Option adjusts how the engine is built.
type Option func(*options)

type options struct {
	engine []board.Option
	audit  board.AuditSink
}

// WithAuditSink replaces the sinks named in metrics.audit.
func WithAuditSink(a board.AuditSink) Option {
	return func(o *options) { o.audit = a }
}

// WithConfirmer sets the engine's default conflict decision.
func WithConfirmer(c board.Confirmer) Option {
	return func(o *options) { o.engine = append(o.engine, board.WithConfirmer(c)) }
}

// WithNotifier routes operator notifications to n.
func WithNotifier(n board.Notifier) Option {
	return func(o *options) { o.engine = append(o.engine, board.WithNotifier(n)) }
}

// New creates a Service from the configuration. Nothing runs until Start.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	logger.SetLevel(cfg.Logging.Level)
	logg := logger.New("service")
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	dir, err := roster.FromData(cfg.Roster)
	if err != nil {
		return nil, err
	}
	store, err := statestore.Open(cfg.Store, logger.New("statestore"))
	if err != nil {
		return nil, fmt.Errorf("state store: %w", err)
	}
	audit := o.audit
	if audit == nil {
		if audit, err = metrics.NewAuditSink(cfg.Metrics.Audit); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("audit sink: %w", err)
		}
	}
	svc := &Service{
		Roster: dir,
		cfg:    cfg,
		store:  store,
		audit:  audit,
		bus:    eventbus.NewTyped[events.Event](eventbus.WithBuffer(64)),
		log:    logg,
	}
	// From here on every failure releases through Close.
	if svc.counter, err = metrics.NewEventCounter(nil); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("event counter: %w", err)
	}
	if cfg.MQTT.Enabled {
		if svc.mqtt, err = mqtt.NewClient(cfg.MQTT); err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
	}

	engOpts := append([]board.Option{
		board.WithStateStore(store),
		board.WithAuditSink(audit),
		board.WithBus(svc.bus),
		board.WithLogger(logger.New("board")),
		board.WithNotifier(logNotifier{log: logger.New("notify")}),
	}, o.engine...)
	eng, err := board.New(cfg.Board, dir, engOpts...)
	if err != nil {
		_ = svc.Close()
		return nil, err
	}
	svc.Engine = eng
	return svc, nil
}

// Start attaches the event consumers and loads the persisted board.
func (s *Service) Start(ctx context.Context) events.AssignmentsReady {
	s.counter.Run(ctx, s.Engine)
	if s.mqtt != nil {
		mqtt.NewEventPublisher(s.mqtt, s.cfg.MQTT.TopicPrefix).Run(ctx, s.Engine)
	}
	ready := s.Engine.Start(ctx)
	s.log.Infof("board ready: %d routes, %d field trips", ready.Routes, ready.FieldTrips)
	return ready
}

// Run starts the service and serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	s.Start(ctx)
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr, nil); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	gin.SetMode(s.cfg.HTTP.Mode)
	srv := &http.Server{
		Addr:              s.cfg.HTTP.Addr,
		Handler:           assignments.NewRouter(s.Engine),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warnf("http shutdown: %v", err)
		}
	}()
	s.log.Infof("serving board API on %s", s.cfg.HTTP.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops event delivery and releases the store and broker connection.
func (s *Service) Close() error {
	s.bus.Close()
	if s.mqtt != nil {
		s.mqtt.Disconnect()
	}
	if c, ok := s.audit.(interface{ Close() }); ok {
		c.Close()
	}
	return s.store.Close()
}

// logNotifier writes operator notifications to the log when no terminal
// is attached.
type logNotifier struct{ log logger.Logger }

func (n logNotifier) Notify(message string, severity board.Severity) {
	switch severity {
	case board.SeverityError:
		n.log.Errorf("%s", message)
	case board.SeverityWarning:
		n.log.Warnf("%s", message)
	default:
		n.log.Infof("%s", message)
	}
}
