// Package metrics exposes board metrics over HTTP and forwards history
// entries to time-series backends.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kilianp07/fleetboard/infra/logger"
)

// PromServer serves a Prometheus gatherer on /metrics.
type PromServer struct {
	srv *http.Server
	log logger.Logger
}

// NewPromServer builds a server for addr. A nil gatherer uses the default
// registry.
func NewPromServer(addr string, g prometheus.Gatherer) *PromServer {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return &PromServer{
		srv: &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		log: logger.New("prometheus"),
	}
}

// Handler returns the metrics handler, mostly for tests.
func (p *PromServer) Handler() http.Handler { return p.srv.Handler }

// Serve accepts connections on l until ctx is canceled.
func (p *PromServer) Serve(ctx context.Context, l net.Listener) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := p.srv.Shutdown(shutdownCtx); err != nil {
			p.log.Warnf("prom server shutdown: %v", err)
		}
		cancel()
	}()
	p.log.Infof("serving metrics on %s", l.Addr())
	if err := p.srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartPromServer listens on addr and serves g until ctx is canceled.
func StartPromServer(ctx context.Context, addr string, g prometheus.Gatherer) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return NewPromServer(addr, g).Serve(ctx, l)
}
