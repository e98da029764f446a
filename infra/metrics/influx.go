package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/fleetboard/core/board"
	"github.com/kilianp07/fleetboard/core/model"
	"github.com/kilianp07/fleetboard/infra/logger"
)

// InfluxConfig points at an InfluxDB v2 bucket.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes board history entries as "board_history" points.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the configured endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings InfluxDB first and returns a NopSink when
// the instance is not healthy.
func NewInfluxSinkWithFallback(cfg InfluxConfig) board.AuditSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return board.NopSink{}
	}
	return sink
}

// RecordHistory writes one point per entry.
func (s *InfluxSink) RecordHistory(entries []model.HistoryEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, e := range entries {
		if err := s.writeAPI.WritePoint(ctx, historyPoint(e)); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

func historyPoint(e model.HistoryEntry) *write.Point {
	p := write.NewPointWithMeasurement("board_history").
		AddTag("kind", string(e.Kind)).
		AddTag("component", "board")
	if e.Owner.Kind != "" {
		p = p.AddTag("owner_kind", string(e.Owner.Kind)).AddTag("owner_id", e.Owner.ID)
	}
	if e.Role != "" {
		p = p.AddTag("role", string(e.Role))
	}
	if e.ResourceType != "" {
		p = p.AddTag("resource_type", string(e.ResourceType))
	}
	p = p.AddField("entry_id", e.ID).
		AddField("resources", strings.Join(e.Resources, ",")).
		AddField("count", len(e.Resources))
	if e.Note != "" {
		p = p.AddField("note", e.Note)
	}
	return p.SetTime(e.Timestamp)
}
