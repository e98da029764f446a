package metrics

import (
	"github.com/kilianp07/fleetboard/core/board"
	"github.com/kilianp07/fleetboard/core/factory"
)

// AuditRegistry returns the built-in audit sinks: "nop" and "influx".
func AuditRegistry() *factory.Registry[board.AuditSink] {
	reg := factory.NewRegistry[board.AuditSink]()
	_ = reg.Register("nop", func(map[string]any) (board.AuditSink, error) {
		return board.NopSink{}, nil
	})
	_ = reg.Register("influx", func(conf map[string]any) (board.AuditSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})
	return reg
}

// NewAuditSink builds every configured sink and combines them. No modules
// yields a NopSink.
func NewAuditSink(mods []factory.ModuleConfig) (board.AuditSink, error) {
	if len(mods) == 0 {
		return board.NopSink{}, nil
	}
	reg := AuditRegistry()
	sinks := make([]board.AuditSink, 0, len(mods))
	for _, m := range mods {
		s, err := reg.Create(m)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return NewMultiSink(sinks...), nil
}
