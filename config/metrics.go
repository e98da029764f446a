package config

import (
	"fmt"

	"github.com/kilianp07/fleetboard/core/factory"
)

// MetricsConfig controls the Prometheus endpoint and the history audit sinks.
type MetricsConfig struct {
	PrometheusEnabled bool                   `json:"prometheus_enabled"`
	PrometheusAddr    string                 `json:"prometheus_addr"`
	Audit             []factory.ModuleConfig `json:"audit"`
}

// SetDefaults applies sane defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":2112"
	}
}

// Validate checks that every audit sink names a type.
func (c MetricsConfig) Validate() error {
	for i, a := range c.Audit {
		if a.Type == "" {
			return fmt.Errorf("audit[%d]: type is required", i)
		}
	}
	return nil
}

// HTTPConfig configures the HTTP API.
type HTTPConfig struct {
	Addr string `json:"addr"`
	// Mode is passed to gin: debug, release or test.
	Mode string `json:"mode"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Mode == "" {
		c.Mode = "release"
	}
}

// Validate checks the mode.
func (c HTTPConfig) Validate() error {
	switch c.Mode {
	case "debug", "release", "test":
		return nil
	}
	return fmt.Errorf("unknown mode %s", c.Mode)
}
