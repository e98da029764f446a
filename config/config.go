// Package config loads the board configuration from a YAML or JSON file with
// BOARD_ environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/fleetboard/core/board"
	"github.com/kilianp07/fleetboard/core/factory"
	"github.com/kilianp07/fleetboard/core/roster"
	"github.com/kilianp07/fleetboard/infra/mqtt"
)

// EnvPrefix marks environment overrides. BOARD_HTTP__ADDR sets http.addr.
const EnvPrefix = "BOARD_"

type Config struct {
	Board   board.Config         `json:"board"`
	Store   factory.ModuleConfig `json:"store"`
	Logging LoggingConfig        `json:"logging"`
	Metrics MetricsConfig        `json:"metrics"`
	MQTT    mqtt.Config          `json:"mqtt"`
	HTTP    HTTPConfig           `json:"http"`
	Roster  roster.Data          `json:"roster"`
}

// Load reads path, applies env overrides, defaults and validation. An empty
// path loads from the environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// The callback turns BOARD_HTTP__ADDR into http.addr; the provider then
	// splits on "." so the key nests under its section.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Board.SetDefaults()
	if c.Store.Type == "" {
		c.Store.Type = "memory"
	}
	c.Logging.SetDefaults()
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
	c.HTTP.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Board.Validate(); err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.MQTT.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	return nil
}
