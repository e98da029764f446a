package board

import "fmt"

// Relocation selects how a resource already bound elsewhere is moved.
type Relocation string

const (
	// RelocationConfirm asks the Confirmer before breaking a binding.
	RelocationConfirm Relocation = "confirm"
	// RelocationAuto breaks the existing binding without asking.
	RelocationAuto Relocation = "auto"
)

const (
	DefaultMaxEscorts   = 5
	DefaultHistoryLimit = 1000
)

// Config defines board-level limits and policies.
type Config struct {
	MaxEscorts   int        `json:"max_escorts"`
	HistoryLimit int        `json:"history_limit"`
	Relocation   Relocation `json:"relocation"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.MaxEscorts == 0 {
		c.MaxEscorts = DefaultMaxEscorts
	}
	if c.HistoryLimit == 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	if c.Relocation == "" {
		c.Relocation = RelocationConfirm
	}
}

// Validate checks limits and policy names.
func (c Config) Validate() error {
	if c.MaxEscorts < 1 {
		return fmt.Errorf("max_escorts must be positive")
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be positive")
	}
	if c.Relocation != RelocationConfirm && c.Relocation != RelocationAuto {
		return fmt.Errorf("unknown relocation policy %s", c.Relocation)
	}
	return nil
}
