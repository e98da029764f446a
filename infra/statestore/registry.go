package statestore

import (
	"github.com/kilianp07/fleetboard/core/board"
	"github.com/kilianp07/fleetboard/core/factory"
	"github.com/kilianp07/fleetboard/core/logger"
)

const (
	TypeMemory = "memory"
	TypeFile   = "file"
	TypeSQLite = "sqlite"
	TypeBadger = "badger"
)

type pathConf struct {
	Path string `json:"path"`
}

// Registry returns a factory registry with every built-in backend.
func Registry(log logger.Logger) *factory.Registry[board.StateStore] {
	reg := factory.NewRegistry[board.StateStore]()
	_ = reg.Register(TypeMemory, func(map[string]any) (board.StateStore, error) {
		return NewMemory(), nil
	})
	_ = reg.Register(TypeFile, func(conf map[string]any) (board.StateStore, error) {
		c := pathConf{Path: "board-state.json"}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewFile(c.Path), nil
	})
	_ = reg.Register(TypeSQLite, func(conf map[string]any) (board.StateStore, error) {
		c := pathConf{Path: "board.db"}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		s, err := NewSQLite(c.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	_ = reg.Register(TypeBadger, func(conf map[string]any) (board.StateStore, error) {
		c := BadgerConfig{SyncWrites: true}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		b, err := NewBadger(c, log)
		if err != nil {
			return nil, err
		}
		return b, nil
	})
	return reg
}

// Open builds the backend named by cfg. An empty type selects memory.
func Open(cfg factory.ModuleConfig, log logger.Logger) (board.StateStore, error) {
	if cfg.Type == "" {
		cfg.Type = TypeMemory
	}
	return Registry(log).Create(cfg)
}
