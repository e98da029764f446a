package statestore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/kilianp07/fleetboard/core/board"
	"github.com/kilianp07/fleetboard/core/logger"
)

var stateKey = []byte("board/state")

// BadgerConfig holds options for the BadgerDB backend.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path       string `json:"path"`
	InMemory   bool   `json:"in_memory"`
	SyncWrites bool   `json:"sync_writes"`
}

// Badger keeps the encoded board under a single key.
type Badger struct {
	db *badger.DB
}

// badgerLogger routes BadgerDB's internal logging to the board logger.
type badgerLogger struct{ log logger.Logger }

func (l badgerLogger) Errorf(f string, args ...any)   { l.log.Errorf(f, args...) }
func (l badgerLogger) Warningf(f string, args ...any) { l.log.Warnf(f, args...) }
func (l badgerLogger) Infof(f string, args ...any)    { l.log.Debugf(f, args...) }
func (l badgerLogger) Debugf(f string, args ...any)   { l.log.Debugf(f, args...) }

// NewBadger opens the database described by cfg. log may be nil to silence
// BadgerDB.
func NewBadger(cfg BadgerConfig, log logger.Logger) (*Badger, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badger: path is required for persistent database")
	}
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if log != nil {
		opts = opts.WithLogger(badgerLogger{log: log})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Load(context.Context) (*board.State, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(stateKey)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("badger load: %w", err)
	}
	return decode(data)
}

func (b *Badger) Save(ctx context.Context, st board.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(st)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(stateKey, data)
	})
}

func (b *Badger) Close() error { return b.db.Close() }
