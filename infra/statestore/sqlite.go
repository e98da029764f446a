package statestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/fleetboard/core/board"
)

// SQLite persists the board as a single row in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates the database at path and ensures schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)
	schema := `CREATE TABLE IF NOT EXISTS board_state (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        saved_at INTEGER,
        state TEXT NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(ctx context.Context) (*board.State, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM board_state WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode([]byte(data))
}

func (s *SQLite) Save(ctx context.Context, st board.State) error {
	b, err := encode(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO board_state (id, saved_at, state) VALUES (1, ?, ?)
        ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at, state = excluded.state`,
		st.SavedAt.Unix(), string(b))
	return err
}

// Close closes the underlying database.
func (s *SQLite) Close() error { return s.db.Close() }
