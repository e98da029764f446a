package statestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetboard/core/board"
	"github.com/kilianp07/fleetboard/core/factory"
	"github.com/kilianp07/fleetboard/core/model"
	"github.com/kilianp07/fleetboard/infra/logger"
)

func sampleState() board.State {
	at := time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)
	return board.State{
		Routes: map[string]model.Assignment{
			"R1": {Driver: "S1", Escorts: []string{"S2"}, Asset: "A2"},
		},
		FieldTrips: map[string]model.Assignment{
			"FT1": {Escorts: []string{"S3"}, Trailer: "T1"},
		},
		StaffIndex: map[string]model.Binding{
			"S1": {Owner: model.Route("R1"), Role: model.RoleDriver},
			"S2": {Owner: model.Route("R1"), Role: model.RoleEscort},
			"S3": {Owner: model.FieldTrip("FT1"), Role: model.RoleEscort},
		},
		AssetIndex: map[string]model.Binding{
			"A2": {Owner: model.Route("R1"), Role: model.RoleAsset},
			"T1": {Owner: model.FieldTrip("FT1"), Role: model.RoleTrailer},
		},
		History: []model.HistoryEntry{{
			ID: "h1", Kind: model.HistoryAssigned, Owner: model.Route("R1"),
			Resources: []string{"S1"}, ResourceType: model.ResourceStaff, Role: model.RoleDriver, Timestamp: at,
		}},
		SavedAt: at,
	}
}

func backends(t *testing.T) map[string]board.StateStore {
	t.Helper()
	dir := t.TempDir()
	sq, err := NewSQLite(filepath.Join(dir, "board.db"))
	require.NoError(t, err)
	bg, err := NewBadger(BadgerConfig{InMemory: true}, nil)
	require.NoError(t, err)
	stores := map[string]board.StateStore{
		TypeMemory: NewMemory(),
		TypeFile:   NewFile(filepath.Join(dir, "state", "board.json")),
		TypeSQLite: sq,
		TypeBadger: bg,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestBackendsRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			st, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, st, "fresh store must load as empty")

			want := sampleState()
			require.NoError(t, store.Save(ctx, want))
			got, err := store.Load(ctx)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, want.Routes, got.Routes)
			assert.Equal(t, want.FieldTrips, got.FieldTrips)
			assert.Equal(t, want.StaffIndex, got.StaffIndex)
			assert.Equal(t, want.AssetIndex, got.AssetIndex)
			require.Len(t, got.History, 1)
			assert.True(t, want.SavedAt.Equal(got.SavedAt))

			next := sampleState()
			delete(next.Routes, "R1")
			require.NoError(t, store.Save(ctx, next))
			got, err = store.Load(ctx)
			require.NoError(t, err)
			assert.NotContains(t, got.Routes, "R1")
		})
	}
}

func TestMemoryDoesNotShareMaps(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	st := sampleState()
	require.NoError(t, m.Save(ctx, st))
	st.Routes["R1"] = model.Assignment{Driver: "X"}
	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "S1", got.Routes["R1"].Driver)
}

func TestFileCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := NewFile(path).Load(context.Background())
	assert.ErrorContains(t, err, "decode board state")
}

func TestFileSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "board.json"))
	require.NoError(t, f.Save(context.Background(), sampleState()))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "board.json", entries[0].Name())
}

func TestSaveHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, NewFile(filepath.Join(t.TempDir(), "b.json")).Save(ctx, sampleState()))
}

func TestBadgerRequiresPath(t *testing.T) {
	_, err := NewBadger(BadgerConfig{}, nil)
	assert.Error(t, err)
}

func TestBadgerOnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "badger")
	ctx := context.Background()
	b, err := NewBadger(BadgerConfig{Path: dir, SyncWrites: true}, logger.NopLogger{})
	require.NoError(t, err)
	require.NoError(t, b.Save(ctx, sampleState()))
	require.NoError(t, b.Close())

	b, err = NewBadger(BadgerConfig{Path: dir}, logger.NopLogger{})
	require.NoError(t, err)
	defer func() { _ = b.Close() }()
	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "S1", got.Routes["R1"].Driver)
}

func TestOpenByType(t *testing.T) {
	dir := t.TempDir()
	cases := []factory.ModuleConfig{
		{},
		{Type: TypeMemory},
		{Type: TypeFile, Conf: map[string]any{"path": filepath.Join(dir, "b.json")}},
		{Type: TypeSQLite, Conf: map[string]any{"path": filepath.Join(dir, "b.db")}},
		{Type: TypeBadger, Conf: map[string]any{"in_memory": "true"}},
	}
	for _, cfg := range cases {
		st, err := Open(cfg, logger.NopLogger{})
		require.NoError(t, err, cfg.Type)
		require.NoError(t, st.Save(context.Background(), sampleState()))
		require.NoError(t, st.Close())
	}

	_, err := Open(factory.ModuleConfig{Type: "redis"}, nil)
	assert.ErrorIs(t, err, factory.ErrUnknownType)
	assert.Equal(t, []string{TypeBadger, TypeFile, TypeMemory, TypeSQLite}, Registry(nil).Types())
}

func TestEngineFlushesToSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.db")
	store, err := NewSQLite(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	first, err := board.New(board.Config{}, testRoster(t), board.WithStateStore(store))
	require.NoError(t, err)
	require.True(t, first.AssignStaffToRoute(ctx, "R1", "S1", model.RoleDriver).OK)

	second, err := board.New(board.Config{}, testRoster(t), board.WithStateStore(store))
	require.NoError(t, err)
	second.Start(ctx)
	assert.Equal(t, "S1", second.RouteAssignment("R1").Driver)
	assert.Empty(t, second.Verify())
}
