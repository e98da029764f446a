package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetboard/core/model"
	"github.com/kilianp07/fleetboard/core/roster"
)

var testStaff = []model.StaffMember{
	{ID: "S1", Name: "Ada", CanDrive: true},
	{ID: "S2", Name: "Ben"},
	{ID: "S3", Name: "Cy"},
	{ID: "S4", Name: "Dee", CanDrive: true},
	{ID: "S5", Name: "Eve"},
	{ID: "S6", Name: "Fay"},
	{ID: "S7", Name: "Gus"},
	{ID: "S8", Name: "Hal", Status: model.StaffOutOfService, CanDrive: true},
}

var testAssets = []model.Equipment{
	{ID: "A1", Kind: model.AssetVehicle, Status: model.AssetMaintenance},
	{ID: "A2", Kind: model.AssetVehicle},
	{ID: "A3", Kind: model.AssetVehicle},
	{ID: "T1", Kind: model.AssetTrailer},
}

func testDirectory(t *testing.T) *roster.MemoryDirectory {
	t.Helper()
	dir, err := roster.FromData(roster.Data{
		Staff:      testStaff,
		Assets:     testAssets,
		Routes:     []model.RouteInfo{{ID: "R1"}, {ID: "R2"}, {ID: "R3"}},
		FieldTrips: []model.FieldTripInfo{{ID: "FT1"}, {ID: "FT2"}},
	})
	require.NoError(t, err)
	return dir
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	ResetMetrics(nil)
	t.Cleanup(func() { ResetMetrics(nil) })
	clock := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	opts = append([]Option{WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})}, opts...)
	eng, err := New(Config{}, testDirectory(t), opts...)
	require.NoError(t, err)
	return eng
}

// requireConsistent cross-checks every index direction without relying on
// Store.Verify alone.
func requireConsistent(t *testing.T, e *Engine) {
	t.Helper()
	require.Empty(t, e.Verify())
	refs := map[model.ResourceRef]int{}
	for _, kind := range []model.OwnerKind{model.OwnerRoute, model.OwnerFieldTrip} {
		for id, rec := range e.store.All(kind) {
			owner := model.OwnerRef{Kind: kind, ID: id}
			for _, role := range model.Roles {
				rt, _ := role.ResourceType()
				for _, held := range rec.Holds(role) {
					ref := model.ResourceRef{Type: rt, ID: held}
					refs[ref]++
					b, ok := e.ResourceBinding(ref)
					require.True(t, ok, "missing reverse entry for %s", ref)
					require.Equal(t, model.Binding{Owner: owner, Role: role}, b)
				}
			}
		}
	}
	for ref, n := range refs {
		require.Equal(t, 1, n, "%s referenced %d times", ref, n)
	}
	for _, s := range testStaff {
		if _, ok := e.StaffAssignment(s.ID); ok {
			require.Contains(t, refs, model.Staff(s.ID))
		}
	}
	for _, a := range testAssets {
		if _, ok := e.AssetAssignment(a.ID); ok {
			require.Contains(t, refs, model.Asset(a.ID))
		}
	}
}

// memStateStore records saves and can be told to fail.
type memStateStore struct {
	mu      sync.Mutex
	state   *State
	saves   int
	failOn  error
	loadErr error
}

func (m *memStateStore) Load(context.Context) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.state, nil
}

func (m *memStateStore) Save(_ context.Context, st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != nil {
		return m.failOn
	}
	m.saves++
	m.state = &st
	return nil
}

func (m *memStateStore) Close() error { return nil }

var errDisk = errors.New("disk full")

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
	sev  []Severity
}

func (n *recordingNotifier) Notify(msg string, s Severity) {
	n.mu.Lock()
	n.msgs = append(n.msgs, msg)
	n.sev = append(n.sev, s)
	n.mu.Unlock()
}

type countingConfirmer struct {
	answer bool
	calls  int
	last   string
}

func (c *countingConfirmer) Confirm(_ context.Context, msg string) (bool, error) {
	c.calls++
	c.last = msg
	return c.answer, nil
}
