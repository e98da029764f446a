package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetboard/core/model"
)

func TestStoreAssignSetsBothSides(t *testing.T) {
	s := NewStore()
	_, err := s.Assign(model.Route("R1"), model.RoleDriver, "S1")
	require.NoError(t, err)

	assert.Equal(t, "S1", s.Owner(model.Route("R1")).Driver)
	b, ok := s.Lookup(model.Staff("S1"))
	require.True(t, ok)
	assert.Equal(t, model.Binding{Owner: model.Route("R1"), Role: model.RoleDriver}, b)
	assert.Empty(t, s.Verify())
}

func TestStoreAssignSameBindingIsNoop(t *testing.T) {
	s := NewStore()
	_, err := s.Assign(model.FieldTrip("FT1"), model.RoleEscort, "S2")
	require.NoError(t, err)
	_, err = s.Assign(model.FieldTrip("FT1"), model.RoleEscort, "S2")
	require.NoError(t, err)
	assert.Equal(t, []string{"S2"}, s.Owner(model.FieldTrip("FT1")).Escorts)
}

func TestStoreAssignRefusesBoundResource(t *testing.T) {
	s := NewStore()
	_, err := s.Assign(model.Route("R1"), model.RoleDriver, "S1")
	require.NoError(t, err)
	_, err = s.Assign(model.Route("R2"), model.RoleDriver, "S1")
	assert.ErrorIs(t, err, ErrAlreadyBound)
	assert.Equal(t, "", s.Owner(model.Route("R2")).Driver)
	assert.Empty(t, s.Verify())
}

func TestStoreAssignRejectsUnknownRole(t *testing.T) {
	s := NewStore()
	_, err := s.Assign(model.Route("R1"), "pilot", "S1")
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = s.Assign(model.OwnerRef{Kind: "depot", ID: "D"}, model.RoleDriver, "S1")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestStoreAssignDisplacesSlotHolder(t *testing.T) {
	s := NewStore()
	_, err := s.Assign(model.Route("R1"), model.RoleAsset, "A2")
	require.NoError(t, err)
	displaced, err := s.Assign(model.Route("R1"), model.RoleAsset, "A3")
	require.NoError(t, err)
	assert.Equal(t, "A2", displaced)
	_, ok := s.Lookup(model.Asset("A2"))
	assert.False(t, ok)
	assert.Empty(t, s.Verify())
}

func TestStoreDisplacementMatchesClearThenAssign(t *testing.T) {
	r1 := model.Route("R1")
	seed := func() *Store {
		s := NewStore()
		for _, b := range []struct {
			role model.Role
			id   string
		}{{model.RoleDriver, "S1"}, {model.RoleEscort, "S2"}, {model.RoleTrailer, "T1"}} {
			_, err := s.Assign(r1, b.role, b.id)
			require.NoError(t, err)
		}
		return s
	}

	displacing := seed()
	displaced, err := displacing.Assign(r1, model.RoleDriver, "S4")
	require.NoError(t, err)
	assert.Equal(t, "S1", displaced)

	explicit := seed()
	assert.Equal(t, []model.ResourceRef{model.Staff("S1")}, explicit.Clear(r1, model.RoleDriver, "S1"))
	_, err = explicit.Assign(r1, model.RoleDriver, "S4")
	require.NoError(t, err)

	assert.Equal(t, explicit.Snapshot(), displacing.Snapshot())
	assert.Empty(t, displacing.Verify())
}

func TestStoreClearEscorts(t *testing.T) {
	s := NewStore()
	ft := model.FieldTrip("FT1")
	for _, id := range []string{"S2", "S3", "S5"} {
		_, err := s.Assign(ft, model.RoleEscort, id)
		require.NoError(t, err)
	}

	cleared := s.Clear(ft, model.RoleEscort, "S3")
	assert.Equal(t, []model.ResourceRef{model.Staff("S3")}, cleared)
	assert.Equal(t, []string{"S2", "S5"}, s.Owner(ft).Escorts)

	cleared = s.Clear(ft, model.RoleEscort, "")
	assert.Len(t, cleared, 2)
	assert.Empty(t, s.Owner(ft).Escorts)
	sc, _ := s.Counts()
	assert.Zero(t, sc)
	assert.Empty(t, s.Verify())
}

func TestStoreClearAllRoles(t *testing.T) {
	s := NewStore()
	r := model.Route("R1")
	_, _ = s.Assign(r, model.RoleDriver, "S1")
	_, _ = s.Assign(r, model.RoleEscort, "S2")
	_, _ = s.Assign(r, model.RoleAsset, "A2")
	_, _ = s.Assign(r, model.RoleTrailer, "T1")

	cleared := s.Clear(r, "", "")
	assert.Len(t, cleared, 4)
	assert.True(t, s.Owner(r).Empty())
	staff, assets := s.Counts()
	assert.Zero(t, staff)
	assert.Zero(t, assets)
}

func TestStoreClearUnknownOwner(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Clear(model.Route("nope"), "", ""))
	_, created := s.Peek(model.Route("nope"))
	assert.False(t, created)
}

func TestStoreVerifyAndRebuild(t *testing.T) {
	s := NewStore()
	s.Restore(State{
		Routes: map[string]model.Assignment{
			"R1": {Driver: "S1", Escorts: []string{"S2", "S2"}},
			"R2": {Driver: "S1"},
		},
		StaffIndex: map[string]model.Binding{
			"S9": {Owner: model.Route("R3"), Role: model.RoleDriver},
		},
	})
	issues := s.Verify()
	assert.NotEmpty(t, issues)

	s.RebuildIndex()
	assert.Empty(t, s.Verify())
	assert.Equal(t, "S1", s.Owner(model.Route("R1")).Driver)
	assert.Equal(t, "", s.Owner(model.Route("R2")).Driver)
	assert.Equal(t, []string{"S2"}, s.Owner(model.Route("R1")).Escorts)
	_, ok := s.Lookup(model.Staff("S9"))
	assert.False(t, ok)
}

func TestStoreSnapshotIsDeepCopy(t *testing.T) {
	s := NewStore()
	_, _ = s.Assign(model.Route("R1"), model.RoleEscort, "S2")
	st := s.Snapshot()
	rec := st.Routes["R1"]
	rec.Escorts[0] = "X"
	assert.Equal(t, []string{"S2"}, s.Owner(model.Route("R1")).Escorts)

	other := NewStore()
	other.Restore(st)
	assert.NotEmpty(t, other.Verify())
}
