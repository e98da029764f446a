package board

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetboard/core/model"
)

func TestResolverFindConflicts(t *testing.T) {
	s := NewStore()
	r := NewResolver(s)
	_, err := s.Assign(model.Route("R1"), model.RoleDriver, "S1")
	require.NoError(t, err)

	conflicts, bound := r.FindConflicts(model.Staff("S1"), model.Route("R1"), model.RoleDriver)
	assert.True(t, bound)
	assert.Empty(t, conflicts)

	conflicts, bound = r.FindConflicts(model.Staff("S1"), model.Route("R1"), model.RoleEscort)
	assert.False(t, bound)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "staff S1 is already the driver on route R1", conflicts[0].String())

	conflicts, _ = r.FindConflicts(model.Staff("S2"), model.Route("R1"), model.RoleEscort)
	assert.Empty(t, conflicts)
}

func TestResolverPrompt(t *testing.T) {
	r := NewResolver(NewStore())
	msg := r.Prompt([]Conflict{{
		Resource: model.Asset("A2"),
		Current:  model.Binding{Owner: model.FieldTrip("FT1"), Role: model.RoleAsset},
	}}, model.Route("R2"), model.RoleAsset)
	assert.Equal(t, "asset A2 is already the vehicle on field trip FT1. Reassign to route R2 as asset?", msg)
}

func TestResolverDecide(t *testing.T) {
	r := NewResolver(NewStore())

	yes, err := r.Decide(context.Background(), StaticConfirmer(true), "ok?")
	require.NoError(t, err)
	assert.True(t, yes)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &countingConfirmer{answer: true}
	yes, err = r.Decide(ctx, c, "ok?")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, yes)
	assert.Zero(t, c.calls)

	boom := errors.New("prompt closed")
	yes, err = r.Decide(context.Background(), ConfirmFunc(func(context.Context, string) (bool, error) {
		return true, boom
	}), "ok?")
	assert.ErrorIs(t, err, boom)
	assert.False(t, yes)
}

func TestResolverRelease(t *testing.T) {
	s := NewStore()
	r := NewResolver(s)
	_, _ = s.Assign(model.FieldTrip("FT1"), model.RoleEscort, "S2")
	_, _ = s.Assign(model.FieldTrip("FT1"), model.RoleEscort, "S3")

	conflicts, _ := r.FindConflicts(model.Staff("S2"), model.Route("R1"), model.RoleEscort)
	released := r.Release(conflicts)
	assert.Equal(t, []model.ResourceRef{model.Staff("S2")}, released)
	assert.Equal(t, []string{"S3"}, s.Owner(model.FieldTrip("FT1")).Escorts)
	assert.Empty(t, s.Verify())
}
