package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleResourceType(t *testing.T) {
	cases := map[Role]ResourceType{
		RoleDriver:  ResourceStaff,
		RoleEscort:  ResourceStaff,
		RoleAsset:   ResourceAsset,
		RoleTrailer: ResourceAsset,
	}
	for role, want := range cases {
		got, ok := role.ResourceType()
		assert.True(t, ok, role)
		assert.Equal(t, want, got, role)
	}
	_, ok := Role("pilot").ResourceType()
	assert.False(t, ok)
}

func TestDefaultRole(t *testing.T) {
	assert.Equal(t, RoleDriver, DefaultRole(ResourceStaff))
	assert.Equal(t, RoleAsset, DefaultRole(ResourceAsset))
}

func TestAssignmentHoldsAndClone(t *testing.T) {
	a := Assignment{Driver: "S1", Escorts: []string{"S2", "S3"}, Trailer: "T1"}
	assert.Equal(t, []string{"S1"}, a.Holds(RoleDriver))
	assert.Equal(t, []string{"S2", "S3"}, a.Holds(RoleEscort))
	assert.Nil(t, a.Holds(RoleAsset))
	assert.Equal(t, []string{"T1"}, a.Holds(RoleTrailer))

	c := a.Clone()
	c.Escorts[0] = "X"
	assert.Equal(t, "S2", a.Escorts[0])
	assert.False(t, a.Empty())
	assert.True(t, Assignment{}.Empty())
	assert.NotNil(t, Assignment{}.Clone().Escorts)
}

func TestOwnerRefString(t *testing.T) {
	assert.Equal(t, "route R1", Route("R1").String())
	assert.Equal(t, "field trip FT1", FieldTrip("FT1").String())
	assert.True(t, OwnerRoute.Valid())
	assert.False(t, OwnerKind("bus").Valid())
}
