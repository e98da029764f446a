package statestore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetboard/core/model"
	"github.com/kilianp07/fleetboard/core/roster"
)

func testRoster(t *testing.T) *roster.MemoryDirectory {
	t.Helper()
	dir, err := roster.FromData(roster.Data{
		Staff:  []model.StaffMember{{ID: "S1", CanDrive: true}},
		Routes: []model.RouteInfo{{ID: "R1"}},
	})
	require.NoError(t, err)
	return dir
}
