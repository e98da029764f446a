package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetboard/core/model"
)

var entries = []model.HistoryEntry{
	{
		ID: "e1", Kind: model.HistoryAssigned, Owner: model.Route("R1"),
		Resources: []string{"S1"}, ResourceType: model.ResourceStaff, Role: model.RoleDriver,
		Timestamp: time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC),
	},
	{
		ID: "e2", Kind: model.HistoryCleared, Owner: model.FieldTrip("FT1"),
		Resources: []string{"S2", "A1"}, Note: "end of day",
		Timestamp: time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC),
	},
}

func TestWriteLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatLines, entries))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var first model.HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, entries[0], first)
	assert.Contains(t, lines[1], `"resources":["S2","A1"]`)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, entries))
	var got []model.HistoryEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, entries, got)
}

func TestWriteEmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.JSONEq(t, "[]", buf.String())
}

func TestWriteUnknownFormat(t *testing.T) {
	require.Error(t, Write(&bytes.Buffer{}, "xml", entries))
}
