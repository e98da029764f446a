package factory

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sink struct {
	Path    string
	Timeout time.Duration
	Sync    bool
}

type sinkConf struct {
	Path    string        `json:"path"`
	Timeout time.Duration `json:"timeout"`
	Sync    bool          `json:"sync"`
}

func newSink(conf map[string]any) (*sink, error) {
	var c sinkConf
	if err := Decode(conf, &c); err != nil {
		return nil, err
	}
	return &sink{Path: c.Path, Timeout: c.Timeout, Sync: c.Sync}, nil
}

func TestRegistryCreate(t *testing.T) {
	reg := NewRegistry[*sink]()
	require.NoError(t, reg.Register("file", newSink))

	inst, err := reg.Create(ModuleConfig{Type: "file", Conf: map[string]any{
		"path": "board.json", "timeout": "2s", "sync": "true",
	}})
	require.NoError(t, err)
	assert.Equal(t, "board.json", inst.Path)
	assert.Equal(t, 2*time.Second, inst.Timeout)
	assert.True(t, inst.Sync)
}

func TestRegistryCreateWithoutConf(t *testing.T) {
	reg := NewRegistry[*sink]()
	require.NoError(t, reg.Register("memory", newSink))
	inst, err := reg.Create(ModuleConfig{Type: "memory"})
	require.NoError(t, err)
	assert.Empty(t, inst.Path)
}

func TestRegistryErrors(t *testing.T) {
	reg := NewRegistry[int]()
	require.NoError(t, reg.Register("x", func(map[string]any) (int, error) { return 1, nil }))
	assert.Error(t, reg.Register("x", func(map[string]any) (int, error) { return 2, nil }))
	assert.Error(t, reg.Register("y", nil))

	_, err := reg.Create(ModuleConfig{Type: "z"})
	assert.True(t, errors.Is(err, ErrUnknownType))
	assert.Contains(t, err.Error(), "[x]")
	assert.Equal(t, []string{"x"}, reg.Types())
}
