package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gprcli/internal/gather"
)

func TestWriteGather(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	m := NewManager(out)

	g, err := gather.New([][]float64{{1, 2}, {3, 4}}, gather.Metadata{Line: "L1", SampleInterval: 4e-9})
	require.NoError(t, err)
	g.Append(gather.Record{Name: "dewow"})

	path, err := m.WriteGather("L1", g)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "L1.json"), path)

	loaded, err := gather.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, g.Data, loaded.Data)
	assert.Equal(t, "L1", loaded.Meta.Line)
	require.Len(t, loaded.History, 1)
	assert.Equal(t, "dewow", loaded.History[0].Name)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteGatherOverwrites(t *testing.T) {
	m := NewManager(t.TempDir())
	g1, _ := gather.New([][]float64{{1}}, gather.Metadata{})
	g2, _ := gather.New([][]float64{{2}}, gather.Metadata{})

	_, err := m.WriteGather("x", g1)
	require.NoError(t, err)
	path, err := m.WriteGather("x", g2)
	require.NoError(t, err)

	loaded, err := gather.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2}}, loaded.Data)
}
