package gather

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGather(t *testing.T) *Gather {
	t.Helper()
	g, err := New([][]float64{
		{1, -2, 3},
		{0, 4, -1},
	}, Metadata{Line: "L1", SampleInterval: 4e-9, TraceSpacing: 1})
	require.NoError(t, err)
	return g
}

func TestNewValidatesShape(t *testing.T) {
	tests := []struct {
		name    string
		data    [][]float64
		wantErr error
	}{
		{name: "nil data", data: nil, wantErr: ErrEmpty},
		{name: "empty trace", data: [][]float64{{}}, wantErr: ErrEmpty},
		{name: "ragged", data: [][]float64{{1, 2}, {3}}, wantErr: ErrShape},
		{name: "rectangular", data: [][]float64{{1, 2}, {3, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.data, Metadata{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, g)
				return
			}
			require.NoError(t, err)
			traces, samples := g.Shape()
			assert.Equal(t, 2, traces)
			assert.Equal(t, 2, samples)
		})
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	g := newTestGather(t)
	snap := g.Snapshot()
	g.Data[0][0] = 99
	assert.Equal(t, 1.0, snap[0][0])
}

func TestPeakToPeak(t *testing.T) {
	g := newTestGather(t)
	assert.Equal(t, 6.0, g.PeakToPeak())

	assert.Equal(t, 0.0, PeakToPeak(nil))
	assert.True(t, math.IsNaN(PeakToPeak([][]float64{{1, math.NaN()}})))
}

func TestResidual(t *testing.T) {
	a := [][]float64{{3, 3}, {1, 1}}
	b := [][]float64{{1, 2}, {1, 0}}

	got, err := Residual(a, b)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2, 1}, {0, 1}}, got)

	_, err = Residual(a, [][]float64{{1}})
	assert.ErrorIs(t, err, ErrShape)
}

func TestScaleAndAbs(t *testing.T) {
	g := newTestGather(t)
	g.Scale(2)
	assert.Equal(t, []float64{2, -4, 6}, g.Data[0])

	g.Abs()
	assert.Equal(t, []float64{0, 8, 2}, g.Data[1])
}

func TestReplaceRejectsResize(t *testing.T) {
	g := newTestGather(t)
	err := g.Replace([][]float64{{1, 2, 3}})
	assert.ErrorIs(t, err, ErrShape)
	assert.Len(t, g.Data, 2)
}

func TestAppendCopiesParams(t *testing.T) {
	g := newTestGather(t)
	params := Params{KV("power", 1.0)}
	g.Append(Record{Name: "time-gain-control", Params: params})
	params[0].Value = 5.0

	require.Len(t, g.History, 1)
	assert.Equal(t, "time-gain-control(power=1)", g.History[0].String())
	assert.Equal(t, "1. time-gain-control(power=1)", g.HistoryString())
}

func TestAllFinite(t *testing.T) {
	assert.True(t, AllFinite([][]float64{{1, 2}}))
	assert.False(t, AllFinite([][]float64{{1, math.Inf(1)}}))
	assert.False(t, AllFinite([][]float64{{math.NaN()}}))
}

func TestDocumentRoundTrip(t *testing.T) {
	g := newTestGather(t)
	g.Append(Record{Name: "dewow"})

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, g))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.Meta, loaded.Meta)
	assert.Equal(t, g.Data, loaded.Data)
	require.Len(t, loaded.History, 1)
	assert.Equal(t, "dewow", loaded.History[0].Name)
}

func TestDocumentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line.json")
	g := newTestGather(t)
	require.NoError(t, SaveFile(path, g))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "L1", loaded.Meta.Line)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadRejectsRaggedDocument(t *testing.T) {
	_, err := Load(bytes.NewBufferString(`{"line":"bad","data":[[1,2],[3]]}`))
	assert.ErrorIs(t, err, ErrShape)
}
