package gather

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrEmpty is returned when a gather has no traces or no samples
	ErrEmpty = errors.New("gather has no data")

	// ErrShape is returned when arrays do not share the gather's shape
	ErrShape = errors.New("array shape mismatch")
)

// Metadata carries the acquisition parameters kernels need
type Metadata struct {
	Line           string  `json:"line"`
	SampleInterval float64 `json:"sample_interval"` // seconds
	TraceSpacing   float64 `json:"trace_spacing"`   // metres
}

// Record is one history entry: the primitive that ran and its resolved params
type Record struct {
	Name   string `json:"name"`
	Params Params `json:"params,omitempty"`
}

// String renders the record as name(k=v, ...)
func (r Record) String() string {
	return fmt.Sprintf("%s(%s)", r.Name, r.Params.Pretty())
}

// Gather is a radar line held in memory as a trace x sample array
type Gather struct {
	Meta    Metadata
	Data    [][]float64
	History []Record
}

// New wraps data in a Gather. Data is not copied; it must be rectangular and
// non-empty.
func New(data [][]float64, meta Metadata) (*Gather, error) {
	if _, _, err := shapeOf(data); err != nil {
		return nil, err
	}
	return &Gather{Meta: meta, Data: data}, nil
}

// Shape returns the number of traces and samples per trace
func (g *Gather) Shape() (traces, samples int) {
	if len(g.Data) == 0 {
		return 0, 0
	}
	return len(g.Data), len(g.Data[0])
}

// Append adds a record to the history
func (g *Gather) Append(rec Record) {
	g.History = append(g.History, Record{Name: rec.Name, Params: rec.Params.Clone()})
}

// HistoryString renders the history one record per line
func (g *Gather) HistoryString() string {
	lines := make([]string, 0, len(g.History))
	for i, rec := range g.History {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, rec))
	}
	return strings.Join(lines, "\n")
}

// Snapshot returns a deep copy of the data array
func (g *Gather) Snapshot() [][]float64 {
	return Copy(g.Data)
}

// Replace swaps in a new data array of the same shape
func (g *Gather) Replace(data [][]float64) error {
	if err := sameShape(g.Data, data); err != nil {
		return err
	}
	g.Data = data
	return nil
}

// PeakToPeak returns max - min over the whole array
func (g *Gather) PeakToPeak() float64 {
	return PeakToPeak(g.Data)
}

// Scale multiplies every sample by f
func (g *Gather) Scale(f float64) {
	for _, tr := range g.Data {
		floats.Scale(f, tr)
	}
}

// Map applies fn to every sample in place
func (g *Gather) Map(fn func(float64) float64) {
	for _, tr := range g.Data {
		for i, v := range tr {
			tr[i] = fn(v)
		}
	}
}

// Abs replaces every sample with its magnitude
func (g *Gather) Abs() {
	g.Map(math.Abs)
}

// Copy deep-copies a trace array
func Copy(data [][]float64) [][]float64 {
	out := make([][]float64, len(data))
	for i, tr := range data {
		out[i] = make([]float64, len(tr))
		copy(out[i], tr)
	}
	return out
}

// PeakToPeak returns max - min over data. NaN anywhere yields NaN; an empty
// array yields 0.
func PeakToPeak(data [][]float64) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	seen := false
	for _, tr := range data {
		if len(tr) == 0 {
			continue
		}
		if floats.HasNaN(tr) {
			return math.NaN()
		}
		seen = true
		lo = math.Min(lo, floats.Min(tr))
		hi = math.Max(hi, floats.Max(tr))
	}
	if !seen {
		return 0
	}
	return hi - lo
}

// Residual returns a - b elementwise
func Residual(a, b [][]float64) ([][]float64, error) {
	if err := sameShape(a, b); err != nil {
		return nil, err
	}
	out := make([][]float64, len(a))
	for i := range a {
		out[i] = make([]float64, len(a[i]))
		floats.SubTo(out[i], a[i], b[i])
	}
	return out, nil
}

// AllFinite reports whether every sample is neither NaN nor infinite
func AllFinite(data [][]float64) bool {
	for _, tr := range data {
		for _, v := range tr {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

func shapeOf(data [][]float64) (int, int, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return 0, 0, ErrEmpty
	}
	n := len(data[0])
	for i, tr := range data {
		if len(tr) != n {
			return 0, 0, fmt.Errorf("%w: trace %d has %d samples, want %d", ErrShape, i, len(tr), n)
		}
	}
	return len(data), n, nil
}

func sameShape(a, b [][]float64) error {
	if len(a) != len(b) {
		return fmt.Errorf("%w: %d traces vs %d", ErrShape, len(a), len(b))
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return fmt.Errorf("%w: trace %d has %d samples vs %d", ErrShape, i, len(a[i]), len(b[i]))
		}
	}
	return nil
}
