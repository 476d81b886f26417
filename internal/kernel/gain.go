package kernel

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"gprcli/internal/gather"
)

// TimeGainControl multiplies sample i of every trace by (i+1)^power
func TimeGainControl(_ context.Context, g *gather.Gather, p gather.Params) error {
	power, err := p.FloatOr("power", 1.0)
	if err != nil {
		return err
	}
	_, n := g.Shape()
	gain := make([]float64, n)
	for i := range gain {
		gain[i] = math.Pow(float64(i+1), power)
	}
	for _, tr := range g.Data {
		floats.Mul(tr, gain)
	}
	return nil
}

// AutoGainControl divides each sample by the RMS amplitude of a centred window
// of the given duration (s)
func AutoGainControl(_ context.Context, g *gather.Gather, p gather.Params) error {
	window, err := p.FloatOr("window", 5e-8)
	if err != nil {
		return err
	}
	if err := positive("window", window); err != nil {
		return err
	}
	half := int(math.Round(window/sampleInterval(g))) / 2

	for _, tr := range g.Data {
		src := append([]float64(nil), tr...)
		for i := range tr {
			lo, hi := clip(i-half, len(src)), clip(i+half+1, len(src))
			seg := src[lo:hi]
			rms := math.Sqrt(floats.Dot(seg, seg) / float64(len(seg)))
			if rms > 0 {
				tr[i] = src[i] / rms
			} else {
				tr[i] = 0
			}
		}
	}
	return nil
}

// Dewow removes low-frequency baseline drift. With a "window" parameter (odd,
// samples) the running mean is subtracted; without it the trace mean is.
func Dewow(_ context.Context, g *gather.Gather, p gather.Params) error {
	if !p.Has("window") {
		for _, tr := range g.Data {
			floats.AddConst(-stat.Mean(tr, nil), tr)
		}
		return nil
	}

	window, err := p.Int("window")
	if err != nil {
		return err
	}
	if window < 1 || window%2 == 0 {
		return invalid("dewow window must be odd and positive, got %d", window)
	}
	for _, tr := range g.Data {
		baseline := runningMean(tr, window/2)
		floats.Sub(tr, baseline)
	}
	return nil
}

// MultiplyAmplitude scales every sample by "factor"
func MultiplyAmplitude(_ context.Context, g *gather.Gather, p gather.Params) error {
	factor, err := p.FloatOr("factor", 2.0)
	if err != nil {
		return err
	}
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return invalid("factor must be finite, got %v", factor)
	}
	g.Scale(factor)
	return nil
}

// ReverseTraces flips the trace order so the line runs last to first
func ReverseTraces(_ context.Context, g *gather.Gather, _ gather.Params) error {
	for i, j := 0, len(g.Data)-1; i < j; i, j = i+1, j-1 {
		g.Data[i], g.Data[j] = g.Data[j], g.Data[i]
	}
	return nil
}

// RemoveRinging subtracts the mean trace, removing reflectors that are
// constant along the whole line such as instrument ringing
func RemoveRinging(_ context.Context, g *gather.Gather, _ gather.Params) error {
	traces, n := g.Shape()
	mean := make([]float64, n)
	for _, tr := range g.Data {
		floats.Add(mean, tr)
	}
	floats.Scale(1/float64(traces), mean)
	for _, tr := range g.Data {
		floats.Sub(tr, mean)
	}
	return nil
}

// RemoveHorizontal subtracts, sample by sample, the running mean over
// "window" neighbouring traces (default 31), suppressing flat reflectors
// while keeping sloped ones
func RemoveHorizontal(_ context.Context, g *gather.Gather, p gather.Params) error {
	window, err := p.IntOr("window", 31)
	if err != nil {
		return err
	}
	if window < 1 || window%2 == 0 {
		return invalid("window must be odd and positive, got %d", window)
	}
	traces, n := g.Shape()
	row := make([]float64, traces)
	for s := 0; s < n; s++ {
		for t := range row {
			row[t] = g.Data[t][s]
		}
		mean := runningMean(row, window/2)
		for t := range row {
			g.Data[t][s] -= mean[t]
		}
	}
	return nil
}

// runningMean averages x over [i-half, i+half], shrinking the window at the ends
func runningMean(x []float64, half int) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		lo, hi := clip(i-half, len(x)), clip(i+half+1, len(x))
		out[i] = stat.Mean(x[lo:hi], nil)
	}
	return out
}

func clip(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
