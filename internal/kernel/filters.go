package kernel

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"gprcli/internal/capability"
	"gprcli/internal/gather"
)

// maxKernelLength bounds windowed-sinc kernels; narrower transition bands are rejected
const maxKernelLength = 8192

// WindowedSinc applies a Blackman-windowed sinc FIR filter. Parameters:
// cutoff (Hz), bandwidth (transition width, Hz), mode (lowpass|highpass).
// Highpass kernels are built by spectral inversion.
func WindowedSinc(_ context.Context, g *gather.Gather, p gather.Params) error {
	cutoff, err := p.Float("cutoff")
	if err != nil {
		return err
	}
	bandwidth, err := p.Float("bandwidth")
	if err != nil {
		return err
	}
	mode, err := filterMode(p)
	if err != nil {
		return err
	}
	if err := positive("cutoff", cutoff); err != nil {
		return err
	}
	if err := positive("bandwidth", bandwidth); err != nil {
		return err
	}

	dt := sampleInterval(g)
	fc := cutoff * dt
	if fc >= 0.5 {
		return invalid("cutoff %v Hz is above Nyquist for interval %v s", cutoff, dt)
	}
	m := int(math.Ceil(4 / (bandwidth * dt)))
	if m%2 == 1 {
		m++
	}
	if m > maxKernelLength {
		return invalid("transition bandwidth %v Hz needs a %d-tap kernel", bandwidth, m)
	}

	h := sincKernel(fc, m)
	if mode == capability.ModeHighpass {
		floats.Scale(-1, h)
		h[m/2]++
	}
	for _, tr := range g.Data {
		copy(tr, convolveSame(tr, h, false))
	}
	return nil
}

// MovingAverage smooths each trace with a normalized window. Parameters:
// width (odd, samples), kind (boxcar|blackman), mode (lowpass|highpass).
// Highpass returns the trace minus its smoothed version.
func MovingAverage(_ context.Context, g *gather.Gather, p gather.Params) error {
	width, err := p.IntOr("width", 5)
	if err != nil {
		return err
	}
	if width < 1 || width%2 == 0 {
		return invalid("width must be odd and positive, got %d", width)
	}
	kind, err := p.TextOr("kind", capability.KindBoxcar)
	if err != nil {
		return err
	}
	mode, err := filterMode(p)
	if err != nil {
		return err
	}

	var w []float64
	switch kind {
	case capability.KindBoxcar:
		w = make([]float64, width)
		for i := range w {
			w[i] = 1
		}
	case capability.KindBlackman:
		w = blackman(width)
	default:
		return invalid("unknown window kind %q", kind)
	}

	for _, tr := range g.Data {
		smooth := convolveSame(tr, w, true)
		if mode == capability.ModeHighpass {
			floats.Sub(tr, smooth)
		} else {
			copy(tr, smooth)
		}
	}
	return nil
}

// WienerFilter applies a local adaptive Wiener filter along each trace.
// Parameter: window (odd, samples).
func WienerFilter(_ context.Context, g *gather.Gather, p gather.Params) error {
	window, err := p.IntOr("window", 5)
	if err != nil {
		return err
	}
	if window < 1 || window%2 == 0 {
		return invalid("window must be odd and positive, got %d", window)
	}
	half := window / 2

	for _, tr := range g.Data {
		n := len(tr)
		means := make([]float64, n)
		vars := make([]float64, n)
		for i := range tr {
			lo, hi := clip(i-half, n), clip(i+half+1, n)
			means[i], vars[i] = stat.PopMeanVariance(tr[lo:hi], nil)
		}
		noise := stat.Mean(vars, nil)
		for i := range tr {
			if vars[i] > noise {
				tr[i] = means[i] + (vars[i]-noise)/vars[i]*(tr[i]-means[i])
			} else {
				tr[i] = means[i]
			}
		}
	}
	return nil
}

// sincKernel returns a unity-gain lowpass kernel of m+1 taps
func sincKernel(fc float64, m int) []float64 {
	h := make([]float64, m+1)
	w := blackman(m + 1)
	for i := range h {
		x := float64(i - m/2)
		if x == 0 {
			h[i] = 2 * math.Pi * fc
		} else {
			h[i] = math.Sin(2*math.Pi*fc*x) / x
		}
		h[i] *= w[i]
	}
	floats.Scale(1/floats.Sum(h), h)
	return h
}

// blackman returns an n-point Blackman window
func blackman(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	m := float64(n - 1)
	for i := range w {
		x := float64(i)
		w[i] = 0.42 - 0.5*math.Cos(2*math.Pi*x/m) + 0.08*math.Cos(4*math.Pi*x/m)
	}
	return w
}

// convolveSame convolves x with the centred odd-length kernel h and returns a
// result the length of x. With renormalize the weights that fall inside x are
// rescaled to sum to one, so smoothing does not droop at the trace ends.
func convolveSame(x, h []float64, renormalize bool) []float64 {
	n, half := len(x), len(h)/2
	out := make([]float64, n)
	for i := range x {
		var acc, wsum float64
		for k, hk := range h {
			j := i + k - half
			if j < 0 || j >= n {
				continue
			}
			acc += x[j] * hk
			wsum += hk
		}
		if renormalize {
			if wsum != 0 {
				acc /= wsum
			} else {
				acc = x[i]
			}
		}
		out[i] = acc
	}
	return out
}
