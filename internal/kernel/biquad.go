package kernel

import (
	"context"
	"math"
	"math/cmplx"

	"gprcli/internal/capability"
	"gprcli/internal/gather"
)

const (
	// PassbandRipple is the largest attenuation (dB) allowed at the passband edge
	PassbandRipple = 1.0
	// StopbandAttenuation is the smallest attenuation (dB) required at the
	// stopband edge, per filtering pass
	StopbandAttenuation = 40.0
	// MaxRecursiveOrder bounds the designed filter order
	MaxRecursiveOrder = 24
)

// section is a normalized biquad run in Direct Form II Transposed. A
// first-order section has b2 = a2 = 0.
type section struct {
	b0, b1, b2 float64
	a1, a2     float64
}

func (s section) process(x []float64) {
	var z1, z2 float64
	for i, v := range x {
		y := s.b0*v + z1
		z1 = s.b1*v - s.a1*y + z2
		z2 = s.b2*v - s.a2*y
		x[i] = y
	}
}

// cascade is a chain of sections applied in order
type cascade []section

func (c cascade) process(x []float64) {
	for _, s := range c {
		s.process(x)
	}
}

// filterOrder is the smallest order meeting PassbandRipple at the passband
// edge and StopbandAttenuation at the stopband edge. ratio is the prewarped
// stopband/passband edge ratio (> 1).
func filterOrder(ftype string, ratio float64) int {
	d := math.Sqrt((math.Pow(10, StopbandAttenuation/10) - 1) / (math.Pow(10, PassbandRipple/10) - 1))
	var n float64
	if ftype == capability.FilterCheby1 {
		n = math.Acosh(d) / math.Acosh(ratio)
	} else {
		n = math.Log(d) / math.Log(ratio)
	}
	return int(math.Ceil(n - 1e-9))
}

// prototypePoles returns the upper half-plane analog poles, plus the real pole
// for odd orders, of a lowpass prototype with its passband edge at 1 rad/s
func prototypePoles(ftype string, n int) []complex128 {
	eps2 := math.Pow(10, PassbandRipple/10) - 1
	poles := make([]complex128, 0, (n+1)/2)
	if ftype == capability.FilterCheby1 {
		mu := math.Asinh(1/math.Sqrt(eps2)) / float64(n)
		for k := 0; 2*k+1 <= n; k++ {
			theta := math.Pi * float64(2*k+1) / float64(2*n)
			re := -math.Sinh(mu) * math.Sin(theta)
			im := math.Cosh(mu) * math.Cos(theta)
			if 2*k+1 == n {
				im = 0
			}
			poles = append(poles, complex(re, im))
		}
		return poles
	}
	wc := math.Pow(eps2, -1/float64(2*n))
	for k := 0; 2*k+1 <= n; k++ {
		theta := math.Pi * float64(2*k+n+1) / float64(2*n)
		p := cmplx.Rect(wc, theta)
		if 2*k+1 == n {
			p = complex(-wc, 0)
		}
		poles = append(poles, p)
	}
	return poles
}

// designRecursive builds a Butterworth or Chebyshev type I cascade with the
// bilinear transform. pass and stop are normalized edge frequencies in
// cycles/sample; pass > stop gives a highpass.
func designRecursive(ftype string, pass, stop float64) (cascade, error) {
	wp := math.Tan(math.Pi * pass)
	ws := math.Tan(math.Pi * stop)
	highpass := pass > stop
	ratio := ws / wp
	if highpass {
		ratio = wp / ws
	}

	n := filterOrder(ftype, ratio)
	if n < 1 {
		n = 1
	}
	if n > MaxRecursiveOrder {
		return nil, invalid("transition band %v..%v is too narrow: needs order %d, limit %d", pass, stop, n, MaxRecursiveOrder)
	}

	var out cascade
	for _, q := range prototypePoles(ftype, n) {
		p := complex(wp, 0) * q
		if highpass {
			p = complex(wp, 0) / q
		}
		z := (1 + p) / (1 - p)

		var s section
		if imag(q) == 0 {
			s.a1 = -real(z)
			if highpass {
				g := (1 - s.a1) / 2
				s.b0, s.b1 = g, -g
			} else {
				g := (1 + s.a1) / 2
				s.b0, s.b1 = g, g
			}
		} else {
			s.a1 = -2 * real(z)
			s.a2 = real(z)*real(z) + imag(z)*imag(z)
			if highpass {
				g := (1 - s.a1 + s.a2) / 4
				s.b0, s.b1, s.b2 = g, -2*g, g
			} else {
				g := (1 + s.a1 + s.a2) / 4
				s.b0, s.b1, s.b2 = g, 2*g, g
			}
		}
		out = append(out, s)
	}

	// Even-order Chebyshev filters sit at the bottom of the ripple at DC
	// (lowpass) or Nyquist (highpass).
	if ftype == capability.FilterCheby1 && n%2 == 0 {
		r := 1 / math.Sqrt(math.Pow(10, PassbandRipple/10))
		out[0].b0 *= r
		out[0].b1 *= r
		out[0].b2 *= r
	}
	return out, nil
}

// RecursiveFilter applies a zero-phase (forward-backward) IIR filter.
// Parameters: passband and stopband edges (Hz) and ftype (butter|cheby1). A
// passband edge below the stopband edge gives a lowpass, above it a
// highpass. The order is the smallest meeting PassbandRipple and
// StopbandAttenuation at the two edges.
func RecursiveFilter(_ context.Context, g *gather.Gather, p gather.Params) error {
	pass, err := p.Float("passband")
	if err != nil {
		return err
	}
	stop, err := p.Float("stopband")
	if err != nil {
		return err
	}
	ftype, err := p.TextOr("ftype", capability.FilterButter)
	if err != nil {
		return err
	}
	if ftype != capability.FilterButter && ftype != capability.FilterCheby1 {
		return invalid("unknown filter prototype %q", ftype)
	}
	if err := positive("passband", pass); err != nil {
		return err
	}
	if err := positive("stopband", stop); err != nil {
		return err
	}
	if pass == stop {
		return invalid("passband and stopband edges coincide at %v Hz", pass)
	}

	dt := sampleInterval(g)
	if math.Max(pass, stop)*dt >= 0.5 {
		return invalid("filter edges %v Hz and %v Hz must lie below Nyquist for interval %v s", pass, stop, dt)
	}
	filter, err := designRecursive(ftype, pass*dt, stop*dt)
	if err != nil {
		return err
	}

	for _, tr := range g.Data {
		filter.process(tr)
		reverse(tr)
		filter.process(tr)
		reverse(tr)
	}
	return nil
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
