package kernel

import (
	"fmt"
	"math"

	"gprcli/internal/capability"
	"gprcli/internal/gather"
)

// DefaultSampleInterval is used when a gather carries no sample interval (s)
const DefaultSampleInterval = 4e-9

// Register adds every reference kernel to set
func Register(set *capability.Set) error {
	caps := []capability.Capability{
		capability.NewFunc(capability.TimeGainControl, TimeGainControl),
		capability.NewFunc(capability.AutoGainControl, AutoGainControl),
		capability.NewFunc(capability.WindowedSinc, WindowedSinc),
		capability.NewFunc(capability.MovingAverage, MovingAverage),
		capability.NewFunc(capability.RecursiveFilter, RecursiveFilter),
		capability.NewFunc(capability.WienerFilter, WienerFilter),
		capability.NewFunc(capability.Dewow, Dewow),
		capability.NewFunc(capability.RemoveRinging, RemoveRinging),
		capability.NewFunc(capability.RemoveHorizontal, RemoveHorizontal),
		capability.NewFunc(capability.MultiplyAmplitude, MultiplyAmplitude),
		capability.NewFunc(capability.ReverseTraces, ReverseTraces),
	}
	for _, c := range caps {
		if err := set.Register(c); err != nil {
			return fmt.Errorf("failed to register kernel %s: %w", c.Name(), err)
		}
	}
	return nil
}

// NewSet returns a capability set holding the reference kernels
func NewSet() (*capability.Set, error) {
	set := capability.NewSet()
	if err := Register(set); err != nil {
		return nil, err
	}
	return set, nil
}

func sampleInterval(g *gather.Gather) float64 {
	if g.Meta.SampleInterval > 0 {
		return g.Meta.SampleInterval
	}
	return DefaultSampleInterval
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", capability.ErrInvalidParam, fmt.Sprintf(format, args...))
}

func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return invalid("%s must be positive, got %v", name, v)
	}
	return nil
}

func filterMode(p gather.Params) (string, error) {
	mode, err := p.TextOr("mode", capability.ModeLowpass)
	if err != nil {
		return "", err
	}
	if mode != capability.ModeLowpass && mode != capability.ModeHighpass {
		return "", invalid("unknown filter mode %q", mode)
	}
	return mode, nil
}
