package recipe

import (
	"context"
	"fmt"
	"math"

	"gprcli/internal/capability"
	"gprcli/internal/gather"
)

const (
	// EnhancementRounds is the number of residual rounds engc runs
	EnhancementRounds = 5
	// SmoothingWidth is the boxcar width of the final engc smoothing pass
	SmoothingWidth = 5
)

// BandEdge is a windowed-sinc cutoff and transition bandwidth, in Hz
type BandEdge struct {
	Cutoff    float64
	Bandwidth float64
}

// ResidualRound extracts the part of a gather that a band-limiting pass
// removes, dewows it and rescales it to the input's peak-to-peak range.
type ResidualRound struct {
	Highpass BandEdge
	Lowpass  BandEdge
}

// DefaultResidualRound returns the 40 MHz highpass / 100 MHz lowpass round
func DefaultResidualRound() ResidualRound {
	return ResidualRound{
		Highpass: BandEdge{Cutoff: 40e6, Bandwidth: 5e6},
		Lowpass:  BandEdge{Cutoff: 100e6, Bandwidth: 20e6},
	}
}

// Bandlimit runs the highpass then the lowpass windowed-sinc pass
func (r ResidualRound) Bandlimit(ctx context.Context, inv Invoker, g *gather.Gather) error {
	if err := inv.Invoke(ctx, g, capability.WindowedSinc, sincParams(r.Highpass, capability.ModeHighpass)); err != nil {
		return err
	}
	return inv.Invoke(ctx, g, capability.WindowedSinc, sincParams(r.Lowpass, capability.ModeLowpass))
}

// Run performs one round in place. If the dewowed residual has no usable
// range the rescale is skipped and ErrDegenerateRange is returned; the gather
// then holds the finite, unscaled residual.
func (r ResidualRound) Run(ctx context.Context, inv Invoker, g *gather.Gather) error {
	before := g.Snapshot()
	if err := r.Bandlimit(ctx, inv, g); err != nil {
		return err
	}

	residual, err := gather.Residual(before, g.Data)
	if err != nil {
		return err
	}
	if err := g.Replace(residual); err != nil {
		return err
	}
	if err := inv.Invoke(ctx, g, capability.Dewow, gather.Params{}); err != nil {
		return err
	}

	r0 := gather.PeakToPeak(before)
	rr := g.PeakToPeak()
	if rr == 0 || !finite(rr) || !finite(r0) {
		return fmt.Errorf("%w: input range %g, residual range %g", ErrDegenerateRange, r0, rr)
	}
	g.Scale(r0 / rr)
	return nil
}

// SingleEnhancement is the engd body: one residual round
func SingleEnhancement(round ResidualRound) Procedure {
	return func(ctx context.Context, inv Invoker, g *gather.Gather, _ []string) error {
		return round.Run(ctx, inv, g)
	}
}

// IteratedEnhancement is the engc body: rounds residual rounds, each on the
// previous output, then a final band-limit, rectification and boxcar smoothing
func IteratedEnhancement(round ResidualRound, rounds, smoothWidth int) Procedure {
	return func(ctx context.Context, inv Invoker, g *gather.Gather, _ []string) error {
		for i := 0; i < rounds; i++ {
			if err := round.Run(ctx, inv, g); err != nil {
				return fmt.Errorf("round %d of %d: %w", i+1, rounds, err)
			}
		}
		if err := round.Bandlimit(ctx, inv, g); err != nil {
			return err
		}
		g.Abs()
		return inv.Invoke(ctx, g, capability.MovingAverage, gather.Params{
			gather.KV("width", smoothWidth),
			gather.KV("kind", capability.KindBoxcar),
			gather.KV("mode", capability.ModeLowpass),
		})
	}
}

func sincParams(edge BandEdge, mode string) gather.Params {
	return gather.Params{
		gather.KV("cutoff", edge.Cutoff),
		gather.KV("bandwidth", edge.Bandwidth),
		gather.KV("mode", mode),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
