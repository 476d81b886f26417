package recipe

import (
	"gprcli/internal/capability"
	"gprcli/internal/gather"
)

// call builds a capability step with a fixed parameter template
func call(name string, params ...gather.Param) Step {
	return Step{Capability: name, Params: gather.Params(params)}
}

// sinc builds a windowed-sinc step
func sinc(mode string, cutoff, bandwidth float64) Step {
	return call(capability.WindowedSinc,
		gather.KV("cutoff", cutoff),
		gather.KV("bandwidth", bandwidth),
		gather.KV("mode", mode))
}

// tunableSinc builds a windowed-sinc step whose edges come from the command
func tunableSinc(mode string) Step {
	return Step{
		Capability: capability.WindowedSinc,
		Slots: []Slot{
			{Index: 0, Key: "cutoff", Kind: SlotFloat, Default: 25e6},
			{Index: 1, Key: "bandwidth", Kind: SlotFloat, Default: 5e6},
		},
		Params: gather.Params{gather.KV("mode", mode)},
	}
}

func smooth(width int, kind, mode string) Step {
	return call(capability.MovingAverage,
		gather.KV("width", width),
		gather.KV("kind", kind),
		gather.KV("mode", mode))
}

func tunableSmooth(width int, mode string) Step {
	return Step{
		Capability: capability.MovingAverage,
		Slots:      []Slot{{Index: 0, Key: "width", Kind: SlotOddInt, Default: width}},
		Params: gather.Params{
			gather.KV("kind", capability.KindBlackman),
			gather.KV("mode", mode),
		},
	}
}

func recursive(pass, stop float64, ftype string) Step {
	return call(capability.RecursiveFilter,
		gather.KV("passband", pass),
		gather.KV("stopband", stop),
		gather.KV("ftype", ftype))
}

func tgc(power float64) Step {
	return call(capability.TimeGainControl, gather.KV("power", power))
}

func transform(t *Transform) Step {
	return Step{Transform: t}
}

// Catalog returns the standard recipe definitions in help order
func Catalog() []Definition {
	const (
		lp = capability.ModeLowpass
		hp = capability.ModeHighpass
	)
	round := DefaultResidualRound()

	return []Definition{
		{
			Name:    "mult",
			Summary: "Multiply amplitudes by a constant",
			Usage:   "mult [factor]",
			Steps: []Step{{
				Capability: capability.MultiplyAmplitude,
				Slots:      []Slot{{Index: 0, Key: "factor", Kind: SlotFloat, Default: 2.0}},
			}},
		},
		{Name: "gc", Summary: "Linear time gain then dewow", Usage: "gc",
			Steps: []Step{tgc(1.0), call(capability.Dewow)}},
		{Name: "gchalve", Summary: "Square-root time gain then dewow", Usage: "gchalve",
			Steps: []Step{tgc(0.5), call(capability.Dewow)}},
		{Name: "gc2", Summary: "Quadratic time gain then dewow", Usage: "gc2",
			Steps: []Step{tgc(2.0), call(capability.Dewow)}},
		{Name: "agc", Summary: "Automatic gain control then 5 MHz highpass", Usage: "agc",
			Steps: []Step{
				call(capability.AutoGainControl, gather.KV("window", 5e-8)),
				sinc(hp, 5e6, 10e6),
			}},
		{Name: "abs", Summary: "Absolute value of every sample", Usage: "abs",
			Steps: []Step{transform(TransformAbs)}},
		{Name: "power", Summary: "Square every sample", Usage: "power",
			Steps: []Step{transform(TransformSquare)}},
		{Name: "reverse", Summary: "Reverse trace order", Usage: "reverse",
			Steps: []Step{call(capability.ReverseTraces)}},
		{Name: "lowpass", Summary: "Windowed-sinc lowpass", Usage: "lowpass [cutoff [bandwidth]]",
			Steps: []Step{tunableSinc(lp)}},
		{Name: "highpass", Summary: "Windowed-sinc highpass", Usage: "highpass [cutoff [bandwidth]]",
			Steps: []Step{tunableSinc(hp)}},
		{Name: "lowpass_ma", Summary: "21-sample Blackman moving-average lowpass", Usage: "lowpass_ma",
			Steps: []Step{smooth(21, capability.KindBlackman, lp)}},
		{Name: "highpass_ma", Summary: "7-sample Blackman moving-average highpass", Usage: "highpass_ma",
			Steps: []Step{smooth(7, capability.KindBlackman, hp)}},
		{Name: "lowpass_td", Summary: "Blackman moving-average lowpass, odd width", Usage: "lowpass_td [width]",
			Steps: []Step{tunableSmooth(21, lp)}},
		{Name: "highpass_td", Summary: "Blackman moving-average highpass, odd width", Usage: "highpass_td [width]",
			Steps: []Step{tunableSmooth(7, hp)}},
		{Name: "lowpassb", Summary: "5-sample boxcar lowpass", Usage: "lowpassb",
			Steps: []Step{smooth(5, capability.KindBoxcar, lp)}},
		{Name: "iir30low", Summary: "Chebyshev lowpass, 20 MHz pass / 40 MHz stop", Usage: "iir30low",
			Steps: []Step{recursive(20e6, 40e6, capability.FilterCheby1)}},
		{Name: "iir25high", Summary: "Chebyshev highpass, 30 MHz pass / 20 MHz stop", Usage: "iir25high",
			Steps: []Step{recursive(30e6, 20e6, capability.FilterCheby1)}},
		{Name: "wiener", Summary: "Adaptive Wiener denoise", Usage: "wiener",
			Steps: []Step{call(capability.WienerFilter, gather.KV("window", 5))}},
		{Name: "dewow", Summary: "Remove low-frequency wow", Usage: "dewow",
			Steps: []Step{call(capability.Dewow)}},
		{Name: "ringing", Summary: "Remove the mean trace", Usage: "ringing",
			Steps: []Step{call(capability.RemoveRinging)}},
		{Name: "bed", Summary: "Bed reflector band, 20-30 MHz", Usage: "bed",
			Steps: []Step{sinc(hp, 20e6, 10e6), sinc(lp, 30e6, 10e6)}},
		{Name: "bed10", Summary: "Bed reflector band, 8-25 MHz", Usage: "bed10",
			Steps: []Step{sinc(hp, 8e6, 5e6), sinc(lp, 25e6, 10e6)}},
		{Name: "bed35", Summary: "Bed reflector band, 15-45 MHz", Usage: "bed35",
			Steps: []Step{sinc(hp, 15e6, 10e6), sinc(lp, 45e6, 10e6)}},
		{Name: "bed50", Summary: "Bed reflector band, 35-45 MHz", Usage: "bed50",
			Steps: []Step{sinc(hp, 35e6, 10e6), sinc(lp, 45e6, 10e6)}},
		{Name: "bed_testing", Summary: "Experimental bed band with quadratic gain", Usage: "bed_testing",
			Steps: []Step{
				call(capability.Dewow),
				tgc(2.0),
				sinc(hp, 15e6, 2e6),
				sinc(lp, 60e6, 2e6),
			}},
		{Name: "eng35", Summary: "Englacial scatter envelope, 30-55 MHz", Usage: "eng35",
			Steps: []Step{sinc(hp, 30e6, 5e6), sinc(lp, 55e6, 25e6), transform(TransformAbs)}},
		{Name: "eng50", Summary: "Englacial scatter envelope above 60 MHz", Usage: "eng50",
			Steps: []Step{
				call(capability.Dewow),
				recursive(80e6, 60e6, capability.FilterButter),
				transform(TransformAbs),
			}},
		{Name: "eng_high", Summary: "Gained englacial envelope above 30 MHz", Usage: "eng_high",
			Steps: []Step{tgc(0.8), recursive(50e6, 30e6, capability.FilterButter), transform(TransformAbs)}},
		{Name: "eng10", Summary: "Compressed englacial envelope above 40 MHz", Usage: "eng10",
			Steps: []Step{
				tgc(1.0),
				sinc(hp, 40e6, 4e6),
				transform(TransformCubeRootMagnitude),
				transform(TransformAbs),
				smooth(7, capability.KindBlackman, lp),
			}},
		{Name: "eng10_jgr", Summary: "Englacial envelope after horizontal-feature removal", Usage: "eng10_jgr",
			Steps: []Step{
				call(capability.RemoveHorizontal),
				recursive(25e6, 10e6, capability.FilterButter),
				transform(TransformAbs),
			}},
		{Name: "engd", Summary: "One residual scatter-enhancement round", Usage: "engd",
			Procedure: SingleEnhancement(round),
			Requires:  []string{capability.WindowedSinc, capability.Dewow}},
		{Name: "engc", Summary: "Iterated residual scatter enhancement", Usage: "engc",
			Procedure: IteratedEnhancement(round, EnhancementRounds, SmoothingWidth),
			Requires:  []string{capability.WindowedSinc, capability.Dewow, capability.MovingAverage}},
		{Name: "fkmig", Summary: "Frequency-wavenumber migration", Usage: "fkmig [time_offset]",
			Steps: []Step{migrate()}},
		{Name: "migfk", Summary: "Alias of fkmig", Usage: "migfk [time_offset]",
			Steps: []Step{migrate()}},
		{Name: "kirmig", Summary: "Kirchhoff migration", Usage: "kirmig", Unimplemented: true},
		{Name: "project", Summary: "Project onto an evenly spaced line", Usage: "project",
			Steps: []Step{call(capability.LineProject, gather.KV("spacing", 5.0))}},
	}
}

func migrate() Step {
	return Step{
		Capability: capability.MigrateFK,
		Slots:      []Slot{{Index: 0, Key: "time_offset", Kind: SlotRoundInt, Default: 0}},
	}
}

// DefaultCatalog builds the registry of standard recipes
func DefaultCatalog() *Registry {
	r, err := NewBuilder().Add(Catalog()...).Build()
	if err != nil {
		panic(err)
	}
	return r
}
