package testutil

import (
	"math"

	"gprcli/internal/gather"
)

// NewGather builds a gather whose sample values come from fn(trace, sample)
func NewGather(traces, samples int, fn func(trace, sample int) float64) *gather.Gather {
	data := make([][]float64, traces)
	for i := range data {
		data[i] = make([]float64, samples)
		for j := range data[i] {
			data[i][j] = fn(i, j)
		}
	}
	g, err := gather.New(data, gather.Metadata{Line: "test", SampleInterval: 4e-9, TraceSpacing: 1})
	if err != nil {
		panic(err)
	}
	return g
}

// RampGather builds a gather whose samples are trace*samples + sample + 1
func RampGather(traces, samples int) *gather.Gather {
	return NewGather(traces, samples, func(i, j int) float64 {
		return float64(i*samples + j + 1)
	})
}

// ChirpGather builds a gather of mixed 10, 60 and 150 MHz tones at 4 ns
// sampling, varying slightly per trace
func ChirpGather(traces, samples int) *gather.Gather {
	const dt = 4e-9
	return NewGather(traces, samples, func(i, j int) float64 {
		t := float64(j) * dt
		phase := float64(i) * 0.1
		return math.Sin(2*math.Pi*10e6*t+phase) +
			0.5*math.Sin(2*math.Pi*60e6*t+phase) +
			0.25*math.Sin(2*math.Pi*150e6*t)
	})
}
