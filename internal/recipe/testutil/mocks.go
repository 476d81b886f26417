package testutil

import (
	"context"
	"sync"
	"time"

	"gprcli/internal/capability"
	"gprcli/internal/gather"
)

// MockCapability is a configurable capability that tracks its calls
type MockCapability struct {
	NameValue string

	// ApplyFunc runs on every call; nil means succeed without touching the gather
	ApplyFunc func(ctx context.Context, g *gather.Gather, p gather.Params) error

	mu         sync.Mutex
	ApplyCalls int
	ApplyArgs  []ApplyCall
}

// ApplyCall tracks arguments passed to Apply
type ApplyCall struct {
	Params gather.Params
	Time   time.Time
}

// Name returns the capability name
func (m *MockCapability) Name() string {
	return m.NameValue
}

// Apply records the call and runs ApplyFunc
func (m *MockCapability) Apply(ctx context.Context, g *gather.Gather, p gather.Params) error {
	m.mu.Lock()
	m.ApplyCalls++
	m.ApplyArgs = append(m.ApplyArgs, ApplyCall{Params: p.Clone(), Time: time.Now()})
	m.mu.Unlock()

	if m.ApplyFunc != nil {
		return m.ApplyFunc(ctx, g, p)
	}
	return nil
}

// Calls returns the number of Apply calls
func (m *MockCapability) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ApplyCalls
}

// LastParams returns the parameters of the most recent call
func (m *MockCapability) LastParams() gather.Params {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ApplyArgs) == 0 {
		return nil
	}
	return m.ApplyArgs[len(m.ApplyArgs)-1].Params
}

// NewMockCapability creates a no-op mock
func NewMockCapability(name string) *MockCapability {
	return &MockCapability{NameValue: name}
}

// FailingCapability returns a mock whose every call fails with err
func FailingCapability(name string, err error) *MockCapability {
	return &MockCapability{
		NameValue: name,
		ApplyFunc: func(context.Context, *gather.Gather, gather.Params) error {
			return err
		},
	}
}

// PanickingCapability returns a mock whose every call panics with value
func PanickingCapability(name string, value any) *MockCapability {
	return &MockCapability{
		NameValue: name,
		ApplyFunc: func(context.Context, *gather.Gather, gather.Params) error {
			panic(value)
		},
	}
}

// AllCapabilities lists every capability name recipes refer to
var AllCapabilities = []string{
	capability.TimeGainControl,
	capability.AutoGainControl,
	capability.WindowedSinc,
	capability.MovingAverage,
	capability.RecursiveFilter,
	capability.WienerFilter,
	capability.Dewow,
	capability.RemoveRinging,
	capability.RemoveHorizontal,
	capability.MigrateFK,
	capability.LineProject,
	capability.MultiplyAmplitude,
	capability.ReverseTraces,
}

// NewMockSet registers a no-op mock for every capability name, with
// overrides replacing the matching defaults
func NewMockSet(overrides ...*MockCapability) (*capability.Set, map[string]*MockCapability) {
	set := capability.NewSet()
	mocks := make(map[string]*MockCapability, len(AllCapabilities))
	for _, name := range AllCapabilities {
		mocks[name] = NewMockCapability(name)
	}
	for _, m := range overrides {
		mocks[m.NameValue] = m
	}
	for _, name := range AllCapabilities {
		_ = set.Register(mocks[name])
	}
	for name, m := range mocks {
		if !set.Has(name) {
			_ = set.Register(m)
		}
	}
	return set, mocks
}
