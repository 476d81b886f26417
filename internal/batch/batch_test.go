package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gprcli/internal/capability"
	"gprcli/internal/gather"
	"gprcli/internal/recipe"
	"gprcli/internal/recipe/testutil"
)

func newRunner(t *testing.T, overrides []*testutil.MockCapability, opts ...Option) (*Runner, *recipe.Recorder) {
	t.Helper()
	caps, _ := testutil.NewMockSet(overrides...)
	rec := recipe.NewRecorder()
	d := recipe.NewDispatcher(recipe.DefaultCatalog(), caps, recipe.WithReporter(rec))
	return NewRunner(d, opts...), rec
}

func items(n int) []Item {
	out := make([]Item, n)
	for i := range out {
		out[i] = Item{ID: fmt.Sprintf("g%d", i), Gather: testutil.RampGather(2, 8)}
	}
	return out
}

func TestRunAppliesCommandsToEveryGather(t *testing.T) {
	r, _ := newRunner(t, nil, WithWorkers(3))
	in := items(5)
	cmds := []recipe.Command{recipe.NewCommand("gc"), recipe.NewCommand("mult", "3.5")}

	summary, err := r.Run(context.Background(), in, cmds)
	require.NoError(t, err)

	assert.Len(t, summary.RunID, 36)
	require.Len(t, summary.Items, 5)
	assert.Equal(t, 10, summary.Applied)
	assert.Zero(t, summary.Failed)
	assert.Zero(t, summary.FailedItems())

	for i, it := range summary.Items {
		assert.Equal(t, in[i].ID, it.ID)
		assert.Equal(t, "test", it.Line)
		assert.Len(t, it.Results, 2)
		testutil.AssertHistory(t, in[i].Gather, capability.TimeGainControl, capability.Dewow, capability.MultiplyAmplitude)
	}
}

func TestRunIsolatesFailingGather(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32
	flaky := &testutil.MockCapability{
		NameValue: capability.Dewow,
		ApplyFunc: func(_ context.Context, g *gather.Gather, _ gather.Params) error {
			calls.Add(1)
			if g.Meta.Line == "bad" {
				return boom
			}
			return nil
		},
	}
	r, rec := newRunner(t, []*testutil.MockCapability{flaky}, WithWorkers(2))

	in := items(3)
	in[1].Gather.Meta.Line = "bad"

	summary, err := r.Run(context.Background(), in, []recipe.Command{recipe.NewCommand("gc"), recipe.NewCommand("reverse")})
	require.NoError(t, err)

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 5, summary.Applied)
	assert.Equal(t, 1, summary.FailedItems())
	assert.True(t, summary.Items[1].Failed())
	assert.False(t, summary.Items[0].Failed())
	assert.Equal(t, "applied", summary.Items[1].Results[1].Status())
	assert.Len(t, rec.Failures(), 1)
}

func TestRunBoundsConcurrency(t *testing.T) {
	var active, peak atomic.Int32
	slow := &testutil.MockCapability{
		NameValue: capability.Dewow,
		ApplyFunc: func(context.Context, *gather.Gather, gather.Params) error {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
			return nil
		},
	}
	r, _ := newRunner(t, []*testutil.MockCapability{slow}, WithWorkers(2))

	_, err := r.Run(context.Background(), items(8), []recipe.Command{recipe.NewCommand("dewow")})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.GreaterOrEqual(t, peak.Load(), int32(1))
}

func TestRunLoadsLazily(t *testing.T) {
	r, _ := newRunner(t, nil, WithWorkers(1))
	loadErr := errors.New("corrupt")

	in := []Item{
		{ID: "ok", Load: func() (*gather.Gather, error) { return testutil.RampGather(1, 4), nil }},
		{ID: "broken", Load: func() (*gather.Gather, error) { return nil, loadErr }},
		{ID: "empty"},
	}
	summary, err := r.Run(context.Background(), in, []recipe.Command{recipe.NewCommand("gc")})
	require.NoError(t, err)

	assert.False(t, summary.Items[0].Failed())
	assert.ErrorIs(t, summary.Items[1].Err, loadErr)
	assert.Error(t, summary.Items[2].Err)
	assert.Equal(t, 2, summary.FailedItems())
}

func TestRunSink(t *testing.T) {
	var mu sync.Mutex
	stored := map[string]int{}
	sink := func(_ context.Context, id string, g *gather.Gather) (string, error) {
		if id == "g1" {
			return "", errors.New("disk full")
		}
		mu.Lock()
		defer mu.Unlock()
		stored[id] = len(g.History)
		return "/out/" + id + ".json", nil
	}
	r, _ := newRunner(t, nil, WithSink(sink))

	summary, err := r.Run(context.Background(), items(3), []recipe.Command{recipe.NewCommand("gc")})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"g0": 2, "g2": 2}, stored)
	assert.Equal(t, "/out/g0.json", summary.Items[0].Output)
	assert.ErrorContains(t, summary.Items[1].Err, "disk full")
	assert.Equal(t, 1, summary.FailedItems())
}

func TestRunCancelled(t *testing.T) {
	r, _ := newRunner(t, nil, WithWorkers(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := r.Run(ctx, items(3), []recipe.Command{recipe.NewCommand("gc")})
	assert.ErrorIs(t, err, context.Canceled)
	for _, it := range summary.Items {
		assert.ErrorIs(t, it.Err, context.Canceled)
		assert.Empty(t, it.Results)
	}
}
