package capability_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gprcli/internal/capability"
	"gprcli/internal/gather"
)

func noop(name string) capability.Capability {
	return capability.NewFunc(name, func(ctx context.Context, g *gather.Gather, p gather.Params) error {
		return nil
	})
}

func testGather(t *testing.T) *gather.Gather {
	t.Helper()
	g, err := gather.New([][]float64{{1, 2}, {3, 4}}, gather.Metadata{Line: "test"})
	require.NoError(t, err)
	return g
}

func TestSetRegister(t *testing.T) {
	set := capability.NewSet()
	assert.Equal(t, 0, set.Count())

	require.NoError(t, set.Register(noop(capability.Dewow)))
	require.NoError(t, set.Register(noop(capability.WindowedSinc)))

	assert.Equal(t, 2, set.Count())
	assert.True(t, set.Has(capability.Dewow))
	assert.Equal(t, []string{capability.Dewow, capability.WindowedSinc}, set.Names())

	c, err := set.Get(capability.Dewow)
	require.NoError(t, err)
	assert.Equal(t, capability.Dewow, c.Name())
}

func TestSetRegisterErrors(t *testing.T) {
	set := capability.NewSet()

	err := set.Register(nil)
	assert.ErrorContains(t, err, "nil capability")

	err = set.Register(noop(""))
	assert.ErrorContains(t, err, "name cannot be empty")

	require.NoError(t, set.Register(noop("dup")))
	err = set.Register(noop("dup"))
	assert.ErrorContains(t, err, "already registered")
}

func TestSetReplace(t *testing.T) {
	set := capability.NewSet()
	require.NoError(t, set.Register(noop("a")))

	calls := 0
	require.NoError(t, set.Replace(capability.NewFunc("a", func(ctx context.Context, g *gather.Gather, p gather.Params) error {
		calls++
		return nil
	})))
	assert.Equal(t, 1, set.Count())

	require.NoError(t, set.Invoke(context.Background(), testGather(t), "a", nil))
	assert.Equal(t, 1, calls)
}

func TestSetGetMissing(t *testing.T) {
	set := capability.NewSet()
	_, err := set.Get("missing")
	assert.ErrorIs(t, err, capability.ErrNotRegistered)
}

func TestInvokeAppendsHistory(t *testing.T) {
	set := capability.NewSet()
	require.NoError(t, set.Register(capability.NewFunc(capability.TimeGainControl, func(ctx context.Context, g *gather.Gather, p gather.Params) error {
		power, err := p.Float("power")
		if err != nil {
			return err
		}
		g.Scale(power)
		return nil
	})))

	g := testGather(t)
	params := gather.Params{gather.KV("power", 2.0)}
	require.NoError(t, set.Invoke(context.Background(), g, capability.TimeGainControl, params))

	assert.Equal(t, []float64{2, 4}, g.Data[0])
	require.Len(t, g.History, 1)
	assert.Equal(t, "time-gain-control(power=2)", g.History[0].String())
}

func TestInvokeFailureLeavesHistoryUntouched(t *testing.T) {
	boom := errors.New("boom")
	set := capability.NewSet()
	require.NoError(t, set.Register(capability.NewFunc("bad", func(ctx context.Context, g *gather.Gather, p gather.Params) error {
		return boom
	})))

	g := testGather(t)
	err := set.Invoke(context.Background(), g, "bad", nil)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "bad: boom")
	assert.Empty(t, g.History)

	err = set.Invoke(context.Background(), g, "missing", nil)
	assert.ErrorIs(t, err, capability.ErrNotRegistered)
	assert.Empty(t, g.History)
}

func TestSetClone(t *testing.T) {
	set := capability.NewSet()
	require.NoError(t, set.Register(noop("a")))

	clone := set.Clone()
	require.NoError(t, clone.Register(noop("b")))

	assert.Equal(t, 1, set.Count())
	assert.Equal(t, 2, clone.Count())
}

func TestSetConcurrentReaders(t *testing.T) {
	set := capability.NewSet()
	for i := 0; i < 10; i++ {
		require.NoError(t, set.Register(noop(fmt.Sprintf("cap-%d", i))))
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.True(t, set.Has(fmt.Sprintf("cap-%d", i%10)))
			_ = set.Names()
		}(i)
	}
	wg.Wait()
}
