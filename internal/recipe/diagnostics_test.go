package recipe_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gprcli/internal/capability"
	"gprcli/internal/recipe"
	"gprcli/internal/recipe/testutil"
	sharedtest "gprcli/internal/shared/testutil"
)

func TestSlogReporterEvents(t *testing.T) {
	logger, logs := sharedtest.NewTestLogger(t)
	caps, _ := testutil.NewMockSet(testutil.FailingCapability(capability.Dewow, errors.New("boom")))
	d := recipe.NewDispatcher(recipe.DefaultCatalog(), caps,
		recipe.WithReporter(recipe.NewSlogReporter(logger)),
		recipe.WithLogger(logger))
	g := testutil.RampGather(2, 8)
	ctx := context.Background()

	d.Apply(ctx, g, recipe.NewCommand("nosuch", "1"))
	d.Apply(ctx, g, recipe.NewCommand("kirmig"))
	d.Apply(ctx, g, recipe.NewCommand("gc"))
	d.Apply(ctx, g, recipe.NewCommand("mult", "2"))

	miss := sharedtest.AssertLogged(t, logs, slog.LevelWarn, "recipe_not_recognized")
	assert.Equal(t, "nosuch", miss.Attr("recipe"))
	assert.Equal(t, "recipe", miss.Attr("component"))
	assert.Equal(t, "test", miss.Attr("line"))

	sharedtest.AssertLogged(t, logs, slog.LevelWarn, "recipe_not_implemented")

	failed := sharedtest.AssertLogged(t, logs, slog.LevelError, "recipe_failed")
	assert.Equal(t, "gc", failed.Attr("recipe"))
	assert.Equal(t, string(recipe.ErrorTypeCapability), failed.Attr("kind"))
	assert.Contains(t, failed.Attr("error"), "boom")
	assert.Equal(t, "1", failed.Attr("step_index"))
	assert.Equal(t, capability.Dewow, failed.Attr("capability"))
	assert.Contains(t, failed.Attr("stack"), "goroutine")
	assert.Len(t, logs.Find("recipe_failed"), 1)

	applied := logs.Find("recipe_applied")
	if assert.Len(t, applied, 1) {
		assert.Equal(t, slog.LevelDebug, applied[0].Level)
		assert.Equal(t, "mult", applied[0].Attr("recipe"))
		assert.NotEqual(t, "0s", applied[0].Attr("duration"))
	}
}

func TestSlogReporterStepParams(t *testing.T) {
	logger, logs := sharedtest.NewTestLogger(t)
	caps, _ := testutil.NewMockSet(testutil.FailingCapability(capability.MultiplyAmplitude, errors.New("boom")))
	d := recipe.NewDispatcher(recipe.DefaultCatalog(), caps, recipe.WithReporter(recipe.NewSlogReporter(logger)))

	d.Apply(context.Background(), testutil.RampGather(1, 4), recipe.NewCommand("mult", "3.5"))

	failed := sharedtest.AssertLogged(t, logs, slog.LevelError, "recipe_failed")
	assert.Equal(t, "0", failed.Attr("step_index"))
	assert.Equal(t, "factor=3.5", failed.Attr("step_params"))
}

func TestAppliedDurationMatchesResult(t *testing.T) {
	logger, logs := sharedtest.NewTestLogger(t)
	caps, _ := testutil.NewMockSet()
	d := recipe.NewDispatcher(recipe.DefaultCatalog(), caps, recipe.WithLogger(logger))

	res := d.Apply(context.Background(), testutil.RampGather(2, 8), recipe.NewCommand("engc"))
	require.True(t, res.Applied)

	applied := sharedtest.AssertLogged(t, logs, slog.LevelDebug, "recipe_applied")
	logged, ok := applied.Attrs["duration"].(time.Duration)
	require.True(t, ok)
	assert.Positive(t, logged)
	assert.LessOrEqual(t, logged, res.Duration)
}

func TestReporterFunc(t *testing.T) {
	var got []string
	r := recipe.ReporterFunc(func(_ context.Context, d recipe.Diagnostic) {
		got = append(got, d.Recipe)
	})
	d := recipe.NewDispatcher(recipe.DefaultCatalog(), nil, recipe.WithReporter(r))

	d.Apply(context.Background(), testutil.RampGather(1, 4), recipe.NewCommand("nosuch"))
	assert.Equal(t, []string{"nosuch"}, got)
}
