// Package shared holds helpers used by tests of several packages.
//
// testutil.CaptureHandler is an slog.Handler that keeps records in memory
// so tests can assert on event names and attributes:
//
//	logger, logs := testutil.NewTestLogger(t)
//	reporter := recipe.NewSlogReporter(logger)
//	...
//	testutil.AssertLogged(t, logs, slog.LevelWarn, "recipe_not_recognized")
package shared
