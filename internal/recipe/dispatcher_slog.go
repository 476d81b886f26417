package recipe

import (
	"context"
	"log/slog"
)

// logApplied logs a successful application
func (d *Dispatcher) logApplied(ctx context.Context, res Result) {
	d.logger.DebugContext(ctx, "recipe_applied",
		slog.String("recipe", res.Recipe),
		slog.Any("params", res.Params),
		slog.Int("capability_calls", res.Calls),
		slog.Duration("duration", res.Duration))
}
