package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"gprcli/internal/gather"
	"gprcli/internal/infrastructure"
	"gprcli/internal/recipe"
)

// Item is one gather to process. Either Gather is set, or Load produces the
// gather inside the worker so only in-flight gathers are held in memory.
type Item struct {
	ID     string
	Gather *gather.Gather
	Load   func() (*gather.Gather, error)
}

// ItemResult describes what happened to one item
type ItemResult struct {
	ID       string
	Line     string
	Results  []recipe.Result
	Output   string
	Err      error
	Duration time.Duration
}

// Failed reports whether the item could not be processed or any recipe failed
func (r ItemResult) Failed() bool {
	if r.Err != nil {
		return true
	}
	for _, res := range r.Results {
		if res.Failed() {
			return true
		}
	}
	return false
}

// Summary aggregates a batch run
type Summary struct {
	RunID    string
	Items    []ItemResult
	Started  time.Time
	Finished time.Time
	Applied  int
	Skipped  int
	Failed   int
}

// FailedItems returns the number of items with at least one failure
func (s *Summary) FailedItems() int {
	n := 0
	for _, it := range s.Items {
		if it.Failed() {
			n++
		}
	}
	return n
}

// Sink receives each processed gather, for example to save it. The returned
// path is recorded as the item output.
type Sink func(ctx context.Context, id string, g *gather.Gather) (string, error)

// Runner applies one command list to many gathers in parallel
type Runner struct {
	dispatcher *recipe.Dispatcher
	workers    int
	sink       Sink
	metrics    *infrastructure.RecipeMetrics
	logger     *slog.Logger
}

// Option configures a Runner
type Option func(*Runner)

// WithWorkers bounds the number of gathers processed at once
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithSink sets the consumer of processed gathers
func WithSink(s Sink) Option {
	return func(r *Runner) {
		r.sink = s
	}
}

// WithMetrics records per-item counters
func WithMetrics(m *infrastructure.RecipeMetrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = infrastructure.WithComponent(l, "batch")
		}
	}
}

// NewRunner creates a runner. Workers default to GOMAXPROCS.
func NewRunner(d *recipe.Dispatcher, opts ...Option) *Runner {
	r := &Runner{
		dispatcher: d,
		workers:    runtime.GOMAXPROCS(0),
		logger:     infrastructure.WithComponent(infrastructure.GetLogger(), "batch"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes items with at most the configured number of workers. Each
// gather is owned by exactly one worker. A failing recipe on one gather does
// not affect the others. Cancelling ctx stops items that have not started;
// the returned error is then ctx.Err().
func (r *Runner) Run(ctx context.Context, items []Item, cmds []recipe.Command) (*Summary, error) {
	summary := &Summary{
		RunID:   infrastructure.GenerateTraceID(),
		Items:   make([]ItemResult, len(items)),
		Started: time.Now(),
	}
	ctx = infrastructure.WithTraceID(ctx, summary.RunID)

	r.logger.InfoContext(ctx, "batch_start",
		slog.String("run_id", summary.RunID),
		slog.Int("items", len(items)),
		slog.Int("recipes", len(cmds)),
		slog.Int("workers", r.workers))

	g := new(errgroup.Group)
	g.SetLimit(r.workers)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			summary.Items[i] = r.process(ctx, item, cmds)
			return nil
		})
	}
	_ = g.Wait()

	summary.Finished = time.Now()
	for _, it := range summary.Items {
		for _, res := range it.Results {
			switch res.Status() {
			case "applied":
				summary.Applied++
			case "failed":
				summary.Failed++
			default:
				summary.Skipped++
			}
		}
	}

	r.logger.InfoContext(ctx, "batch_complete",
		slog.String("run_id", summary.RunID),
		slog.Int("applied", summary.Applied),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
		slog.Int("failed_items", summary.FailedItems()),
		slog.Duration("duration", summary.Finished.Sub(summary.Started)))

	return summary, ctx.Err()
}

func (r *Runner) process(ctx context.Context, item Item, cmds []recipe.Command) ItemResult {
	start := time.Now()
	res := ItemResult{ID: item.ID}
	defer func() {
		res.Duration = time.Since(start)
		r.metrics.RecordBatchItem(ctx, res.Failed())
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	g, err := item.gather()
	if err != nil {
		res.Err = err
		infrastructure.RecordError(ctx, err)
		r.logger.ErrorContext(ctx, "batch_item_load_failed",
			slog.String("id", item.ID),
			slog.String("error", err.Error()))
		return res
	}
	res.Line = g.Meta.Line

	res.Results = r.dispatcher.ApplyAll(ctx, g, cmds)

	if r.sink != nil {
		out, err := r.sink(ctx, item.ID, g)
		if err != nil {
			res.Err = fmt.Errorf("failed to store gather %s: %w", item.ID, err)
			infrastructure.RecordError(ctx, res.Err)
			r.logger.ErrorContext(ctx, "batch_item_store_failed",
				slog.String("id", item.ID),
				slog.String("error", err.Error()))
			return res
		}
		res.Output = out
	}

	r.logger.DebugContext(ctx, "batch_item_complete",
		slog.String("id", item.ID),
		slog.String("history", g.HistoryString()))
	return res
}

func (it Item) gather() (*gather.Gather, error) {
	if it.Gather != nil {
		return it.Gather, nil
	}
	if it.Load == nil {
		return nil, fmt.Errorf("item %s has no gather", it.ID)
	}
	g, err := it.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load gather %s: %w", it.ID, err)
	}
	return g, nil
}
