package recipe

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"time"

	"gprcli/internal/capability"
	"gprcli/internal/gather"
)

// Result describes one recipe application
type Result struct {
	Recipe     string
	Params     []string
	Applied    bool
	Diagnostic string
	Kind       ErrorType
	Err        error
	Calls      int
	Duration   time.Duration
}

// Failed reports whether the recipe started and then failed. Unrecognized
// and unimplemented recipes are skipped, not failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Status returns "applied", "skipped" or "failed"
func (r Result) Status() string {
	switch {
	case r.Applied:
		return "applied"
	case r.Failed():
		return "failed"
	default:
		return "skipped"
	}
}

// Dispatcher resolves commands against a registry and runs them through a
// capability set. Apply never panics and never returns an error: every
// problem is turned into a Result and reported once.
type Dispatcher struct {
	registry *Registry
	caps     Invoker
	reporter Reporter
	tracer   *Tracer
	logger   *slog.Logger
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithReporter sets the diagnostics reporter
func WithReporter(r Reporter) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.reporter = r
		}
	}
}

// WithTracer enables spans and metrics per application
func WithTracer(t *Tracer) Option {
	return func(d *Dispatcher) {
		d.tracer = t
	}
}

// WithLogger sets the logger used for per-application debug events
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher creates a dispatcher. A nil registry uses DefaultCatalog; a
// nil capability set has no capabilities, so every capability step fails.
func NewDispatcher(registry *Registry, caps Invoker, opts ...Option) *Dispatcher {
	if registry == nil {
		registry = DefaultCatalog()
	}
	if caps == nil {
		caps = capability.NewSet()
	}
	d := &Dispatcher{
		registry: registry,
		caps:     caps,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.reporter == nil {
		d.reporter = NewSlogReporter(d.logger)
	}
	return d
}

// Registry returns the catalog the dispatcher resolves names against
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Apply runs cmd against g. A partially applied recipe leaves its mutations
// in place.
func (d *Dispatcher) Apply(ctx context.Context, g *gather.Gather, cmd Command) (res Result) {
	start := time.Now()
	res = Result{Recipe: cmd.Name, Params: cmd.Params}

	ctx, span := d.tracer.Start(ctx, cmd)
	defer func() {
		res.Duration = time.Since(start)
		d.tracer.Finish(ctx, span, res)
	}()

	def, ok := d.registry.Lookup(cmd.Name)
	if !ok {
		d.skip(ctx, g, &res, NewNotFoundError(cmd.Name))
		return res
	}
	if def.Unimplemented {
		d.skip(ctx, g, &res, NewNotImplementedError(cmd.Name))
		return res
	}
	if g == nil {
		d.fail(ctx, g, &res, NewValidationError(cmd.Name, "no gather to process", nil), "")
		return res
	}

	inv := &countingInvoker{next: d.caps}
	err := d.run(ctx, inv, def, g, cmd.Params)
	res.Calls = inv.calls
	if err != nil {
		d.fail(ctx, g, &res, err, stackOf(err))
		return res
	}

	res.Applied = true
	res.Duration = time.Since(start)
	d.logApplied(ctx, res)
	return res
}

// ApplyAll applies cmds to g in order, continuing after failures
func (d *Dispatcher) ApplyAll(ctx context.Context, g *gather.Gather, cmds []Command) []Result {
	results := make([]Result, 0, len(cmds))
	for _, cmd := range cmds {
		results = append(results, d.Apply(ctx, g, cmd))
	}
	return results
}

// run executes the recipe body, converting panics into errors
func (d *Dispatcher) run(ctx context.Context, inv Invoker, def *Definition, g *gather.Gather, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewPanicError(def.Name, r, debug.Stack())
		}
	}()

	if def.Composite() {
		if err := def.Procedure(ctx, inv, g, args); err != nil {
			return WrapError(err, def.Name, "composite recipe failed")
		}
		return nil
	}

	params, err := def.resolveSteps(args)
	if err != nil {
		return NewValidationError(def.Name, "invalid command parameters", err)
	}

	for i, st := range def.Steps {
		if st.Transform != nil {
			g.Map(st.Transform.Fn)
			continue
		}
		if err := inv.Invoke(ctx, g, st.Capability, params[i]); err != nil {
			rErr := NewCapabilityError(def.Name, st.Capability, i, err)
			rErr.Context["params"] = params[i].Pretty()
			return rErr
		}
	}
	return nil
}

func (d *Dispatcher) skip(ctx context.Context, g *gather.Gather, res *Result, rErr *RecipeError) {
	res.Kind = rErr.Type
	res.Diagnostic = rErr.Message
	d.reporter.Report(ctx, d.diagnostic(g, *res, rErr, ""))
}

// fail records err on res and reports it. Failures without a recovered panic
// stack carry the dispatcher's own stack.
func (d *Dispatcher) fail(ctx context.Context, g *gather.Gather, res *Result, err error, stack string) {
	if stack == "" {
		stack = string(debug.Stack())
	}
	res.Err = err
	res.Kind = GetErrorType(err)
	res.Diagnostic = err.Error()
	d.reporter.Report(ctx, d.diagnostic(g, *res, err, stack))
}

func (d *Dispatcher) diagnostic(g *gather.Gather, res Result, err error, stack string) Diagnostic {
	diag := Diagnostic{
		Recipe:  res.Recipe,
		Params:  res.Params,
		Kind:    res.Kind,
		Message: res.Diagnostic,
		Err:     err,
		Stack:   stack,
		Step:    -1,
		Time:    time.Now(),
	}
	if g != nil {
		diag.Line = g.Meta.Line
	}
	var rErr *RecipeError
	if errors.As(err, &rErr) {
		if i, ok := rErr.Context["step_index"].(int); ok {
			diag.Step = i
			diag.Capability = rErr.Step
		}
		if p, ok := rErr.Context["params"].(string); ok {
			diag.StepParams = p
		}
	}
	return diag
}

// stackOf returns the goroutine stack captured for a recovered panic
func stackOf(err error) string {
	var rErr *RecipeError
	if errors.As(err, &rErr) {
		if st, ok := rErr.Context["stack"].(string); ok {
			return st
		}
	}
	return ""
}

// countingInvoker counts capability calls made during one Apply
type countingInvoker struct {
	next  Invoker
	calls int
}

func (c *countingInvoker) Invoke(ctx context.Context, g *gather.Gather, name string, p gather.Params) error {
	c.calls++
	return c.next.Invoke(ctx, g, name, p)
}
