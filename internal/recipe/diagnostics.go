package recipe

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Diagnostic describes a recipe application that did not complete: an
// unrecognized name, an unimplemented recipe, or a failure
type Diagnostic struct {
	Recipe     string
	Params     []string
	Line       string
	Kind       ErrorType
	Message    string
	Err        error
	Stack      string
	Step       int    // index of the failing step, -1 when none was running
	Capability string // capability of the failing step
	StepParams string // resolved parameters of the failing step
	Time       time.Time
}

// Failure reports whether the diagnostic describes a failed application
func (d Diagnostic) Failure() bool {
	return IsFailure(d.Err)
}

// Reporter receives diagnostics. The dispatcher calls Report exactly once
// per diagnostic; implementations must be safe for concurrent use when the
// dispatcher is shared between workers.
type Reporter interface {
	Report(ctx context.Context, d Diagnostic)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(ctx context.Context, d Diagnostic)

// Report calls f
func (f ReporterFunc) Report(ctx context.Context, d Diagnostic) {
	f(ctx, d)
}

// SlogReporter writes diagnostics to a structured logger
type SlogReporter struct {
	logger *slog.Logger
}

// NewSlogReporter creates a reporter; a nil logger uses slog.Default
func NewSlogReporter(logger *slog.Logger) *SlogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogReporter{logger: logger.With(slog.String("component", "recipe"))}
}

// Report logs catalog misses at warn level and failures at error level
func (r *SlogReporter) Report(ctx context.Context, d Diagnostic) {
	attrs := []any{
		slog.String("recipe", d.Recipe),
		slog.Any("params", d.Params),
		slog.String("kind", string(d.Kind)),
		slog.String("message", d.Message),
	}
	if d.Line != "" {
		attrs = append(attrs, slog.String("line", d.Line))
	}

	switch d.Kind {
	case ErrorTypeNotFound:
		r.logger.WarnContext(ctx, "recipe_not_recognized", attrs...)
	case ErrorTypeNotImplemented:
		r.logger.WarnContext(ctx, "recipe_not_implemented", attrs...)
	default:
		if d.Err != nil {
			attrs = append(attrs, slog.String("error", d.Err.Error()))
		}
		if d.Step >= 0 {
			attrs = append(attrs,
				slog.Int("step_index", d.Step),
				slog.String("capability", d.Capability),
				slog.String("step_params", d.StepParams))
		}
		if d.Stack != "" {
			attrs = append(attrs, slog.String("stack", d.Stack))
		}
		r.logger.ErrorContext(ctx, "recipe_failed", attrs...)
	}
}

// Recorder keeps diagnostics in memory
type Recorder struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Report stores d
func (r *Recorder) Report(_ context.Context, d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diags = append(r.diags, d)
}

// Diagnostics returns a copy of everything reported so far
func (r *Recorder) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Diagnostic(nil), r.diags...)
}

// Failures returns only the diagnostics that describe failures
func (r *Recorder) Failures() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics() {
		if d.Failure() {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of diagnostics
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.diags)
}

// Reset discards all diagnostics
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diags = nil
}

// MultiReporter fans a diagnostic out to several reporters in order
type MultiReporter []Reporter

// Report forwards d to every non-nil reporter
func (m MultiReporter) Report(ctx context.Context, d Diagnostic) {
	for _, r := range m {
		if r != nil {
			r.Report(ctx, d)
		}
	}
}
