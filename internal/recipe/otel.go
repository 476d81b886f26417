package recipe

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"gprcli/internal/infrastructure"
)

const (
	TracerName = "gprcli.recipe"
)

// Tracer provides OpenTelemetry instrumentation for recipe applications
type Tracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.RecipeMetrics
}

// NewTracer creates a tracer from initialized providers
func NewTracer(providers *infrastructure.OTelProviders) (*Tracer, error) {
	if providers == nil {
		providers = infrastructure.NoopProviders()
	}
	metrics, err := infrastructure.CreateRecipeMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe metrics: %w", err)
	}

	tracer := providers.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(TracerName)
	}

	return &Tracer{
		tracer:  tracer,
		metrics: metrics,
	}, nil
}

// Metrics returns the recipe instruments
func (t *Tracer) Metrics() *infrastructure.RecipeMetrics {
	if t == nil {
		return nil
	}
	return t.metrics
}

// Start creates a span for one recipe application. A nil Tracer returns a
// non-recording span.
func (t *Tracer) Start(ctx context.Context, cmd Command) (context.Context, trace.Span) {
	if t == nil {
		return ctx, noop.Span{}
	}
	return t.tracer.Start(ctx, fmt.Sprintf("recipe.apply.%s", cmd.Name),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("recipe.name", cmd.Name),
			attribute.StringSlice("recipe.params", cmd.Params),
		),
	)
}

// Finish records the result on the span and metrics and ends the span
func (t *Tracer) Finish(ctx context.Context, span trace.Span, res Result) {
	defer span.End()

	span.SetAttributes(
		attribute.String("recipe.status", res.Status()),
		attribute.Int("recipe.capability_calls", res.Calls),
		attribute.Float64("recipe.duration_seconds", res.Duration.Seconds()),
	)
	if res.Err != nil {
		span.RecordError(res.Err)
		if res.Failed() {
			span.SetStatus(codes.Error, res.Err.Error())
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}

	errorType := ""
	if res.Failed() {
		errorType = string(res.Kind)
	}
	t.Metrics().RecordApplication(ctx, res.Recipe, res.Status(), errorType, res.Calls, res.Duration)
}
