package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RecipeMetrics holds the recipe engine instruments
type RecipeMetrics struct {
	RecipeApplications metric.Int64Counter
	RecipeFailures     metric.Int64Counter
	CapabilityCalls    metric.Int64Counter
	RecipeDuration     metric.Float64Histogram
	BatchItems         metric.Int64Counter
}

// CreateRecipeMetrics registers the recipe instruments on meter
func CreateRecipeMetrics(meter metric.Meter) (*RecipeMetrics, error) {
	applications, err := meter.Int64Counter(
		"recipe_applications_total",
		metric.WithDescription("Total number of recipe applications by outcome"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"recipe_failures_total",
		metric.WithDescription("Total number of failed recipe applications by error type"),
	)
	if err != nil {
		return nil, err
	}

	calls, err := meter.Int64Counter(
		"recipe_capability_calls_total",
		metric.WithDescription("Total number of capability calls made by recipes"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"recipe_duration_seconds",
		metric.WithDescription("Recipe application duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	items, err := meter.Int64Counter(
		"batch_items_total",
		metric.WithDescription("Total number of gathers processed by the batch runner"),
	)
	if err != nil {
		return nil, err
	}

	return &RecipeMetrics{
		RecipeApplications: applications,
		RecipeFailures:     failures,
		CapabilityCalls:    calls,
		RecipeDuration:     duration,
		BatchItems:         items,
	}, nil
}

// RecordApplication records one Apply outcome
func (m *RecipeMetrics) RecordApplication(ctx context.Context, recipe, outcome, errorType string, calls int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("recipe", recipe),
		attribute.String("outcome", outcome),
	)
	m.RecipeApplications.Add(ctx, 1, attrs)
	m.RecipeDuration.Record(ctx, duration.Seconds(), attrs)
	if calls > 0 {
		m.CapabilityCalls.Add(ctx, int64(calls), metric.WithAttributes(attribute.String("recipe", recipe)))
	}
	if errorType != "" {
		m.RecipeFailures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("recipe", recipe),
			attribute.String("error_type", errorType),
		))
	}
}

// RecordBatchItem records one processed gather
func (m *RecipeMetrics) RecordBatchItem(ctx context.Context, failed bool) {
	if m == nil {
		return
	}
	status := "ok"
	if failed {
		status = "failed"
	}
	m.BatchItems.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
