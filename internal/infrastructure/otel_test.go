package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"gprcli/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestOTelInitialization(t *testing.T) {
	cfg := &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: ServiceVersion,
		TraceExporter:  ExporterStdout,
		MetricExporter: ExporterPrometheus,
		SampleRatio:    1,
	}

	providers, err := InitializeOTel(cfg, testLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelDisabled(t *testing.T) {
	for _, cfg := range []*OTelConfig{nil, OTelConfigFromTelemetry(config.Default().Telemetry)} {
		providers, err := InitializeOTel(cfg, testLogger())
		require.NoError(t, err)
		assert.Nil(t, providers.TracerProvider)
		assert.Nil(t, providers.MeterProvider)
		assert.Nil(t, providers.PrometheusHTTP)
		assert.NotNil(t, providers.Tracer)
		assert.NotNil(t, providers.Meter)
		assert.NoError(t, providers.Shutdown(context.Background()))
	}
}

func TestOTelUnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{TraceExporter: "jaeger"}, testLogger())
	assert.ErrorContains(t, err, "unsupported trace exporter")

	_, err = InitializeOTel(&OTelConfig{MetricExporter: "statsd"}, testLogger())
	assert.ErrorContains(t, err, "unsupported metric exporter")
}

func TestOTelConfigFromTelemetry(t *testing.T) {
	tel := config.Default().Telemetry
	tel.TraceExporter = ExporterStdout
	cfg := OTelConfigFromTelemetry(tel)
	assert.False(t, cfg.Tracing())
	assert.False(t, cfg.Metrics())
	assert.Equal(t, ServiceName, cfg.ServiceName)

	tel.Enabled = true
	tel.MetricExporter = ExporterPrometheus
	tel.SampleRatio = 0.5
	tel.ServiceName = "gpr-test"
	cfg = OTelConfigFromTelemetry(tel)
	assert.True(t, cfg.Tracing())
	assert.True(t, cfg.Metrics())
	assert.Equal(t, 0.5, cfg.SampleRatio)
	assert.Equal(t, "gpr-test", cfg.ServiceName)
}

func TestNewResourceIdentifiesRun(t *testing.T) {
	cfg := &OTelConfig{ServiceName: "gpr-test", ServiceVersion: "9.9.9"}
	a := newResource(cfg)
	b := newResource(cfg)

	name, ok := a.Set().Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, "gpr-test", name.AsString())

	idA, ok := a.Set().Value(semconv.ServiceInstanceIDKey)
	require.True(t, ok)
	idB, _ := b.Set().Value(semconv.ServiceInstanceIDKey)
	assert.NotEmpty(t, idA.AsString())
	assert.NotEqual(t, idA.AsString(), idB.AsString())
}

func TestRecordError(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "batch")
	RecordError(ctx, errors.New("load failed"))
	RecordError(ctx, nil)
	span.End()

	ro, ok := span.(sdktrace.ReadOnlySpan)
	require.True(t, ok)
	assert.Equal(t, codes.Error, ro.Status().Code)
	assert.Equal(t, "load failed", ro.Status().Description)
	assert.Len(t, ro.Events(), 1)

	assert.NotPanics(t, func() { RecordError(context.Background(), errors.New("no span")) })
}

func TestRecipeMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := CreateRecipeMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordApplication(ctx, "gc", "applied", "", 2, 10*time.Millisecond)
	metrics.RecordApplication(ctx, "engd", "failed", "degenerate", 3, time.Millisecond)
	metrics.RecordBatchItem(ctx, false)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	sums := make(map[string]int64)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		if data, ok := m.Data.(metricdata.Sum[int64]); ok {
			for _, dp := range data.DataPoints {
				sums[m.Name] += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), sums["recipe_applications_total"])
	assert.Equal(t, int64(1), sums["recipe_failures_total"])
	assert.Equal(t, int64(5), sums["recipe_capability_calls_total"])
	assert.Equal(t, int64(1), sums["batch_items_total"])
}

func TestRecipeMetricsNilSafe(t *testing.T) {
	var m *RecipeMetrics
	assert.NotPanics(t, func() {
		m.RecordApplication(context.Background(), "gc", "applied", "", 1, time.Second)
		m.RecordBatchItem(context.Background(), true)
	})
}
