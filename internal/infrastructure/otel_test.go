package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"ridepulse/internal/config"
	"ridepulse/internal/shared/testutil"
)

func newManualMetrics(t *testing.T) (*BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := CreateBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumFor(t *testing.T, m metricdata.Metrics, view string) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key("view")); ok && v.AsString() == view {
			return dp.Value
		}
	}
	return 0
}

func TestOTelInitialization(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    "test-service",
		ServiceVersion: "v1.0.0",
		Environment:    "test",
		TraceExporter:  "stdout",
		MetricExporter: "prometheus",
		SampleRatio:    1.0,
	}, logger)
	require.NoError(t, err)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelInitialization_Disabled(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	providers, err := InitializeOTel(&OTelConfig{TraceExporter: "none", MetricExporter: "none"}, logger)
	require.NoError(t, err)

	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	require.NotNil(t, providers.Meter, "no-op meter stands in")
	require.NotNil(t, providers.Tracer)

	m, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	RecordRender(context.Background(), m, "OVERVIEW", 0, time.Millisecond, nil)
}

func TestOTelInitialization_UnsupportedExporter(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	_, err := InitializeOTel(&OTelConfig{TraceExporter: "jaeger", MetricExporter: "none"}, logger)
	assert.Error(t, err)

	_, err = InitializeOTel(&OTelConfig{TraceExporter: "none", MetricExporter: "statsd"}, logger)
	assert.Error(t, err)
}

func TestOTelConfigFrom(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{
		Environment:    "staging",
		TraceExporter:  "stdout",
		MetricExporter: "none",
		SampleRatio:    0.25,
	})

	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, config.AppVersion, cfg.ServiceVersion)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 0.25, cfg.SampleRatio)
}

func TestRecordRender(t *testing.T) {
	m, reader := newManualMetrics(t)
	ctx := context.Background()

	RecordRender(ctx, m, "REVENUE", 12, 3*time.Millisecond, nil)
	RecordRender(ctx, m, "REVENUE", 0, time.Millisecond, nil)
	RecordRender(ctx, m, "RATINGS", 0, 0, errors.New("filter not supported"))

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumFor(t, got["dashboard_renders_total"], "REVENUE"))
	assert.Equal(t, int64(1), sumFor(t, got["dashboard_empty_selections_total"], "REVENUE"))
	assert.Equal(t, int64(1), sumFor(t, got["dashboard_render_errors_total"], "RATINGS"))
	assert.Equal(t, int64(0), sumFor(t, got["dashboard_renders_total"], "RATINGS"))

	hist, ok := got["dashboard_render_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
}

func TestRecordDatasetAndSessions(t *testing.T) {
	m, reader := newManualMetrics(t)
	ctx := context.Background()

	RecordDatasetLoad(ctx, m, "data.csv", 1500, nil)
	RecordDatasetLoad(ctx, m, "missing.csv", 0, errors.New("dataset unavailable"))
	RecordSessionChange(ctx, m, 1)
	RecordSessionChange(ctx, m, 1)
	RecordSessionChange(ctx, m, -1)
	RecordExport(ctx, m, "REVENUE", "csv")

	got := collect(t, reader)

	gauge, ok := got["dataset_rows_loaded"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(1500), gauge.DataPoints[0].Value)

	sessions, ok := got["sessions_active"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sessions.DataPoints, 1)
	assert.Equal(t, int64(1), sessions.DataPoints[0].Value)

	assert.Equal(t, int64(1), sumFor(t, got["dashboard_exports_total"], "REVENUE"))
	assert.Contains(t, got, "dataset_load_errors_total")
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRender(ctx, nil, "OVERVIEW", 1, time.Millisecond, nil)
		RecordExport(ctx, nil, "OVERVIEW", "csv")
		RecordDatasetLoad(ctx, nil, "x", 1, nil)
		RecordSessionChange(ctx, nil, 1)
		RecordWebSocketClientChange(ctx, nil, 1)
	})
}

func TestTraceIDFromContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "dashboard.render")
	defer span.End()

	assert.Equal(t, span.SpanContext().TraceID().String(), TraceIDFromContext(ctx))
	assert.Empty(t, TraceIDFromContext(context.Background()))

	RecordError(ctx, errors.New("boom"))
}

func TestPrometheusEndpoint(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	providers, err := InitializeOTel(&OTelConfig{TraceExporter: "none", MetricExporter: "prometheus"}, logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	m, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	RecordRender(context.Background(), m, "OVERVIEW", 3, time.Millisecond, nil)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dashboard_renders_total")
}
