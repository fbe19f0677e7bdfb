package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"ridepulse/internal/infrastructure"
	"ridepulse/internal/shared/testutil"
)

type otelFixture struct {
	reader  *sdkmetric.ManualReader
	spans   *tracetest.SpanRecorder
	metrics *infrastructure.BusinessMetrics
	mw      *OTelMiddleware
}

func newOTelFixture(t *testing.T) *otelFixture {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
		_ = tp.Shutdown(context.Background())
	})

	providers := &infrastructure.OTelProviders{
		TracerProvider: tp,
		MeterProvider:  mp,
		Tracer:         tp.Tracer(infrastructure.MeterName),
		Meter:          mp.Meter(infrastructure.MeterName),
		Logger:         logger,
	}
	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	mw, err := NewOTelMiddleware(providers, metrics)
	require.NoError(t, err)

	return &otelFixture{reader: reader, spans: spans, metrics: metrics, mw: mw}
}

func (f *otelFixture) requestCount(t *testing.T, route string, status int) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_requests_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				r, _ := dp.Attributes.Value(attribute.Key("route"))
				s, _ := dp.Attributes.Value(attribute.Key("status_code"))
				if r.AsString() == route && s.AsInt64() == int64(status) {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestOTelMiddleware(t *testing.T) {
	f := newOTelFixture(t)

	r := chi.NewRouter()
	r.Use(f.mw.Handler)
	r.Get("/api/dashboard/{view}", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, infrastructure.GetTraceID(r.Context()))
		if chi.URLParam(r, "view") == "MAP" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})

	for _, path := range []string{"/api/dashboard/OVERVIEW", "/api/dashboard/REVENUE", "/api/dashboard/MAP"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, int64(2), f.requestCount(t, "/api/dashboard/{view}", http.StatusOK))
	assert.Equal(t, int64(1), f.requestCount(t, "/api/dashboard/{view}", http.StatusNotFound))

	ended := f.spans.Ended()
	require.Len(t, ended, 3)
	assert.Equal(t, "GET /api/dashboard/{view}", ended[0].Name())
}

func TestNewOTelMiddleware_RequiresProviders(t *testing.T) {
	_, err := NewOTelMiddleware(nil, nil)
	assert.Error(t, err)
}

func TestBusinessMetricsMiddleware(t *testing.T) {
	f := newOTelFixture(t)

	var got *infrastructure.BusinessMetrics
	h := BusinessMetricsMiddleware(f.metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetBusinessMetricsFromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Same(t, f.metrics, got)
	assert.Nil(t, GetBusinessMetricsFromContext(context.Background()))
}

func TestWebSocketTraceMiddleware(t *testing.T) {
	logger, buf := testutil.NewTestLogger(t)

	var traced bool
	h := WebSocketTraceMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traced = true
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ws?session=abc", nil))

	assert.True(t, traced)
	assert.True(t, buf.ContainsAttr("session", "abc"))
}
