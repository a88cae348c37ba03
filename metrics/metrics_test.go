package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The settings cell is process-wide and write-once, so the explicit-init
// test must run before anything else in this package touches an instrument.

func TestTryInitSettings(t *testing.T) {
	reg := prometheus.NewRegistry()
	buckets := []float64{0.1, 0.5, 2}

	require.NoError(t, TryInitSettings(GlobalSettings{
		Registry:         reg,
		HistogramBuckets: buckets,
	}))

	// A second initialization is rejected and the first configuration stays
	// in effect.
	err := TryInitSettings(GlobalSettings{HistogramBuckets: []float64{42}})
	require.ErrorIs(t, err, ErrAlreadyInitialized)

	ServerHandlingSeconds().WithLabelValues("svc", "m", "Ok").Observe(0.3)

	families, err := reg.Gather()
	require.NoError(t, err)

	var histogram *dto.Histogram
	for _, mf := range families {
		if mf.GetName() == "grpc_server_handling_seconds" {
			histogram = mf.GetMetric()[0].GetHistogram()
		}
	}
	require.NotNil(t, histogram, "histogram must land in the configured registry")

	var bounds []float64
	for _, b := range histogram.GetBucket() {
		bounds = append(bounds, b.GetUpperBound())
	}
	assert.Equal(t, buckets, bounds)
}

func TestInstrumentsAreSharedHandles(t *testing.T) {
	// Repeated creation attempts are idempotent reuses of the same vector.
	assert.Same(t, ServerStartedTotal(), ServerStartedTotal())
	assert.Same(t, ClientHandledTotal(), ClientHandledTotal())
	assert.Same(t, HTTPCallsConcurrent(), HTTPCallsConcurrent())
}

func TestEncodeToString(t *testing.T) {
	ServerStartedTotal().WithLabelValues("encode.Service", "Run").Inc()

	text, err := EncodeToString()
	require.NoError(t, err)

	assert.Contains(t, text, "# TYPE grpc_server_started_total counter")
	assert.Contains(t, text,
		`grpc_server_started_total{grpc_method="Run",grpc_service="encode.Service"} 1`)
}

func TestHandler(t *testing.T) {
	ClientStartedTotal().WithLabelValues("handler.Service", "Run").Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body),
		`grpc_client_started_total{grpc_method="Run",grpc_service="handler.Service"} 1`))
}

func TestDefaultBucketsShape(t *testing.T) {
	require.NotEmpty(t, DefaultHistogramBuckets)
	for i := 1; i < len(DefaultHistogramBuckets); i++ {
		assert.Greater(t, DefaultHistogramBuckets[i], DefaultHistogramBuckets[i-1],
			"bucket boundaries must ascend")
	}
	assert.Greater(t, DefaultHistogramBuckets[0], 0.0)
}
