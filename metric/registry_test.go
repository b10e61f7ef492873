package metric

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatheredNames(t *testing.T, registry *MetricsRegistry) map[string]bool {
	t.Helper()
	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	return names
}

func TestNewMetricsRegistry(t *testing.T) {
	registry := NewMetricsRegistry()

	assert.NotNil(t, registry)
	assert.NotNil(t, registry.PrometheusRegistry())
	assert.NotNil(t, registry.CoreMetrics())
}

func TestPlatformMetricsRegistered(t *testing.T) {
	registry := NewMetricsRegistry()
	metrics := registry.CoreMetrics()

	// touch the vectors so they gather
	metrics.RecordAnalysis("analyze_routes", "success", 120*time.Millisecond)
	metrics.RecordHTTPRequest("/api/experiments/analyze-routes", "200")
	metrics.RecordError("service", "transient")
	metrics.RecordNATSStatus(true)
	metrics.SessionsLoaded.Inc()
	metrics.NodesColored.Add(12)
	metrics.WSClients.Set(3)

	names := gatheredNames(t, registry)
	for _, want := range []string{
		"conceptmri_analysis_total",
		"conceptmri_analysis_duration_seconds",
		"conceptmri_store_sessions_loaded_total",
		"conceptmri_palette_nodes_colored_total",
		"conceptmri_gateway_http_requests_total",
		"conceptmri_gateway_ws_clients",
		"conceptmri_nats_connected",
		"conceptmri_errors_total",
	} {
		assert.True(t, names[want], "missing platform metric %s", want)
	}
}

func TestRegisterComponentMetrics(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_counter",
		Help: "A test counter",
	})
	require.NoError(t, registry.RegisterCounter("analyzer", "test_counter", counter))
	counter.Inc()

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_gauge",
		Help: "A test gauge",
	})
	require.NoError(t, registry.RegisterGauge("analyzer", "test_gauge", gauge))
	gauge.Set(42.0)

	histogram := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "test_histogram",
		Help:    "A test histogram",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})
	require.NoError(t, registry.RegisterHistogramVec("analyzer", "test_histogram", histogram))
	histogram.WithLabelValues("success").Observe(1.5)

	names := gatheredNames(t, registry)
	assert.True(t, names["test_counter"])
	assert.True(t, names["test_gauge"])
	assert.True(t, names["test_histogram"])
}

func TestPreventDuplicateRegistration(t *testing.T) {
	registry := NewMetricsRegistry()

	first := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dup_counter",
		Help: "first",
	})
	require.NoError(t, registry.RegisterCounter("analyzer", "dup_counter", first))

	second := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dup_counter",
		Help: "second",
	})
	err := registry.RegisterCounter("analyzer", "dup_counter", second)
	assert.Error(t, err)
}

func TestUnregister(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "removable_counter",
		Help: "A removable counter",
	})
	require.NoError(t, registry.RegisterCounter("analyzer", "removable_counter", counter))

	assert.True(t, registry.Unregister("analyzer", "removable_counter"))
	assert.False(t, registry.Unregister("analyzer", "removable_counter"))

	// name is free again after unregister
	replacement := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "removable_counter",
		Help: "A replacement counter",
	})
	assert.NoError(t, registry.RegisterCounter("analyzer", "removable_counter", replacement))
}

func TestConcurrentRegistration(t *testing.T) {
	registry := NewMetricsRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			counter := prometheus.NewCounter(prometheus.CounterOpts{
				Name: fmt.Sprintf("concurrent_counter_%d", i),
				Help: "A concurrent counter",
			})
			assert.NoError(t, registry.RegisterCounter("analyzer", counter.Desc().String(), counter))
		}(i)
	}
	wg.Wait()
}
