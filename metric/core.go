package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "conceptmri"

// Metrics contains the platform-level metrics every deployment exposes.
// Domain-specific metrics register through the MetricsRegistry instead.
type Metrics struct {
	// Analysis metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	SessionsLoaded   prometheus.Counter
	NodesColored     prometheus.Counter

	// Gateway metrics
	HTTPRequests *prometheus.CounterVec
	WSClients    prometheus.Gauge

	// NATS metrics
	NATSConnected  prometheus.Gauge
	NATSReconnects prometheus.Counter

	ErrorsTotal *prometheus.CounterVec
}

// NewMetrics creates the platform metrics set.
func NewMetrics() *Metrics {
	return &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "analysis",
				Name:      "total",
				Help:      "Total number of route analyses by outcome",
			},
			[]string{"operation", "status"},
		),

		AnalysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "analysis",
				Name:      "duration_seconds",
				Help:      "Route analysis duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		SessionsLoaded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "sessions_loaded_total",
				Help:      "Total number of capture sessions loaded from the lake",
			},
		),

		NodesColored: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "palette",
				Name:      "nodes_colored_total",
				Help:      "Total number of Sankey nodes assigned a composed color",
			},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),

		WSClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "ws_clients",
				Help:      "Currently connected websocket clients",
			},
		),

		NATSConnected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "nats",
				Name:      "connected",
				Help:      "NATS connection status (0=disconnected, 1=connected)",
			},
		),

		NATSReconnects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "nats",
				Name:      "reconnects_total",
				Help:      "Total number of NATS reconnections",
			},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of errors by component and class",
			},
			[]string{"component", "class"},
		),
	}
}

// RecordAnalysis increments the analysis counter and observes its duration.
func (m *Metrics) RecordAnalysis(operation, status string, duration time.Duration) {
	m.AnalysesTotal.WithLabelValues(operation, status).Inc()
	m.AnalysisDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordHTTPRequest increments the gateway request counter.
func (m *Metrics) RecordHTTPRequest(route, code string) {
	m.HTTPRequests.WithLabelValues(route, code).Inc()
}

// RecordNATSStatus updates the NATS connection gauge.
func (m *Metrics) RecordNATSStatus(connected bool) {
	value := 0.0
	if connected {
		value = 1.0
	}
	m.NATSConnected.Set(value)
}

// RecordError increments the error counter.
func (m *Metrics) RecordError(component, class string) {
	m.ErrorsTotal.WithLabelValues(component, class).Inc()
}
