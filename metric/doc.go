// Package metric provides Prometheus-based metrics for the analysis
// service: a private registry carrying the platform metrics (analysis
// counts and durations, gateway traffic, NATS health) plus extensible
// registration for component-specific metrics, and an HTTP server
// exposing them in Prometheus format.
package metric
