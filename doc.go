// Package conceptmri provides the categorical route analytics engine behind
// the Concept MRI dashboard: deterministic analysis of how tokens route
// through the expert layers of a Mixture-of-Experts language model.
//
// # Architecture
//
// The engine is organized as a set of pure, leaf-level analytics packages
// orchestrated by a thin service and gateway layer:
//
//	┌─────────────────────────────────────┐
//	│           Gateway (HTTP/WS)         │  analyze-routes, route-details,
//	│                                     │  swatches, live feed
//	└─────────────────────────────────────┘
//	           ↓ calls
//	┌─────────────────────────────────────┐
//	│         Analyzer Service            │  window fan-out, NATS wiring,
//	│                                     │  metrics
//	└─────────────────────────────────────┘
//	           ↓ composes
//	┌─────────────────────────────────────┐
//	│   axis · palette · stats · sampler  │  pure value computations
//	│          routegraph · store         │  route extraction, session lake
//	└─────────────────────────────────────┘
//
// # Packages
//
// Analytics (pure, no I/O):
//   - axis: semantic axis registry, polarity positions, multi-axis breakdowns
//   - palette: gradient registry, color interpolation, blending, composition
//   - stats: distribution statistics (entropy, diversity, hypothesis tests)
//   - sampler: balanced category sampling and filter payload assembly
//   - routegraph: expert route extraction and Sankey graph construction
//
// Infrastructure:
//   - store: session data lake (routing/token/manifest records)
//   - natsclient: NATS connection management
//   - metric: Prometheus metrics
//   - errors: classified error handling
//   - config: configuration loading and validation
//   - health: per-component health monitoring behind /healthz
//   - pkg/worker: instrumented worker pool for parallel window analysis
//   - pkg/cache: LRU session cache inside the store
//
// Every analytics operation is a synchronous, CPU-bound pure function of its
// inputs; the only injected state is the random source used by the sampler.
// Calls are safe to run concurrently without coordination.
package conceptmri
