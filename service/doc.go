// Package service hosts the Analyzer, the orchestration layer that turns
// a capture session into routing analytics: it loads sessions from the
// lake, applies filters, extracts expert routes, builds the Sankey graph,
// and decorates nodes and links with composed colors and distribution
// statistics. Multi-window analyses fan out over a worker pool, and an
// optional NATS binding exposes the same analysis as request/reply.
package service
