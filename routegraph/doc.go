// Package routegraph turns captured MoE routing records into the Sankey
// graph the dashboard renders: per-probe expert routes across a window of
// layers, aggregated into nodes and links that carry category count
// distributions, dominant categories, and axis-aware specialization
// summaries.
//
// The package is pure data transformation. Records come from a capture
// session (see the store package); colors and statistics for the resulting
// distributions are computed downstream by the palette and stats packages.
package routegraph
