package routegraph

import (
	"sort"
)

// TopRoute is one entry of the most-frequent-routes table.
type TopRoute struct {
	Signature     string     `json:"signature"`
	Count         int        `json:"count"`
	Coverage      float64    `json:"coverage"`
	AvgConfidence float64    `json:"avg_confidence"`
	Examples      []TokenRef `json:"example_tokens"`
}

// maxRouteExamples caps the unique context/target examples per route.
const maxRouteExamples = 5

// TopRoutes returns the n most frequent routes with coverage relative to
// the full route set. Ties break by signature for a stable order.
func TopRoutes(routes map[string]*Route, n int) []TopRoute {
	totalCount := 0
	ordered := make([]*Route, 0, len(routes))
	for _, route := range routes {
		ordered = append(ordered, route)
		totalCount += route.Count
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Count != ordered[j].Count {
			return ordered[i].Count > ordered[j].Count
		}
		return ordered[i].Signature < ordered[j].Signature
	})

	if n > 0 && len(ordered) > n {
		ordered = ordered[:n]
	}

	top := make([]TopRoute, 0, len(ordered))
	for _, route := range ordered {
		coverage := 0.0
		if totalCount > 0 {
			coverage = float64(route.Count) / float64(totalCount)
		}
		top = append(top, TopRoute{
			Signature:     route.Signature,
			Count:         route.Count,
			Coverage:      coverage,
			AvgConfidence: route.AvgConfidence,
			Examples:      uniqueExamples(route.Tokens),
		})
	}
	return top
}

// uniqueExamples keeps the first occurrence of each context/target pair,
// capped for display.
func uniqueExamples(tokens []TokenRef) []TokenRef {
	seen := make(map[string]bool)
	var examples []TokenRef
	for _, token := range tokens {
		key := token.Context + "\x00" + token.Target
		if seen[key] {
			continue
		}
		seen[key] = true
		examples = append(examples, token)
		if len(examples) == maxRouteExamples {
			break
		}
	}
	return examples
}

// Statistics summarizes one analysis window.
type Statistics struct {
	TotalRoutes        int     `json:"total_routes"`
	TotalProbes        int     `json:"total_probes"`
	RoutesCoverage     float64 `json:"routes_coverage"`
	WindowLayers       []int   `json:"window_layers"`
	AvgRouteConfidence float64 `json:"avg_route_confidence"`
}

// WindowStatistics computes route coverage and confidence for a window:
// how many distinct routes exist, how many probes had target-token
// coverage in the window, and what share of them landed on a complete
// route.
func WindowStatistics(routes map[string]*Route, routing []RoutingRecord, window []int) Statistics {
	inWindow := make(map[int]bool, len(window))
	for _, layer := range window {
		inWindow[layer] = true
	}

	probes := make(map[string]bool)
	for _, r := range routing {
		if r.Position == PositionTarget && inWindow[r.Layer] {
			probes[r.ProbeID] = true
		}
	}

	routedCount := 0
	confidenceSum := 0.0
	for _, route := range routes {
		routedCount += route.Count
		confidenceSum += route.AvgConfidence
	}

	stats := Statistics{
		TotalRoutes:  len(routes),
		TotalProbes:  len(probes),
		WindowLayers: window,
	}
	if len(probes) > 0 {
		stats.RoutesCoverage = float64(routedCount) / float64(len(probes))
	}
	if len(routes) > 0 {
		stats.AvgRouteConfidence = confidenceSum / float64(len(routes))
	}
	return stats
}
