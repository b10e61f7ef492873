package routegraph

import (
	"sort"
)

// TokenRef identifies one probe's word pair on a route.
type TokenRef struct {
	Context string `json:"context"`
	Target  string `json:"target"`
	ProbeID string `json:"probe_id"`
}

// Route aggregates every probe whose target token took the same expert
// highway through the analysis window.
type Route struct {
	Signature     string     `json:"signature"`
	Tokens        []TokenRef `json:"tokens"`
	Count         int        `json:"count"`
	AvgConfidence float64    `json:"avg_confidence"`
}

// ExtractTargetRoutes groups target-token routing decisions by probe and
// collapses each probe's path through the window layers into a highway
// signature. Probes with incomplete coverage of the window are skipped.
// The result maps signature to aggregated route.
func ExtractTargetRoutes(routing []RoutingRecord, tokens []TokenRecord, window []int) map[string]*Route {
	inWindow := make(map[int]bool, len(window))
	for _, layer := range window {
		inWindow[layer] = true
	}

	byProbe := make(map[string][]RoutingRecord)
	for _, r := range routing {
		if r.Position == PositionTarget && inWindow[r.Layer] {
			byProbe[r.ProbeID] = append(byProbe[r.ProbeID], r)
		}
	}

	tokenByProbe := make(map[string]TokenRecord, len(tokens))
	for _, t := range tokens {
		tokenByProbe[t.ProbeID] = t
	}

	// Sorted probe order keeps route token lists deterministic.
	probeIDs := make([]string, 0, len(byProbe))
	for id := range byProbe {
		probeIDs = append(probeIDs, id)
	}
	sort.Strings(probeIDs)

	routes := make(map[string]*Route)
	confidenceSums := make(map[string]float64)

	for _, probeID := range probeIDs {
		records := byProbe[probeID]
		if len(records) != len(window) {
			continue // incomplete capture for this probe
		}
		sort.Slice(records, func(i, j int) bool { return records[i].Layer < records[j].Layer })

		signature := Signature(records)
		route, ok := routes[signature]
		if !ok {
			route = &Route{Signature: signature}
			routes[signature] = route
		}

		if token, ok := tokenByProbe[probeID]; ok {
			route.Tokens = append(route.Tokens, TokenRef{
				Context: token.Context,
				Target:  token.Target,
				ProbeID: probeID,
			})
		}
		route.Count++

		probeConfidence := 0.0
		for _, r := range records {
			probeConfidence += r.Confidence()
		}
		confidenceSums[signature] += probeConfidence / float64(len(records))
	}

	for signature, route := range routes {
		route.AvgConfidence = confidenceSums[signature] / float64(route.Count)
	}
	return routes
}
