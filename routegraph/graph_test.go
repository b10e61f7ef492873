package routegraph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/types"
)

// entropyFor builds the gate entropy that yields the wanted confidence.
func entropyFor(confidence float64) float64 {
	return (1 - confidence) * math.Log(ExpertCount)
}

func targetRecord(probe string, layer, expert int, confidence float64) RoutingRecord {
	return RoutingRecord{
		ProbeID:          probe,
		Layer:            layer,
		Position:         PositionTarget,
		TopExpertIDs:     [TopK]int{expert, (expert + 1) % ExpertCount, (expert + 2) % ExpertCount, (expert + 3) % ExpertCount},
		TopExpertWeights: [TopK]float64{0.7, 0.2, 0.07, 0.03},
		Top1ID:           expert,
		Top1Weight:       0.7,
		GateEntropy:      entropyFor(confidence),
	}
}

func sessionFixture() ([]RoutingRecord, []TokenRecord, *Manifest) {
	routing := []RoutingRecord{
		// p1 and p2 take L0E1 -> L1E2
		targetRecord("p1", 0, 1, 0.8),
		targetRecord("p1", 1, 2, 0.6),
		targetRecord("p2", 0, 1, 1.0),
		targetRecord("p2", 1, 2, 1.0),
		// p3 diverges to L1E3
		targetRecord("p3", 0, 1, 0.5),
		targetRecord("p3", 1, 3, 0.5),
		// p4 has incomplete window coverage
		targetRecord("p4", 0, 7, 0.9),
		// context-position records never contribute to routes
		{ProbeID: "p1", Layer: 0, Position: PositionContext, Top1ID: 30},
	}

	tokens := []TokenRecord{
		{ProbeID: "p1", Context: "the", Target: "cat"},
		{ProbeID: "p2", Context: "the", Target: "justice"},
		{ProbeID: "p3", Context: "a", Target: "run"},
		{ProbeID: "p4", Context: "a", Target: "rock"},
	}

	manifest := &Manifest{
		ContextAssignments: map[string][]string{
			"the": {"determiners"},
			"a":   {"determiners"},
		},
		TargetAssignments: map[string][]string{
			"cat":     {"nouns", "concrete"},
			"justice": {"nouns", "abstract"},
			"run":     {"verbs"},
			"rock":    {"nouns", "concrete"},
		},
	}
	return routing, tokens, manifest
}

func TestExtractTargetRoutes(t *testing.T) {
	routing, tokens, _ := sessionFixture()

	routes := ExtractTargetRoutes(routing, tokens, []int{0, 1})

	require.Len(t, routes, 2)
	main := routes["L0E1→L1E2"]
	require.NotNil(t, main)
	assert.Equal(t, 2, main.Count)
	assert.Equal(t, []TokenRef{
		{Context: "the", Target: "cat", ProbeID: "p1"},
		{Context: "the", Target: "justice", ProbeID: "p2"},
	}, main.Tokens)
	// p1 averages (0.8+0.6)/2 = 0.7, p2 averages 1.0 -> route mean 0.85
	assert.InDelta(t, 0.85, main.AvgConfidence, 1e-9)

	side := routes["L0E1→L1E3"]
	require.NotNil(t, side)
	assert.Equal(t, 1, side.Count)
	assert.InDelta(t, 0.5, side.AvgConfidence, 1e-9)
}

func TestExtractSkipsIncompleteProbes(t *testing.T) {
	routing, tokens, _ := sessionFixture()

	routes := ExtractTargetRoutes(routing, tokens, []int{0, 1})

	for signature := range routes {
		assert.NotContains(t, signature, "E7", "incomplete probe p4 leaked into %s", signature)
	}
}

func TestBuildGraphNodes(t *testing.T) {
	routing, tokens, manifest := sessionFixture()
	routes := ExtractTargetRoutes(routing, tokens, []int{0, 1})

	graph := BuildGraph(routes, manifest, nil)

	require.Len(t, graph.Nodes, 3)
	// sorted by layer then expert
	assert.Equal(t, "L0E1", graph.Nodes[0].Name)
	assert.Equal(t, "L1E2", graph.Nodes[1].Name)
	assert.Equal(t, "L1E3", graph.Nodes[2].Name)

	entry := graph.Nodes[0]
	assert.Equal(t, 0, entry.Layer)
	assert.Equal(t, 1, entry.Expert)
	// cat + justice + run: nouns 2, concrete 1, abstract 1, verbs 1
	assert.Equal(t, types.Distribution{"nouns": 2, "concrete": 1, "abstract": 1, "verbs": 1}, entry.Distribution)
	assert.Equal(t, 5, entry.TokenCount)
	assert.Equal(t, []string{"nouns", "abstract", "concrete"}, entry.Dominant)
}

func TestBuildGraphLinks(t *testing.T) {
	routing, tokens, manifest := sessionFixture()
	routes := ExtractTargetRoutes(routing, tokens, []int{0, 1})

	graph := BuildGraph(routes, manifest, nil)

	require.Len(t, graph.Links, 2)

	main := graph.Links[0]
	assert.Equal(t, "L0E1", main.Source)
	assert.Equal(t, "L1E2", main.Target)
	assert.Equal(t, 2, main.Value)
	assert.InDelta(t, 2.0/3.0, main.Probability, 1e-9)
	assert.Equal(t, "L0E1→L1E2", main.Signature)
	// cat + justice
	assert.Equal(t, types.Distribution{"nouns": 2, "concrete": 1, "abstract": 1}, main.Distribution)

	side := graph.Links[1]
	assert.Equal(t, "L1E3", side.Target)
	assert.InDelta(t, 1.0/3.0, side.Probability, 1e-9)
	assert.Equal(t, types.Distribution{"verbs": 1}, side.Distribution)
}

func TestBuildGraphContextTargets(t *testing.T) {
	routing, tokens, manifest := sessionFixture()
	routes := ExtractTargetRoutes(routing, tokens, []int{0, 1})

	graph := BuildGraph(routes, manifest, nil)

	entry := graph.Nodes[0]
	require.Len(t, entry.ContextTargets, 2)
	assert.Equal(t, "a", entry.ContextTargets[0].Context)
	assert.Equal(t, []string{"run"}, entry.ContextTargets[0].Targets)
	assert.Equal(t, "the", entry.ContextTargets[1].Context)
	assert.ElementsMatch(t, []string{"cat", "justice"}, entry.ContextTargets[1].Targets)
	assert.Equal(t, 2, entry.ContextTargets[1].TargetCount)
}

func TestBuildGraphRespectsTargetCategoryFilter(t *testing.T) {
	routing, tokens, manifest := sessionFixture()
	routes := ExtractTargetRoutes(routing, tokens, []int{0, 1})

	filter := &types.FilterConfig{TargetCategories: []string{"nouns"}}
	graph := BuildGraph(routes, manifest, filter)

	for _, node := range graph.Nodes {
		for category := range node.Distribution {
			assert.Equal(t, "nouns", category)
		}
	}
}

func TestApplyFilterCategoryMode(t *testing.T) {
	routing, tokens, manifest := sessionFixture()

	filteredRouting, filteredTokens := ApplyFilter(routing, tokens, manifest,
		&types.FilterConfig{TargetCategories: []string{"verbs"}})

	require.Len(t, filteredTokens, 1)
	assert.Equal(t, "p3", filteredTokens[0].ProbeID)
	for _, r := range filteredRouting {
		assert.Equal(t, "p3", r.ProbeID)
	}
}

func TestApplyFilterWordMode(t *testing.T) {
	routing, tokens, manifest := sessionFixture()

	_, filteredTokens := ApplyFilter(routing, tokens, manifest,
		&types.FilterConfig{TargetWords: []string{"cat", "rock"}})

	ids := make([]string, 0, len(filteredTokens))
	for _, tok := range filteredTokens {
		ids = append(ids, tok.ProbeID)
	}
	assert.ElementsMatch(t, []string{"p1", "p4"}, ids)
}

func TestApplyFilterSidesCombineWithAND(t *testing.T) {
	routing, tokens, manifest := sessionFixture()

	_, filteredTokens := ApplyFilter(routing, tokens, manifest, &types.FilterConfig{
		ContextWords:     []string{"the"},
		TargetCategories: []string{"verbs"},
	})

	// "run" has context "a", so nothing passes both constraints
	assert.Empty(t, filteredTokens)
}

func TestApplyFilterEmptyIsPassthrough(t *testing.T) {
	routing, tokens, manifest := sessionFixture()

	gotRouting, gotTokens := ApplyFilter(routing, tokens, manifest, nil)

	assert.Equal(t, routing, gotRouting)
	assert.Equal(t, tokens, gotTokens)
}

func TestTopRoutes(t *testing.T) {
	routing, tokens, _ := sessionFixture()
	routes := ExtractTargetRoutes(routing, tokens, []int{0, 1})

	top := TopRoutes(routes, 10)

	require.Len(t, top, 2)
	assert.Equal(t, "L0E1→L1E2", top[0].Signature)
	assert.Equal(t, 2, top[0].Count)
	assert.InDelta(t, 2.0/3.0, top[0].Coverage, 1e-9)
	require.Len(t, top[0].Examples, 2)

	// n caps the list
	assert.Len(t, TopRoutes(routes, 1), 1)
}

func TestTopRoutesDeduplicatesExamples(t *testing.T) {
	routes := map[string]*Route{
		"L0E0→L1E0": {
			Signature: "L0E0→L1E0",
			Count:     3,
			Tokens: []TokenRef{
				{Context: "the", Target: "cat", ProbeID: "p1"},
				{Context: "the", Target: "cat", ProbeID: "p2"},
				{Context: "a", Target: "cat", ProbeID: "p3"},
			},
		},
	}

	top := TopRoutes(routes, 5)

	require.Len(t, top, 1)
	assert.Len(t, top[0].Examples, 2)
}

func TestWindowStatistics(t *testing.T) {
	routing, tokens, _ := sessionFixture()
	window := []int{0, 1}
	routes := ExtractTargetRoutes(routing, tokens, window)

	stats := WindowStatistics(routes, routing, window)

	assert.Equal(t, 2, stats.TotalRoutes)
	assert.Equal(t, 4, stats.TotalProbes) // p4 has window presence even though incomplete
	assert.InDelta(t, 3.0/4.0, stats.RoutesCoverage, 1e-9)
	assert.Equal(t, window, stats.WindowLayers)
	assert.InDelta(t, (0.85+0.5)/2, stats.AvgRouteConfidence, 1e-9)
}

func TestSpecialize(t *testing.T) {
	assert.Equal(t, "No clear specialization", Specialize(nil))
	assert.Equal(t, "No clear specialization", Specialize(types.Distribution{}))

	// strong axis dominance: nouns 90% of the part-of-speech axis
	strong := Specialize(types.Distribution{"nouns": 9, "verbs": 1})
	assert.Equal(t, "nouns (90%)", strong)

	// no axis above 60%: falls back to global mix
	mixed := Specialize(types.Distribution{"nouns": 5, "verbs": 5})
	assert.Equal(t, "Mixed: nouns (50%)", mixed)
}
