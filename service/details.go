package service

import (
	"context"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/errors"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/routegraph"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/types"
)

// expertTokenSample caps the example tokens in an expert detail view.
const expertTokenSample = 20

// CategoryBreakdown counts category occurrences among a token set,
// separately for context and target words.
type CategoryBreakdown struct {
	ContextCategories types.Distribution `json:"context_categories"`
	TargetCategories  types.Distribution `json:"target_categories"`
}

// RouteDetails is the drill-down view of one route.
type RouteDetails struct {
	Signature     string                `json:"signature"`
	WindowLayers  []int                 `json:"window_layers"`
	Tokens        []routegraph.TokenRef `json:"tokens"`
	Count         int                   `json:"count"`
	Coverage      float64               `json:"coverage"`
	AvgConfidence float64               `json:"avg_confidence"`
	Breakdown     CategoryBreakdown     `json:"category_breakdown"`
}

// ExpertDetails is the drill-down view of one expert at one layer.
type ExpertDetails struct {
	Layer         int                   `json:"layer"`
	Expert        int                   `json:"expert_id"`
	NodeName      string                `json:"node_name"`
	Tokens        []routegraph.TokenRef `json:"tokens"`
	TotalTokens   int                   `json:"total_tokens"`
	UsageRate     float64               `json:"usage_rate"`
	AvgConfidence float64               `json:"avg_confidence"`
	Breakdown     CategoryBreakdown     `json:"category_breakdown"`
}

// RouteDetails returns the full token list and category breakdown for
// one route signature within a window.
func (a *Analyzer) RouteDetails(
	ctx context.Context,
	sessionID, signature string,
	window []int,
) (*RouteDetails, error) {
	session, err := a.store.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	routes := routegraph.ExtractTargetRoutes(session.Routing, session.Tokens, window)
	route, ok := routes[signature]
	if !ok {
		return nil, errors.WrapInvalid(errors.ErrRouteNotFound, "service", "RouteDetails",
			"route "+signature+" in session "+sessionID)
	}

	coverage := 0.0
	if len(session.Tokens) > 0 {
		coverage = float64(len(route.Tokens)) / float64(len(session.Tokens))
	}

	return &RouteDetails{
		Signature:     signature,
		WindowLayers:  window,
		Tokens:        route.Tokens,
		Count:         route.Count,
		Coverage:      coverage,
		AvgConfidence: route.AvgConfidence,
		Breakdown:     categoryBreakdown(route.Tokens, session.Manifest),
	}, nil
}

// ExpertDetails returns the tokens routed through one expert at one
// layer, its usage rate among target tokens, and the mean top-1 gate
// weight of those routings.
func (a *Analyzer) ExpertDetails(
	ctx context.Context,
	sessionID string,
	layer, expert int,
) (*ExpertDetails, error) {
	if layer < 0 || layer >= routegraph.LayerCount {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "service", "ExpertDetails", "layer out of range")
	}
	if expert < 0 || expert >= routegraph.ExpertCount {
		return nil, errors.WrapInvalid(errors.ErrExpertNotFound, "service", "ExpertDetails", "expert out of range")
	}

	session, err := a.store.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	tokenByProbe := make(map[string]routegraph.TokenRecord, len(session.Tokens))
	for _, t := range session.Tokens {
		tokenByProbe[t.ProbeID] = t
	}

	var tokens []routegraph.TokenRef
	weightSum := 0.0
	layerTargets := 0

	for _, r := range session.Routing {
		if r.Position != routegraph.PositionTarget || r.Layer != layer {
			continue
		}
		layerTargets++
		if r.Top1ID != expert {
			continue
		}
		token, ok := tokenByProbe[r.ProbeID]
		if !ok {
			continue
		}
		tokens = append(tokens, routegraph.TokenRef{
			Context: token.Context,
			Target:  token.Target,
			ProbeID: r.ProbeID,
		})
		weightSum += r.Top1Weight
	}

	usageRate := 0.0
	if layerTargets > 0 {
		usageRate = float64(len(tokens)) / float64(layerTargets)
	}
	avgConfidence := 0.0
	if len(tokens) > 0 {
		avgConfidence = weightSum / float64(len(tokens))
	}

	sample := tokens
	if len(sample) > expertTokenSample {
		sample = sample[:expertTokenSample]
	}

	return &ExpertDetails{
		Layer:         layer,
		Expert:        expert,
		NodeName:      routegraph.NodeName(layer, expert),
		Tokens:        sample,
		TotalTokens:   len(tokens),
		UsageRate:     usageRate,
		AvgConfidence: avgConfidence,
		Breakdown:     categoryBreakdown(tokens, session.Manifest),
	}, nil
}

func categoryBreakdown(tokens []routegraph.TokenRef, manifest *routegraph.Manifest) CategoryBreakdown {
	breakdown := CategoryBreakdown{
		ContextCategories: make(types.Distribution),
		TargetCategories:  make(types.Distribution),
	}
	if manifest == nil {
		return breakdown
	}
	for _, token := range tokens {
		for _, category := range manifest.ContextCategories(token.Context) {
			breakdown.ContextCategories[category]++
		}
		for _, category := range manifest.TargetCategories(token.Target) {
			breakdown.TargetCategories[category]++
		}
	}
	return breakdown
}
