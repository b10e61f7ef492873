package routegraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/axis"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/types"
)

// ContextTargets summarizes which targets follow one context word at a node.
type ContextTargets struct {
	Context     string   `json:"context"`
	Targets     []string `json:"targets"` // capped sample, sorted
	TargetCount int      `json:"target_count"`
}

// Node is one expert at one layer in the Sankey diagram, with the category
// distribution of the target tokens that routed through it.
type Node struct {
	Name           string             `json:"name"`
	Layer          int                `json:"layer"`
	Expert         int                `json:"expert_id"`
	TokenCount     int                `json:"token_count"`
	Dominant       []string           `json:"categories"` // top 3 by count
	Distribution   types.Distribution `json:"category_distribution"`
	Specialization string             `json:"specialization"`
	ContextTargets []ContextTargets   `json:"context_target_pairs,omitempty"`
}

// Link is one layer-to-layer expert transition, with the category
// distribution of the tokens that took it.
type Link struct {
	Source       string             `json:"source"`
	Target       string             `json:"target"`
	Value        int                `json:"value"`
	Probability  float64            `json:"probability"`
	Signature    string             `json:"route_signature"`
	Distribution types.Distribution `json:"category_distribution"`
	TokenCount   int                `json:"token_count"`
}

// Graph is the Sankey view of a route set.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Display caps for per-node summaries.
const (
	maxDominantCategories = 3
	maxContextTargetPairs = 3
	maxTargetsPerContext  = 5
)

// BuildGraph aggregates a route set into Sankey nodes and links. Category
// distributions count target-word categories from the manifest; when the
// filter selects target categories, counts are restricted to the selection
// so the diagram reflects what the user filtered for.
func BuildGraph(routes map[string]*Route, manifest *Manifest, filter *types.FilterConfig) Graph {
	nodeDist := make(map[string]types.Distribution)
	nodeTokens := make(map[string]int)
	nodeContexts := make(map[string]map[string]map[string]bool) // node -> context -> target set
	linkValue := make(map[string]map[string]int)                // source -> target -> count
	linkDist := make(map[string]types.Distribution)             // link signature -> distribution
	linkTokens := make(map[string]int)

	signatures := sortedSignatures(routes)
	for _, signature := range signatures {
		route := routes[signature]
		parts := SplitSignature(signature)

		for _, part := range parts {
			for _, token := range route.Tokens {
				categories := selectedCategories(manifest.TargetCategories(token.Target), filter)
				for _, category := range categories {
					if nodeDist[part] == nil {
						nodeDist[part] = make(types.Distribution)
					}
					nodeDist[part][category]++
					nodeTokens[part]++
				}

				if nodeContexts[part] == nil {
					nodeContexts[part] = make(map[string]map[string]bool)
				}
				if nodeContexts[part][token.Context] == nil {
					nodeContexts[part][token.Context] = make(map[string]bool)
				}
				nodeContexts[part][token.Context][token.Target] = true
			}
		}

		for i := 0; i+1 < len(parts); i++ {
			source, target := parts[i], parts[i+1]
			if linkValue[source] == nil {
				linkValue[source] = make(map[string]int)
			}
			linkValue[source][target] += route.Count

			link := LinkSignature(source, target)
			for _, token := range route.Tokens {
				for _, category := range selectedCategories(manifest.TargetCategories(token.Target), filter) {
					if linkDist[link] == nil {
						linkDist[link] = make(types.Distribution)
					}
					linkDist[link][category]++
					linkTokens[link]++
				}
			}
		}
	}

	return Graph{
		Nodes: buildNodes(nodeDist, nodeTokens, nodeContexts),
		Links: buildLinks(linkValue, linkDist, linkTokens),
	}
}

// selectedCategories restricts a word's categories to the filter's target
// selection when one is present.
func selectedCategories(categories []string, filter *types.FilterConfig) []string {
	if filter == nil || len(filter.TargetCategories) == 0 {
		return categories
	}
	var kept []string
	for _, c := range categories {
		if contains(filter.TargetCategories, c) {
			kept = append(kept, c)
		}
	}
	return kept
}

func buildNodes(
	dist map[string]types.Distribution,
	tokens map[string]int,
	contexts map[string]map[string]map[string]bool,
) []Node {
	names := make([]string, 0, len(contexts))
	for name := range contexts {
		names = append(names, name)
	}
	sortNodeNames(names)

	nodes := make([]Node, 0, len(names))
	for _, name := range names {
		layer, expert, err := ParseNodeName(name)
		if err != nil {
			continue
		}

		d := dist[name]
		nodes = append(nodes, Node{
			Name:           name,
			Layer:          layer,
			Expert:         expert,
			TokenCount:     tokens[name],
			Dominant:       dominantCategories(d),
			Distribution:   d,
			Specialization: Specialize(d),
			ContextTargets: contextTargetPairs(contexts[name]),
		})
	}
	return nodes
}

func buildLinks(
	value map[string]map[string]int,
	dist map[string]types.Distribution,
	tokens map[string]int,
) []Link {
	sources := make([]string, 0, len(value))
	for source := range value {
		sources = append(sources, source)
	}
	sortNodeNames(sources)

	var links []Link
	for _, source := range sources {
		targets := make([]string, 0, len(value[source]))
		totalFromSource := 0
		for target, count := range value[source] {
			targets = append(targets, target)
			totalFromSource += count
		}
		sortNodeNames(targets)

		for _, target := range targets {
			count := value[source][target]
			signature := LinkSignature(source, target)
			links = append(links, Link{
				Source:       source,
				Target:       target,
				Value:        count,
				Probability:  float64(count) / float64(totalFromSource),
				Signature:    signature,
				Distribution: dist[signature],
				TokenCount:   tokens[signature],
			})
		}
	}
	return links
}

// dominantCategories returns the top categories by count, capped for
// display. Ties break by label.
func dominantCategories(dist types.Distribution) []string {
	type entry struct {
		category string
		count    int
	}
	entries := make([]entry, 0, len(dist))
	for category, count := range dist {
		if count > 0 {
			entries = append(entries, entry{category, count})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].category < entries[j].category
	})

	if len(entries) > maxDominantCategories {
		entries = entries[:maxDominantCategories]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.category
	}
	return out
}

// Specialize renders a human-readable specialization for a node's category
// distribution using axis-aware percentages: categories strongly dominant
// within their own axis are listed; without a clear axis dominance the
// globally dominant category is reported as mixed.
func Specialize(dist types.Distribution) string {
	total := dist.Total()
	if total == 0 {
		return "No clear specialization"
	}

	analysis := axis.Analyze(dist)
	var parts []string
	for _, d := range analysis.Dominant {
		if d.Strength == axis.StrengthStrong {
			parts = append(parts, fmt.Sprintf("%s (%.0f%%)", d.Category, d.Percentage))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " & ")
	}

	top := dominantCategories(dist)
	if len(top) == 0 {
		return "No clear specialization"
	}
	percentage := float64(dist[top[0]]) / float64(total) * 100
	return fmt.Sprintf("Mixed: %s (%.0f%%)", top[0], percentage)
}

func contextTargetPairs(contexts map[string]map[string]bool) []ContextTargets {
	words := make([]string, 0, len(contexts))
	for context := range contexts {
		words = append(words, context)
	}
	sort.Strings(words)

	var pairs []ContextTargets
	for _, context := range words {
		targetSet := contexts[context]
		targets := make([]string, 0, len(targetSet))
		for target := range targetSet {
			targets = append(targets, target)
		}
		sort.Strings(targets)

		sample := targets
		if len(sample) > maxTargetsPerContext {
			sample = sample[:maxTargetsPerContext]
		}
		pairs = append(pairs, ContextTargets{
			Context:     context,
			Targets:     sample,
			TargetCount: len(targets),
		})
		if len(pairs) == maxContextTargetPairs {
			break
		}
	}
	return pairs
}

// sortNodeNames orders node names by layer then expert, falling back to
// lexical order for unparseable names.
func sortNodeNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		li, ei, erri := ParseNodeName(names[i])
		lj, ej, errj := ParseNodeName(names[j])
		if erri != nil || errj != nil {
			return names[i] < names[j]
		}
		if li != lj {
			return li < lj
		}
		return ei < ej
	})
}

func sortedSignatures(routes map[string]*Route) []string {
	signatures := make([]string, 0, len(routes))
	for signature := range routes {
		signatures = append(signatures, signature)
	}
	sort.Strings(signatures)
	return signatures
}
