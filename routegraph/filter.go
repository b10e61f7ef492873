package routegraph

import (
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/types"
)

// ApplyFilter restricts routing and token records to the probes whose
// words pass the filter. Each constrained side must match at least one
// selected category (or appear in the explicit word list); constraints
// combine with AND across sides and modes. A nil or empty filter returns
// the inputs unchanged.
func ApplyFilter(
	routing []RoutingRecord,
	tokens []TokenRecord,
	manifest *Manifest,
	filter *types.FilterConfig,
) ([]RoutingRecord, []TokenRecord) {
	if filter.IsEmpty() {
		return routing, tokens
	}

	keep := make(map[string]bool)
	for _, token := range tokens {
		if tokenPasses(token, manifest, filter) {
			keep[token.ProbeID] = true
		}
	}

	filteredRouting := make([]RoutingRecord, 0, len(routing))
	for _, r := range routing {
		if keep[r.ProbeID] {
			filteredRouting = append(filteredRouting, r)
		}
	}

	filteredTokens := make([]TokenRecord, 0, len(keep))
	for _, t := range tokens {
		if keep[t.ProbeID] {
			filteredTokens = append(filteredTokens, t)
		}
	}
	return filteredRouting, filteredTokens
}

func tokenPasses(token TokenRecord, manifest *Manifest, filter *types.FilterConfig) bool {
	if len(filter.ContextCategories) > 0 &&
		!anyCategoryMatch(manifest.ContextCategories(token.Context), filter.ContextCategories) {
		return false
	}
	if len(filter.TargetCategories) > 0 &&
		!anyCategoryMatch(manifest.TargetCategories(token.Target), filter.TargetCategories) {
		return false
	}
	if len(filter.ContextWords) > 0 && !contains(filter.ContextWords, token.Context) {
		return false
	}
	if len(filter.TargetWords) > 0 && !contains(filter.TargetWords, token.Target) {
		return false
	}
	return true
}

func anyCategoryMatch(assigned, selected []string) bool {
	for _, a := range assigned {
		for _, s := range selected {
			if a == s {
				return true
			}
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
