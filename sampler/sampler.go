package sampler

import (
	"math/rand"
	"sort"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/types"
)

// DefaultMaxPerCategory caps balanced word lists when the selection does
// not specify its own limit.
const DefaultMaxPerCategory = 50

// Corpus holds the category assignments of the probe vocabulary, per
// filter side: word to the list of categories it belongs to.
type Corpus struct {
	Context map[string][]string
	Target  map[string][]string
}

// Selection is the user's filter choice: which categories to keep on each
// side, whether to balance them into explicit word lists, and the
// per-category cap.
type Selection struct {
	ContextCategories []string
	TargetCategories  []string
	Balance           bool
	MaxPerCategory    int

	// Dedupe removes words that satisfy more than one selected category
	// from all but their first list. Off by default: a word tagged with
	// two selected categories appears once per category, which keeps the
	// per-category caps meaningful.
	Dedupe bool
}

// Sample draws up to max words from the pool in unbiased random order.
// A pool no larger than max is returned as an unchanged copy. Otherwise a
// copy is shuffled with Fisher-Yates and the first max elements returned.
// A max below zero yields an empty list. The random source is injected so
// callers control determinism.
func Sample(rng *rand.Rand, words []string, max int) []string {
	if max < 0 {
		max = 0
	}
	out := make([]string, len(words))
	copy(out, words)

	if len(out) <= max {
		return out
	}

	for i := len(out) - 1; i >= 1; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out[:max]
}

// BuildFilterPayload assembles the analysis-request filter for a
// selection. A side with no selected categories is omitted entirely
// (meaning "include all words"), never encoded as an empty list; when both
// sides are empty the payload itself is nil and the caller omits the
// field. Balanced mode emits explicit word lists, unbalanced mode the
// category names - the two modes are mutually exclusive alternatives.
func BuildFilterPayload(rng *rand.Rand, sel Selection, corpus Corpus) *types.FilterConfig {
	if len(sel.ContextCategories) == 0 && len(sel.TargetCategories) == 0 {
		return nil
	}

	if !sel.Balance {
		return &types.FilterConfig{
			ContextCategories: copyNonEmpty(sel.ContextCategories),
			TargetCategories:  copyNonEmpty(sel.TargetCategories),
		}
	}

	max := sel.MaxPerCategory
	if max <= 0 {
		max = DefaultMaxPerCategory
	}

	payload := &types.FilterConfig{MaxPerCategory: max}
	if len(sel.ContextCategories) > 0 {
		payload.ContextWords = balancedWords(rng, sel, sel.ContextCategories, corpus.Context, max)
	}
	if len(sel.TargetCategories) > 0 {
		payload.TargetWords = balancedWords(rng, sel, sel.TargetCategories, corpus.Target, max)
	}
	return payload
}

// balancedWords samples up to max words per selected category and
// concatenates the per-category lists. Duplicates across overlapping
// categories are retained unless Dedupe is set.
func balancedWords(rng *rand.Rand, sel Selection, categories []string, assignments map[string][]string, max int) []string {
	var out []string
	seen := make(map[string]bool)

	for _, category := range categories {
		pool := wordsInCategory(assignments, category)
		for _, word := range Sample(rng, pool, max) {
			if sel.Dedupe {
				if seen[word] {
					continue
				}
				seen[word] = true
			}
			out = append(out, word)
		}
	}
	return out
}

// wordsInCategory resolves the corpus words tagged with a category, in
// sorted order so that seeded sampling is reproducible across runs.
func wordsInCategory(assignments map[string][]string, category string) []string {
	var pool []string
	for word, tags := range assignments {
		for _, tag := range tags {
			if tag == category {
				pool = append(pool, word)
				break
			}
		}
	}
	sort.Strings(pool)
	return pool
}

func copyNonEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
