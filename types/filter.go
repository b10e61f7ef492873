package types

// FilterConfig is the JSON-serializable filter payload sent with a
// route-analysis request. The two filtering modes are mutually exclusive
// per side: either coarse category-name filtering (ContextCategories /
// TargetCategories) or an explicit balanced word list (ContextWords /
// TargetWords). A side with no constraint omits its fields entirely,
// which means "include all words" - an empty list is never encoded.
type FilterConfig struct {
	ContextCategories []string `json:"context_categories,omitempty"`
	TargetCategories  []string `json:"target_categories,omitempty"`
	ContextWords      []string `json:"context_words,omitempty"`
	TargetWords       []string `json:"target_words,omitempty"`
	MaxPerCategory    int      `json:"max_per_category,omitempty"`
}

// IsEmpty reports whether the filter carries no constraints at all.
// Callers omit the payload entirely in that case.
func (f *FilterConfig) IsEmpty() bool {
	if f == nil {
		return true
	}
	return len(f.ContextCategories) == 0 &&
		len(f.TargetCategories) == 0 &&
		len(f.ContextWords) == 0 &&
		len(f.TargetWords) == 0
}
