// Package types defines the shared value objects exchanged between the
// ConceptMRI analytics packages: category distributions and filter
// configurations. All values are plain data with no behavior beyond
// convenience accessors; they are computed fresh per request and never
// shared mutably across calls.
package types

// Distribution maps a category label to a non-negative token count.
// It describes how the tokens assigned to one graph node or edge break
// down by semantic or grammatical category. A nil or empty Distribution
// is valid and means "no data".
type Distribution map[string]int

// Total returns the sum of all category counts.
func (d Distribution) Total() int {
	total := 0
	for _, count := range d {
		total += count
	}
	return total
}

// Count returns the count for a category, or zero if absent.
func (d Distribution) Count(category string) int {
	return d[category]
}

// Clone returns an independent copy of the distribution.
func (d Distribution) Clone() Distribution {
	if d == nil {
		return nil
	}
	out := make(Distribution, len(d))
	for category, count := range d {
		out[category] = count
	}
	return out
}

// Merge adds the counts of other into a copy of d and returns the result.
// Neither input is modified.
func (d Distribution) Merge(other Distribution) Distribution {
	out := d.Clone()
	if out == nil {
		out = make(Distribution, len(other))
	}
	for category, count := range other {
		out[category] += count
	}
	return out
}
