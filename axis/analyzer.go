package axis

import (
	"strings"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/types"
)

// Dominance strength labels used in analysis summaries.
const (
	StrengthStrong   = "strong"   // dominant category above 60%
	StrengthModerate = "moderate" // dominant category above 40%
)

// CategoryShare describes one category's share within an axis.
type CategoryShare struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Breakdown is the per-axis view of a distribution: the counts of the two
// pole categories, their percentages within the axis, and the dominant pole.
type Breakdown struct {
	Axis        Definition         `json:"axis"`
	Counts      types.Distribution `json:"counts"`
	Percentages map[string]float64 `json:"percentages"`
	Total       int                `json:"total"`
	Dominant    CategoryShare      `json:"dominant"`
}

// Dominance records a strongly or moderately dominant category on one axis.
type Dominance struct {
	Axis       string  `json:"axis"`
	Category   string  `json:"category"`
	Strength   string  `json:"strength"`
	Percentage float64 `json:"percentage"`
}

// Analysis is the multi-axis view of a full category distribution.
// Categories that belong to no registered axis are reported under
// Unrecognized rather than dropped.
type Analysis struct {
	Axes         map[string]Breakdown `json:"axes"`
	Unrecognized types.Distribution   `json:"unrecognized,omitempty"`
	Dominant     []Dominance          `json:"dominant"`
	Description  string               `json:"description"`
}

// Analyze breaks a distribution down along every registered axis that has
// mass in the distribution. Only pole categories participate in each axis;
// a category may belong to at most one axis pole in the default catalog.
func Analyze(dist types.Distribution) Analysis {
	analysis := Analysis{Axes: make(map[string]Breakdown)}

	claimed := make(map[string]bool)
	for _, def := range All() {
		breakdown, ok := breakdownFor(dist, def)
		claimed[def.Negative] = true
		claimed[def.Positive] = true
		if !ok {
			continue
		}
		analysis.Axes[def.Name] = breakdown

		switch {
		case breakdown.Dominant.Percentage > 60:
			analysis.Dominant = append(analysis.Dominant, Dominance{
				Axis:       def.Name,
				Category:   breakdown.Dominant.Category,
				Strength:   StrengthStrong,
				Percentage: breakdown.Dominant.Percentage,
			})
		case breakdown.Dominant.Percentage > 40:
			analysis.Dominant = append(analysis.Dominant, Dominance{
				Axis:       def.Name,
				Category:   breakdown.Dominant.Category,
				Strength:   StrengthModerate,
				Percentage: breakdown.Dominant.Percentage,
			})
		}
	}

	for category, count := range dist {
		if !claimed[category] && count > 0 {
			if analysis.Unrecognized == nil {
				analysis.Unrecognized = make(types.Distribution)
			}
			analysis.Unrecognized[category] = count
		}
	}

	analysis.Description = describe(analysis.Dominant)
	return analysis
}

// breakdownFor computes the axis view for one definition. ok is false when
// neither pole category carries mass.
func breakdownFor(dist types.Distribution, def Definition) (Breakdown, bool) {
	neg := dist.Count(def.Negative)
	pos := dist.Count(def.Positive)
	total := neg + pos
	if total == 0 {
		return Breakdown{}, false
	}

	counts := types.Distribution{}
	percentages := make(map[string]float64)
	if neg > 0 {
		counts[def.Negative] = neg
		percentages[def.Negative] = float64(neg) / float64(total) * 100
	}
	if pos > 0 {
		counts[def.Positive] = pos
		percentages[def.Positive] = float64(pos) / float64(total) * 100
	}

	// Ties go to the negative pole for a deterministic result.
	dominant := CategoryShare{Category: def.Negative, Count: neg}
	if pos > neg {
		dominant = CategoryShare{Category: def.Positive, Count: pos}
	}
	dominant.Percentage = float64(dominant.Count) / float64(total) * 100

	return Breakdown{
		Axis:        def,
		Counts:      counts,
		Percentages: percentages,
		Total:       total,
		Dominant:    dominant,
	}, true
}

// describe renders the dominance list as a one-line summary.
func describe(dominant []Dominance) string {
	if len(dominant) == 0 {
		return "Mixed distribution across all axes"
	}

	var strong, moderate []string
	for _, d := range dominant {
		if d.Strength == StrengthStrong {
			strong = append(strong, d.Category)
		} else {
			moderate = append(moderate, d.Category)
		}
	}

	var parts []string
	if len(strong) > 0 {
		parts = append(parts, "Strongly "+strings.Join(strong, ", "))
	}
	if len(moderate) > 0 {
		parts = append(parts, "Moderately "+strings.Join(moderate, ", "))
	}
	return strings.Join(parts, " and ")
}

// Shift records a change of dominant category on one axis between two
// distributions.
type Shift struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Change float64 `json:"change"` // percentage-point delta of the dominant share
}

// Maintained records an axis whose dominant category is unchanged.
type Maintained struct {
	Axis     string  `json:"axis"`
	Category string  `json:"category"`
	Change   float64 `json:"change"`
}

// Comparison describes how axis dominance moves between two distributions,
// typically a source and target cluster along a layer transition.
type Comparison struct {
	Shifts      map[string]Shift `json:"shifts,omitempty"`
	Maintained  []Maintained     `json:"maintained,omitempty"`
	Emerged     []string         `json:"emerged,omitempty"`
	Disappeared []string         `json:"disappeared,omitempty"`
}

// Compare analyzes two distributions and reports per-axis dominance shifts:
// axes whose dominant category changed, stayed, appeared only in the second
// distribution (emerged), or only in the first (disappeared).
func Compare(from, to types.Distribution) Comparison {
	a := Analyze(from)
	b := Analyze(to)

	cmp := Comparison{Shifts: make(map[string]Shift)}

	for _, def := range All() {
		first, inFirst := a.Axes[def.Name]
		second, inSecond := b.Axes[def.Name]

		switch {
		case inFirst && inSecond:
			if first.Dominant.Category != second.Dominant.Category {
				cmp.Shifts[def.Name] = Shift{
					From:   first.Dominant.Category,
					To:     second.Dominant.Category,
					Change: second.Dominant.Percentage - first.Dominant.Percentage,
				}
			} else {
				cmp.Maintained = append(cmp.Maintained, Maintained{
					Axis:     def.Name,
					Category: first.Dominant.Category,
					Change:   second.Dominant.Percentage - first.Dominant.Percentage,
				})
			}
		case inFirst:
			cmp.Disappeared = append(cmp.Disappeared, def.Name)
		case inSecond:
			cmp.Emerged = append(cmp.Emerged, def.Name)
		}
	}

	if len(cmp.Shifts) == 0 {
		cmp.Shifts = nil
	}
	return cmp
}
