package axis

import (
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/types"
)

// Position projects a category distribution onto an axis as a polarity
// score in [-1, 1]: -1 means all mass on the negative pole, +1 all mass on
// the positive pole. Only the two pole categories participate; every other
// category in the distribution is ignored, because an axis measures the
// relative mass between its own poles, not the full distribution.
//
// When neither pole category carries any mass the result is 0. That zero
// is a deliberate "no evidence" default, not a computed midpoint.
func Position(dist types.Distribution, def Definition) float64 {
	neg := dist.Count(def.Negative)
	pos := dist.Count(def.Positive)

	total := neg + pos
	if total == 0 {
		return 0
	}
	return float64(pos-neg) / float64(total)
}
