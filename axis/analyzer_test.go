package axis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/types"
)

func TestAnalyzeGroupsByAxis(t *testing.T) {
	dist := types.Distribution{
		"nouns":    30,
		"verbs":    10,
		"positive": 8,
		"negative": 2,
	}

	analysis := Analyze(dist)

	require.Contains(t, analysis.Axes, PartOfSpeech)
	require.Contains(t, analysis.Axes, Sentiment)

	pos := analysis.Axes[PartOfSpeech]
	assert.Equal(t, 40, pos.Total)
	assert.Equal(t, "nouns", pos.Dominant.Category)
	assert.InDelta(t, 75.0, pos.Dominant.Percentage, 1e-9)
	assert.InDelta(t, 25.0, pos.Percentages["verbs"], 1e-9)

	sent := analysis.Axes[Sentiment]
	assert.Equal(t, "positive", sent.Dominant.Category)
	assert.InDelta(t, 80.0, sent.Dominant.Percentage, 1e-9)
}

func TestAnalyzeDominanceStrength(t *testing.T) {
	analysis := Analyze(types.Distribution{"nouns": 70, "verbs": 30, "positive": 55, "negative": 45})

	byAxis := make(map[string]Dominance)
	for _, d := range analysis.Dominant {
		byAxis[d.Axis] = d
	}

	require.Contains(t, byAxis, PartOfSpeech)
	assert.Equal(t, StrengthStrong, byAxis[PartOfSpeech].Strength)
	require.Contains(t, byAxis, Sentiment)
	assert.Equal(t, StrengthModerate, byAxis[Sentiment].Strength)

	assert.Contains(t, analysis.Description, "Strongly nouns")
	assert.Contains(t, analysis.Description, "Moderately positive")
}

func TestAnalyzeBalancedDistributionIsMixed(t *testing.T) {
	analysis := Analyze(types.Distribution{"nouns": 10, "verbs": 10})

	assert.Empty(t, analysis.Dominant)
	assert.Equal(t, "Mixed distribution across all axes", analysis.Description)
	// ties resolve to the negative pole
	assert.Equal(t, "nouns", analysis.Axes[PartOfSpeech].Dominant.Category)
}

func TestAnalyzeReportsUnrecognizedCategories(t *testing.T) {
	analysis := Analyze(types.Distribution{"nouns": 5, "weather": 3})

	assert.Equal(t, types.Distribution{"weather": 3}, analysis.Unrecognized)
}

func TestAnalyzeEmptyDistribution(t *testing.T) {
	analysis := Analyze(types.Distribution{})

	assert.Empty(t, analysis.Axes)
	assert.Empty(t, analysis.Unrecognized)
	assert.Equal(t, "Mixed distribution across all axes", analysis.Description)
}

func TestCompareDetectsShiftsAndMaintained(t *testing.T) {
	from := types.Distribution{"nouns": 80, "verbs": 20, "positive": 30, "negative": 70}
	to := types.Distribution{"nouns": 25, "verbs": 75, "positive": 40, "negative": 60}

	cmp := Compare(from, to)

	require.Contains(t, cmp.Shifts, PartOfSpeech)
	shift := cmp.Shifts[PartOfSpeech]
	assert.Equal(t, "nouns", shift.From)
	assert.Equal(t, "verbs", shift.To)
	assert.InDelta(t, 75.0-80.0, shift.Change, 1e-9)

	require.Len(t, cmp.Maintained, 1)
	assert.Equal(t, Sentiment, cmp.Maintained[0].Axis)
	assert.Equal(t, "negative", cmp.Maintained[0].Category)
	assert.InDelta(t, 60.0-70.0, cmp.Maintained[0].Change, 1e-9)
}

func TestCompareDetectsEmergedAndDisappeared(t *testing.T) {
	from := types.Distribution{"nouns": 10}
	to := types.Distribution{"positive": 10}

	cmp := Compare(from, to)

	assert.Contains(t, cmp.Disappeared, PartOfSpeech)
	assert.Contains(t, cmp.Emerged, Sentiment)
	assert.Empty(t, cmp.Shifts)
}
