package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributionTotal(t *testing.T) {
	assert.Equal(t, 0, Distribution(nil).Total())
	assert.Equal(t, 0, Distribution{}.Total())
	assert.Equal(t, 40, Distribution{"positive": 34, "negative": 6}.Total())
}

func TestDistributionCloneIsIndependent(t *testing.T) {
	orig := Distribution{"nouns": 10}
	clone := orig.Clone()
	clone["nouns"] = 99
	clone["verbs"] = 1

	assert.Equal(t, 10, orig["nouns"])
	assert.NotContains(t, orig, "verbs")
}

func TestDistributionMerge(t *testing.T) {
	a := Distribution{"nouns": 3, "verbs": 1}
	b := Distribution{"verbs": 2, "adjectives": 5}

	merged := a.Merge(b)

	assert.Equal(t, Distribution{"nouns": 3, "verbs": 3, "adjectives": 5}, merged)
	// inputs untouched
	assert.Equal(t, Distribution{"nouns": 3, "verbs": 1}, a)
	assert.Equal(t, Distribution{"verbs": 2, "adjectives": 5}, b)
}

func TestFilterConfigIsEmpty(t *testing.T) {
	var nilFilter *FilterConfig
	assert.True(t, nilFilter.IsEmpty())
	assert.True(t, (&FilterConfig{MaxPerCategory: 10}).IsEmpty())
	assert.False(t, (&FilterConfig{TargetCategories: []string{"nouns"}}).IsEmpty())
	assert.False(t, (&FilterConfig{ContextWords: []string{"the"}}).IsEmpty())
}

func TestFilterConfigOmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(&FilterConfig{TargetCategories: []string{"nouns"}})
	require.NoError(t, err)

	assert.JSONEq(t, `{"target_categories":["nouns"]}`, string(raw))
}
