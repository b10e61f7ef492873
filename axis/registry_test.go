package axis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/errors"
)

func TestResolveKnownAxes(t *testing.T) {
	tests := []struct {
		name     string
		negative string
		positive string
	}{
		{Sentiment, "negative", "positive"},
		{Concreteness, "abstract", "concrete"},
		{PartOfSpeech, "nouns", "verbs"},
		{ActionContent, "content", "action"},
		{Formality, "informal", "formal"},
		{Temporality, "past", "future"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Resolve(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.negative, def.Negative)
			assert.Equal(t, tt.positive, def.Positive)
		})
	}
}

func TestResolveUnknownAxisFailsFast(t *testing.T) {
	_, err := Resolve("astrology")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownAxis))
}

func TestAllIsSortedAndComplete(t *testing.T) {
	defs := All()
	require.GreaterOrEqual(t, len(defs), 6)

	for i := 1; i < len(defs); i++ {
		assert.Less(t, defs[i-1].Name, defs[i].Name)
	}
}
