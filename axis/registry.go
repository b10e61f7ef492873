package axis

import (
	"sort"
	"sync"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/errors"
)

// Well-known axis names registered at startup.
const (
	Sentiment     = "sentiment"      // negative vs positive valence
	Concreteness  = "concreteness"   // abstract vs concrete
	PartOfSpeech  = "part-of-speech" // nouns vs verbs
	ActionContent = "action-content" // content words vs action words
	Formality     = "formality"      // informal vs formal register
	Temporality   = "temporality"    // past vs future orientation
)

// Definition is an immutable named pair of mutually exclusive category
// labels anchoring the two poles of a semantic axis. Negative is the
// category at position -1, Positive the category at +1.
type Definition struct {
	Name        string `json:"name"`
	Negative    string `json:"negative"`
	Positive    string `json:"positive"`
	Description string `json:"description,omitempty"`
}

// Global axis registry
var (
	registryMu sync.RWMutex
	registry   = make(map[string]Definition)
)

func init() {
	Register(Definition{
		Name: Sentiment, Negative: "negative", Positive: "positive",
		Description: "Emotional valence",
	})
	Register(Definition{
		Name: Concreteness, Negative: "abstract", Positive: "concrete",
		Description: "Level of conceptual abstraction",
	})
	Register(Definition{
		Name: PartOfSpeech, Negative: "nouns", Positive: "verbs",
		Description: "Part of speech contrast",
	})
	Register(Definition{
		Name: ActionContent, Negative: "content", Positive: "action",
		Description: "Content words vs action words",
	})
	Register(Definition{
		Name: Formality, Negative: "informal", Positive: "formal",
		Description: "Register and formality level",
	})
	Register(Definition{
		Name: Temporality, Negative: "past", Positive: "future",
		Description: "Temporal orientation",
	})
}

// Register adds an axis definition to the registry, overwriting any
// existing definition with the same name. Intended for package
// initialization; the registry is read-only afterwards.
func Register(def Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[def.Name] = def
}

// Resolve returns the definition for a registered axis name.
// Unregistered names fail with errors.ErrUnknownAxis: the caller must not
// substitute a default axis.
func Resolve(name string) (Definition, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[name]
	if !ok {
		return Definition{}, errors.WrapInvalid(errors.ErrUnknownAxis, "axis", "Resolve", "lookup "+name)
	}
	return def, nil
}

// All returns every registered axis definition, sorted by name.
func All() []Definition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	defs := make([]Definition, 0, len(registry))
	for _, def := range registry {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
