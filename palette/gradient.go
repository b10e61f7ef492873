package palette

import (
	"sort"
	"sync"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/errors"
)

// Well-known gradient names registered at startup.
const (
	RedGreen    = "red-green"
	BlueOrange  = "blue-orange"
	PurpleAmber = "purple-amber"
	SlateSky    = "slate-sky"
	RoseTeal    = "rose-teal"
	GrayIndigo  = "gray-indigo"
)

// Scheme is an immutable named pair of colors: Negative is shown at axis
// position -1, Positive at +1.
type Scheme struct {
	Name     string `json:"name"`
	Negative Color  `json:"negative"`
	Positive Color  `json:"positive"`
}

// Global gradient registry
var (
	registryMu sync.RWMutex
	registry   = make(map[string]Scheme)
)

func init() {
	Register(Scheme{Name: RedGreen, Negative: RGB(239, 68, 68), Positive: RGB(34, 197, 94)})
	Register(Scheme{Name: BlueOrange, Negative: RGB(59, 130, 246), Positive: RGB(249, 115, 22)})
	Register(Scheme{Name: PurpleAmber, Negative: RGB(168, 85, 247), Positive: RGB(245, 158, 11)})
	Register(Scheme{Name: SlateSky, Negative: RGB(100, 116, 139), Positive: RGB(14, 165, 233)})
	Register(Scheme{Name: RoseTeal, Negative: RGB(244, 63, 94), Positive: RGB(20, 184, 166)})
	Register(Scheme{Name: GrayIndigo, Negative: RGB(156, 163, 175), Positive: RGB(99, 102, 241)})
}

// Register adds a gradient scheme to the registry, overwriting any existing
// scheme with the same name. Intended for package initialization.
func Register(s Scheme) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[s.Name] = s
}

// Resolve returns the scheme for a registered gradient name. Unregistered
// names fail with errors.ErrUnknownGradient; callers must not fall back to
// a default scheme.
func Resolve(name string) (Scheme, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	s, ok := registry[name]
	if !ok {
		return Scheme{}, errors.WrapInvalid(errors.ErrUnknownGradient, "palette", "Resolve", "lookup "+name)
	}
	return s, nil
}

// All returns every registered scheme, sorted by name.
func All() []Scheme {
	registryMu.RLock()
	defer registryMu.RUnlock()

	schemes := make([]Scheme, 0, len(registry))
	for _, s := range registry {
		schemes = append(schemes, s)
	}
	sort.Slice(schemes, func(i, j int) bool { return schemes[i].Name < schemes[j].Name })
	return schemes
}
