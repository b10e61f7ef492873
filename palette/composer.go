package palette

import (
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/axis"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/errors"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/types"
)

// Selection pairs an axis with the gradient used to render it.
type Selection struct {
	Axis     axis.Definition
	Gradient Scheme
}

// Composer turns a category distribution and one or two axis selections
// into a single display color. The dual-axis blend weights are an explicit
// configuration decision, not a hidden constant: the default is equal
// weighting (order independent); a primary-weighted 0.6/0.4 policy is the
// historical alternative.
type Composer struct {
	PrimaryWeight   float64
	SecondaryWeight float64
}

// NewComposer builds a composer with the default equal-weight blend policy.
func NewComposer() Composer {
	return Composer{PrimaryWeight: 0.5, SecondaryWeight: 0.5}
}

// WithWeights overrides the dual-axis blend weights. Non-positive weights
// fall back to the defaults.
func (c Composer) WithWeights(primary, secondary float64) Composer {
	if primary <= 0 || secondary <= 0 {
		return NewComposer()
	}
	c.PrimaryWeight = primary
	c.SecondaryWeight = secondary
	return c
}

// Compose produces the display color for a distribution. With a nil
// secondary selection it is a straight single-axis gradient lookup;
// with two selections the per-axis colors are blended under the
// composer's weight policy.
func (c Composer) Compose(dist types.Distribution, primary Selection, secondary *Selection) Color {
	primaryColor := ColorAt(axis.Position(dist, primary.Axis), primary.Gradient)
	if secondary == nil {
		return primaryColor
	}

	secondaryColor := ColorAt(axis.Position(dist, secondary.Axis), secondary.Gradient)
	return Blend(primaryColor, secondaryColor, c.PrimaryWeight, c.SecondaryWeight)
}

// ComposeNamed resolves axis and gradient names through the registries and
// composes the color. Lookup failures surface immediately; no default axis
// or gradient is substituted.
func (c Composer) ComposeNamed(
	dist types.Distribution,
	primaryAxis, primaryGradient string,
	secondaryAxis, secondaryGradient string,
) (Color, error) {
	primary, err := resolveSelection(primaryAxis, primaryGradient)
	if err != nil {
		return Color{}, errors.Wrap(err, "Composer", "ComposeNamed", "resolve primary")
	}

	if secondaryAxis == "" {
		return c.Compose(dist, primary, nil), nil
	}

	secondary, err := resolveSelection(secondaryAxis, secondaryGradient)
	if err != nil {
		return Color{}, errors.Wrap(err, "Composer", "ComposeNamed", "resolve secondary")
	}
	return c.Compose(dist, primary, &secondary), nil
}

func resolveSelection(axisName, gradientName string) (Selection, error) {
	def, err := axis.Resolve(axisName)
	if err != nil {
		return Selection{}, err
	}
	scheme, err := Resolve(gradientName)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Axis: def, Gradient: scheme}, nil
}

// Swatch is one labeled cell of a legend preview table.
type Swatch struct {
	Label string `json:"label"`
	Color Color  `json:"color"`
	Hex   string `json:"hex"`
}

// Preview renders the legend swatches for a single axis selection: the
// negative pole, the midpoint, and the positive pole of its gradient.
// It is a pure function of the registries; no distribution is involved.
func Preview(sel Selection) []Swatch {
	positions := []struct {
		label    string
		position float64
	}{
		{sel.Axis.Negative, -1},
		{"midpoint", 0},
		{sel.Axis.Positive, 1},
	}

	swatches := make([]Swatch, 0, len(positions))
	for _, p := range positions {
		color := ColorAt(p.position, sel.Gradient)
		swatches = append(swatches, Swatch{Label: p.label, Color: color, Hex: color.Hex()})
	}
	return swatches
}

// PreviewDual renders the 3x3 cross-product legend for two simultaneous
// axis selections under the composer's blend policy. Rows follow the
// primary axis (negative, midpoint, positive), columns the secondary.
func (c Composer) PreviewDual(primary, secondary Selection) [][]Swatch {
	rows := Preview(primary)
	cols := Preview(secondary)

	table := make([][]Swatch, len(rows))
	for i, row := range rows {
		table[i] = make([]Swatch, len(cols))
		for j, col := range cols {
			blended := Blend(row.Color, col.Color, c.PrimaryWeight, c.SecondaryWeight)
			table[i][j] = Swatch{
				Label: row.Label + " / " + col.Label,
				Color: blended,
				Hex:   blended.Hex(),
			}
		}
	}
	return table
}
