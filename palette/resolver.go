package palette

// ColorAt maps an axis position in [-1, 1] onto a gradient scheme by
// channel-wise linear interpolation. Positions outside the range are
// clamped, and the extremes reproduce the scheme's pole colors exactly.
func ColorAt(position float64, scheme Scheme) Color {
	if position < -1 {
		position = -1
	}
	if position > 1 {
		position = 1
	}

	t := (position + 1) / 2
	return Color{
		R: lerpChannel(scheme.Negative.R, scheme.Positive.R, t),
		G: lerpChannel(scheme.Negative.G, scheme.Positive.G, t),
		B: lerpChannel(scheme.Negative.B, scheme.Positive.B, t),
	}
}

// Blend combines two colors by per-channel weighted sum, clamped to the
// valid channel range. The sum is additive, not averaged: weights are
// expected to total at most 1 for in-range output, but this is not
// enforced - callers deliberately over-saturate for bright blends.
func Blend(a, b Color, weightA, weightB float64) Color {
	return Color{
		R: clampChannel(float64(a.R)*weightA + float64(b.R)*weightB),
		G: clampChannel(float64(a.G)*weightA + float64(b.G)*weightB),
		B: clampChannel(float64(a.B)*weightA + float64(b.B)*weightB),
	}
}

func lerpChannel(from, to uint8, t float64) uint8 {
	return clampChannel(float64(from)*(1-t) + float64(to)*t)
}
