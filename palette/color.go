package palette

import "fmt"

// Color is an RGB triple with 8-bit channels.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGB is a convenience constructor.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Hex renders the color as a lowercase, zero-padded hex string ("#37b14d").
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// clampChannel rounds a float channel value into the valid [0, 255] range.
func clampChannel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		// round half away from zero; v is non-negative here
		return uint8(v + 0.5)
	}
}
