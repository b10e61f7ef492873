// Package palette turns axis positions into display colors for the routing
// diagram. It holds the process-wide gradient registry (named two-color
// schemes), the gradient resolver (position to RGB interpolation and
// additive blending), and the composer that orchestrates one or two
// simultaneously selected axes into a single node or link color.
//
// All operations are pure: the registry is initialized at startup and
// read-only afterwards, and every call returns a fresh Color value.
package palette
