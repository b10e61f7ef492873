// Package axis defines the semantic axes used to interpret category
// distributions: named pairs of opposing category labels (positive vs
// negative sentiment, nouns vs verbs, concrete vs abstract) anchoring a
// one-dimensional contrast.
//
// The package exposes three layers:
//
//   - a closed, process-wide registry of axis definitions, initialized at
//     startup and safe for concurrent reads (Resolve, All, Register)
//   - the position calculator, which projects a category distribution onto
//     an axis as a polarity score in [-1, 1] (Position)
//   - the multi-axis analyzer, which breaks a full distribution down per
//     axis and compares distributions across axes (Analyze, Compare)
//
// Axis names are registry keys, not free-text category strings: requesting
// an unregistered axis fails with errors.ErrUnknownAxis rather than
// silently defaulting, since mis-colored data is worse than an explicit
// failure.
package axis
