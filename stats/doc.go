// Package stats computes the statistical summary shown for a selected node
// or link in the routing diagram: per-category percentages, Shannon
// entropy, a diversity classification, the dominant category, and a
// hypothesis test of category concentration (binomial for two categories,
// chi-square goodness of fit for three or more).
//
// The normal and chi-square CDFs are injected pure functions with in-repo
// defaults, so the engine carries no required external statistics package.
// The defaults are accurate to well under 1e-7 over the ranges the tests
// exercise, far tighter than the 0.05 significance boundary requires.
package stats
