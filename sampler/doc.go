// Package sampler builds the filter payload for a route-analysis request.
// Its balanced mode caps the number of example words drawn per selected
// category with an unbiased Fisher-Yates shuffle so that no single category
// dominates a filtered word list; the alternative mode passes the selected
// category names through as a coarse filter.
//
// Every operation is a pure function of its inputs plus an injected random
// source, so tests can seed the source and assert exact sampled output.
package sampler
