// Package oset implements the two ordered multiset containers the
// wavetree package is built on: MultisetInt (depth -> sorted unique
// ints) and MultisetIntDouble (depth -> sorted unique (int, float64)
// entries).
//
// Both containers grow one depth slice at a time as new depths are
// inserted, keep each depth's entries sorted by key so lookups and
// insertions binary-search, and expose the uniform/weighted "choose"
// queries the sampler's proposal machinery is built on: choose a
// non-empty depth, choose an entry within a depth, or choose globally
// across all depths with an optional (depth+1)^alpha weighting.
//
// Errors are *werr.Error values carrying one of these kinds:
//
//	werr.BadArg     - depth is negative, an NthElement position is out
//	                  of range, or Get/Set/ReverseChooseIndexWeighted
//	                  targeted a key that is not present.
//	werr.AllEmpty   - a depth or global chooser was asked to pick from
//	                  an empty set.
//	werr.EmptyDepth - ChooseIndex targeted an empty depth.
//
// Remove reports a missing key through its NotFound result, not an error.
package oset
