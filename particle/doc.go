// Package particle holds the three-dimensional accepted-particle history
// an ABC-SMC fit accumulates: per-generation parameter values, weights,
// distances, effective sample size, and proposal counts.
//
// The history is stored as a growable slice of independently-shaped
// per-generation matrices (each a *Generation) rather than a single
// tensor grown by repeated concatenation, since N_p and k need not stay
// fixed across generations. Store.Push is O(1); Store.MaterializeX and
// friends build the 3D view on demand for callers (persistence,
// reporting) that need one.
package particle
