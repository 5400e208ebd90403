// Package proposal draws ABC-SMC particle proposals: independent prior
// draws for generation 0, and ancestor-resample-then-perturb draws for
// every later generation.
package proposal
