// Package weight computes and normalizes the importance weights each
// ABC-SMC generation carries: unnormalized weight equals prior density
// divided by the perturbation-kernel mixture density inherited from the
// previous generation, normalized so weights sum to 1.
package weight
