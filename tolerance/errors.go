package tolerance

import "errors"

var (
	// ErrMultipleStatistics is returned when adaptive generation-1
	// selection is attempted with S != 1: the source forbids S>1 in
	// adaptive mode, so this is a construction-time rejection rather
	// than an ambiguous rowSums-vs-per-column choice.
	ErrMultipleStatistics = errors.New("tolerance: adaptive mode requires exactly one summary statistic")
	// ErrInsufficientInit is returned when n_init <= N_p.
	ErrInsufficientInit = errors.New("tolerance: n_init must exceed n_particles")
	// ErrDimensionMismatch is returned when a distance matrix's row count
	// disagrees with the caller-supplied particle count.
	ErrDimensionMismatch = errors.New("tolerance: distance matrix row count mismatch")
)
