package kliep

import "errors"

var (
	// ErrEmptySample is returned when either sample matrix has zero rows.
	ErrEmptySample = errors.New("kliep: sample matrix has no rows")
	// ErrDimensionMismatch is returned when xnu and xde disagree on column
	// count.
	ErrDimensionMismatch = errors.New("kliep: xnu and xde have different column counts")
	// ErrDegenerateConstraint is returned when the source sample's mean
	// kernel response to the fitted centers is (numerically) zero, making
	// the normalization constraint unsatisfiable.
	ErrDegenerateConstraint = errors.New("kliep: source sample produces a degenerate normalization constraint")
	// ErrOptimizeFailed wraps a failure from the supremum search.
	ErrOptimizeFailed = errors.New("kliep: supremum search failed")
)
