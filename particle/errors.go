package particle

import "errors"

var (
	// ErrDimensionMismatch signals x, w, and d disagree on particle count.
	ErrDimensionMismatch = errors.New("particle: x, w, and d row counts must agree")

	// ErrWeightSum signals sum(w) is not within 1e-10 of 1.
	ErrWeightSum = errors.New("particle: weights must sum to 1 (+/- 1e-10)")

	// ErrNegativeWeight signals a weight < 0.
	ErrNegativeWeight = errors.New("particle: weights must be non-negative")

	// ErrDistanceExceedsTolerance signals a particle whose distance
	// exceeds tolerance on at least one summary statistic.
	ErrDistanceExceedsTolerance = errors.New("particle: distance exceeds tolerance")

	// ErrInvalidDistance signals a distance value that is NaN or negative.
	ErrInvalidDistance = errors.New("particle: distance must be non-negative and finite")

	// ErrToleranceNotDecreasing signals a new generation's tolerance is
	// not strictly less than the previous generation's, componentwise.
	ErrToleranceNotDecreasing = errors.New("particle: tolerance must strictly decrease across generations")

	// ErrToleranceDimensionMismatch signals a tolerance vector whose
	// length S does not match the store's fixed summary-statistic count.
	ErrToleranceDimensionMismatch = errors.New("particle: tolerance dimension mismatch")

	// ErrEmptyStore signals an operation that requires at least one
	// committed generation was called on an empty Store.
	ErrEmptyStore = errors.New("particle: store has no generations")
)
