package weight

import "errors"

var (
	// ErrZeroDenominator signals every previous-generation kernel density
	// evaluated to zero for some accepted particle, making its weight
	// undefined.
	ErrZeroDenominator = errors.New("weight: kernel mixture density is zero for a particle")

	// ErrNotPositiveDefinite signals the regularized perturbation
	// covariance 2*Cov(x)+eps*I failed to Cholesky-factor.
	ErrNotPositiveDefinite = errors.New("weight: perturbation covariance is not positive definite")
)
