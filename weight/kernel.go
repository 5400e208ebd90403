package weight

import (
	"fmt"
	"math/rand"

	expRand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"
)

// randSource adapts a *math/rand.Rand to the golang.org/x/exp/rand.Source
// interface gonum's distmv package expects for its Src argument.
type randSource struct{ rng *rand.Rand }

func (s randSource) Uint64() uint64   { return s.rng.Uint64() }
func (s randSource) Seed(seed uint64) { s.rng.Seed(int64(seed)) }

func asSource(rng *rand.Rand) expRand.Source {
	if rng == nil {
		return nil
	}
	return randSource{rng: rng}
}

// covRegularization is the epsilon added to the diagonal of 2*Cov(x)
// before factoring, guarding against a degenerate (zero-variance)
// covariance when a parameter has collapsed to a single value.
const covRegularization = 1e-12

// Kernel is the perturbation kernel Σ = 2·Cov(x^{(g-1)}) both the
// proposal sampler and the weight updater consume: the sampler perturbs
// ancestors by draws from it, and the updater evaluates its density in
// the importance-weight denominator. Centralizing it here means both
// packages use the same covariance; Density and Sample each build a fresh
// distmv.Normal from it, so Σ is factored again on every call.
type Kernel struct {
	sigma *mat.SymDense
	mu    []float64 // present only to report K(); Density/Sample take explicit means
}

// NewKernel computes Σ = 2·Cov(x) + covRegularization·I from the previous
// generation's N_p×k value matrix and validates that it factors (i.e. is
// positive definite).
func NewKernel(x *mat.Dense) (*Kernel, error) {
	_, k := x.Dims()

	cov := mat.NewSymDense(k, nil)
	stat.CovarianceMatrix(cov, x, nil)

	reg := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			v := 2 * cov.At(i, j)
			if i == j {
				v += covRegularization
			}
			reg.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(reg); !ok {
		return nil, ErrNotPositiveDefinite
	}

	return &Kernel{sigma: reg, mu: make([]float64, k)}, nil
}

// K returns the parameter dimension.
func (k *Kernel) K() int { return len(k.mu) }

// Density evaluates φ(x; mean, Σ), the multivariate-normal PDF the
// perturbation kernel induces around mean.
func (k *Kernel) Density(x, mean []float64) (float64, error) {
	dist, ok := distmv.NewNormal(mean, k.sigma, nil)
	if !ok {
		return 0, ErrNotPositiveDefinite
	}
	return dist.Prob(x), nil
}

// Sample draws x ~ N(mean, Σ) using rng.
func (k *Kernel) Sample(rng *rand.Rand, mean []float64) ([]float64, error) {
	dist, ok := distmv.NewNormal(mean, k.sigma, asSource(rng))
	if !ok {
		return nil, ErrNotPositiveDefinite
	}
	out := make([]float64, k.K())
	return dist.Rand(out), nil
}

// String renders Σ's dimension for diagnostic logging.
func (k *Kernel) String() string {
	return fmt.Sprintf("Kernel(k=%d)", k.K())
}
