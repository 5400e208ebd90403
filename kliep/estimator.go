package kliep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// maxCenters bounds the number of Gaussian kernel centers drawn from xnu,
// per the "b = min(N_nu, 100)" rule.
const maxCenters = 100

// bandwidthGrid is the fixed set of candidate bandwidths leave-one-out
// cross-validation selects from.
var bandwidthGrid = []float64{0.1, 0.25, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0, 5.0}

const (
	maxFitIterations = 100
	fitTolerance     = 1e-5
)

// Estimator is a fitted Gaussian-kernel density-ratio model
// r(x) = Σ_b alpha_b K(x, c_b; sigma).
type Estimator struct {
	centers *mat.Dense // b x k
	alpha   []float64
	sigma   float64
}

// Fit fits a density-ratio model r(x) ≈ p_nu(x)/p_de(x) from two N×k
// sample matrices: xnu (target / new generation) and xde (source /
// previous generation).
func Fit(xnu, xde *mat.Dense) (*Estimator, error) {
	nNu, kNu := xnu.Dims()
	nDe, kDe := xde.Dims()
	if nNu == 0 || nDe == 0 {
		return nil, ErrEmptySample
	}
	if kNu != kDe {
		return nil, ErrDimensionMismatch
	}

	b := nNu
	if b > maxCenters {
		b = maxCenters
	}
	centers := mat.NewDense(b, kNu, nil)
	centers.Copy(xnu.Slice(0, b, 0, kNu))

	sigma, err := selectBandwidth(xnu, xde, centers)
	if err != nil {
		return nil, err
	}

	alpha, err := fitAlpha(xnu, xde, centers, sigma)
	if err != nil {
		return nil, err
	}

	return &Estimator{centers: centers, alpha: alpha, sigma: sigma}, nil
}

// DensityRatio evaluates r(x) at a single point.
func (e *Estimator) DensityRatio(x []float64) (float64, error) {
	b, k := e.centers.Dims()
	if len(x) != k {
		return 0, ErrDimensionMismatch
	}
	c := make([]float64, k)
	r := 0.0
	for j := 0; j < b; j++ {
		mat.Row(c, j, e.centers)
		r += e.alpha[j] * gaussianKernel(x, c, e.sigma)
	}
	return r, nil
}

// Sigma reports the bandwidth chosen by cross-validation.
func (e *Estimator) Sigma() float64 { return e.sigma }

// selectBandwidth picks the grid value maximizing leave-one-out mean
// log-likelihood of the fitted ratio on held-out xnu rows, holding xde
// (the normalization sample) fixed.
func selectBandwidth(xnu, xde, centers *mat.Dense) (float64, error) {
	best := bandwidthGrid[0]
	bestScore := negInf
	for _, sigma := range bandwidthGrid {
		score, err := loocvScore(xnu, xde, centers, sigma)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = sigma
		}
	}
	if bestScore == negInf {
		return 0, fmt.Errorf("kliep: selectBandwidth: %w", ErrDegenerateConstraint)
	}
	return best, nil
}

const negInf = -1e300

func loocvScore(xnu, xde, centers *mat.Dense, sigma float64) (float64, error) {
	n, k := xnu.Dims()
	total := 0.0
	for i := 0; i < n; i++ {
		train := mat.NewDense(n-1, k, nil)
		row := 0
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			train.SetRow(row, mat.Row(nil, j, xnu))
			row++
		}
		alpha, err := fitAlpha(train, xde, centers, sigma)
		if err != nil {
			return 0, err
		}
		held := mat.Row(nil, i, xnu)
		r := 0.0
		c := make([]float64, k)
		for b := range alpha {
			mat.Row(c, b, centers)
			r += alpha[b] * gaussianKernel(held, c, sigma)
		}
		if r <= 0 {
			return 0, ErrDegenerateConstraint
		}
		total += logSafe(r)
	}
	return total / float64(n), nil
}
