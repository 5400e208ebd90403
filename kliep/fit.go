package kliep

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// fitAlpha runs KLIEP's projected gradient ascent: maximize
// Σ_nu log(Phi_nu · alpha) subject to (1/N_de) Σ_de Phi_de·alpha = 1 and
// alpha >= 0, via exponentiated-gradient-style projection onto the
// constraint each iteration, with backtracking on the step size.
func fitAlpha(xnuTrain, xde, centers *mat.Dense, sigma float64) ([]float64, error) {
	phiNu := gramMatrix(xnuTrain, centers, sigma)
	phiDe := gramMatrix(xde, centers, sigma)
	nNu, b := phiNu.Dims()
	nDe, _ := phiDe.Dims()

	bVec := make([]float64, b)
	for j := 0; j < b; j++ {
		sum := 0.0
		for i := 0; i < nDe; i++ {
			sum += phiDe.At(i, j)
		}
		bVec[j] = sum / float64(nDe)
	}
	bDotB := dot(bVec, bVec)
	if bDotB == 0 {
		return nil, ErrDegenerateConstraint
	}

	alpha := make([]float64, b)
	for j := range alpha {
		alpha[j] = 1.0 / float64(b)
	}
	alpha = projectConstraint(alpha, bVec, bDotB)

	prevObjective := meanLogRatio(phiNu, alpha)
	step := 1.0

	for iter := 0; iter < maxFitIterations; iter++ {
		grad := make([]float64, b)
		for i := 0; i < nNu; i++ {
			row := mat.Row(nil, i, phiNu)
			denom := dot(row, alpha)
			if denom <= 0 {
				denom = 1e-300
			}
			for j := 0; j < b; j++ {
				grad[j] += row[j] / denom
			}
		}

		s := step
		accepted := false
		for backtrack := 0; backtrack < 30; backtrack++ {
			candidate := make([]float64, b)
			for j := range candidate {
				candidate[j] = alpha[j] + s*grad[j]
			}
			candidate = projectConstraint(candidate, bVec, bDotB)
			objective := meanLogRatio(phiNu, candidate)
			if objective > prevObjective || math.IsInf(prevObjective, -1) {
				delta := objective - prevObjective
				alpha = candidate
				prevObjective = objective
				accepted = true
				if delta < fitTolerance {
					return alpha, nil
				}
				break
			}
			s /= 2
		}
		if !accepted {
			break
		}
		step = s * 2
	}

	return alpha, nil
}

// projectConstraint clips alpha to be non-negative, then rescales along
// bVec so that bVec·alpha = 1.
func projectConstraint(alpha, bVec []float64, bDotB float64) []float64 {
	out := make([]float64, len(alpha))
	for j, v := range alpha {
		if v < 0 {
			v = 0
		}
		out[j] = v
	}
	current := dot(bVec, out)
	adjust := (1 - current) / bDotB
	for j := range out {
		out[j] += adjust * bVec[j]
		if out[j] < 0 {
			out[j] = 0
		}
	}
	norm := dot(bVec, out)
	if norm > 0 {
		for j := range out {
			out[j] /= norm
		}
	}
	return out
}

func meanLogRatio(phiNu *mat.Dense, alpha []float64) float64 {
	n, _ := phiNu.Dims()
	sum := 0.0
	for i := 0; i < n; i++ {
		row := mat.Row(nil, i, phiNu)
		sum += logSafe(dot(row, alpha))
	}
	return sum / float64(n)
}

func logSafe(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	return math.Log(x)
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
