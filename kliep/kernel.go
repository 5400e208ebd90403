package kliep

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// gaussianKernel evaluates K(x,c;sigma) = exp(-||x-c||^2 / (2*sigma^2)).
func gaussianKernel(x, c []float64, sigma float64) float64 {
	sqDist := 0.0
	for i := range x {
		d := x[i] - c[i]
		sqDist += d * d
	}
	return math.Exp(-sqDist / (2 * sigma * sigma))
}

// gramMatrix builds the N×b matrix Phi where Phi[i,j] = K(x_i, centers_j; sigma).
func gramMatrix(x, centers *mat.Dense, sigma float64) *mat.Dense {
	n, k := x.Dims()
	b, kc := centers.Dims()
	if k != kc {
		panic("kliep: gramMatrix: dimension mismatch")
	}
	phi := mat.NewDense(n, b, nil)
	xi := make([]float64, k)
	cj := make([]float64, k)
	for i := 0; i < n; i++ {
		mat.Row(xi, i, x)
		for j := 0; j < b; j++ {
			mat.Row(cj, j, centers)
			phi.Set(i, j, gaussianKernel(xi, cj, sigma))
		}
	}
	return phi
}

// columnBounds returns (min,max) of column c across x.
func columnBounds(x *mat.Dense, c int) (float64, float64) {
	n, _ := x.Dims()
	lo, hi := x.At(0, c), x.At(0, c)
	for i := 1; i < n; i++ {
		v := x.At(i, c)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
