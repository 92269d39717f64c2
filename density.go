package dpc

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ComputeDensity returns the Gaussian local density of every item:
//
//	rho[i] = sum_j exp(-z_ij^2),  z_ij = (d_ij - mu) / sigma
//
// where mu and sigma are the mean and sample standard deviation of all N²
// matrix entries. When sigma is 0 no item can be told apart from another,
// every z_ij is taken as 0 and every density equals N.
//
// Each row's terms are summed in ascending order, so two items whose rows
// hold the same distances get bit-identical densities.
func ComputeDensity(m *DistanceMatrix) []float64 {
	n := m.Len()
	rho := make([]float64, n)
	if n == 0 {
		return rho
	}

	mu, sigma := m.MeanStdDev()
	if sigma == 0 {
		for i := range rho {
			rho[i] = float64(n)
		}
		return rho
	}

	terms := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			z := (m.At(i, j) - mu) / sigma
			terms[j] = math.Exp(-z * z)
		}
		sort.Float64s(terms)
		rho[i] = floats.Sum(terms)
	}
	return rho
}
