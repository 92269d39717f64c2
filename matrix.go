package dpc

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrInvalidMatrix is returned when a distance matrix violates its
// invariants: wrong length, non-zero diagonal, asymmetry, or entries that
// are negative or not finite.
var ErrInvalidMatrix = errors.New("dpc: invalid distance matrix")

// DistanceMatrix is a dense, symmetric, zero-diagonal N×N matrix of
// non-negative distances. It is immutable once constructed.
type DistanceMatrix struct {
	n   int
	sym *mat.SymDense // nil when n == 0
}

// NewDistanceMatrix validates a flat row-major n*n slice and copies it into
// a DistanceMatrix. flat[i*n+j] is the distance between items i and j.
func NewDistanceMatrix(flat []float64, n int) (*DistanceMatrix, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrInvalidMatrix, n)
	}
	if len(flat) != n*n {
		return nil, fmt.Errorf("%w: length %d does not match n*n = %d (n=%d)", ErrInvalidMatrix, len(flat), n*n, n)
	}

	m := newDistanceMatrix(n)
	for i := 0; i < n; i++ {
		if d := flat[i*n+i]; d != 0 {
			return nil, fmt.Errorf("%w: diagonal entry (%d,%d) is %g, want 0", ErrInvalidMatrix, i, i, d)
		}
		for j := i + 1; j < n; j++ {
			d := flat[i*n+j]
			if d != flat[j*n+i] {
				return nil, fmt.Errorf("%w: entries (%d,%d)=%g and (%d,%d)=%g differ",
					ErrInvalidMatrix, i, j, d, j, i, flat[j*n+i])
			}
			if err := checkDistance(d); err != nil {
				return nil, fmt.Errorf("%w: entry (%d,%d): %v", ErrInvalidMatrix, i, j, err)
			}
			m.set(i, j, d)
		}
	}
	return m, nil
}

func newDistanceMatrix(n int) *DistanceMatrix {
	m := &DistanceMatrix{n: n}
	if n > 0 {
		m.sym = mat.NewSymDense(n, nil)
	}
	return m
}

// set writes d to (i,j) and (j,i). Only used while a matrix is being built.
func (m *DistanceMatrix) set(i, j int, d float64) {
	m.sym.SetSym(i, j, d)
}

func checkDistance(d float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return fmt.Errorf("distance %g is not finite", d)
	}
	if d < 0 {
		return fmt.Errorf("distance %g is negative", d)
	}
	return nil
}

// Len returns the number of items N.
func (m *DistanceMatrix) Len() int { return m.n }

// At returns the distance between items i and j.
func (m *DistanceMatrix) At(i, j int) float64 { return m.sym.At(i, j) }

// Symmetric exposes the matrix as a read-only gonum view, e.g. for
// embedding or plotting. It returns nil for an empty matrix.
func (m *DistanceMatrix) Symmetric() mat.Symmetric {
	if m.sym == nil {
		return nil
	}
	return m.sym
}

// Values returns a flat row-major copy of all N² entries.
func (m *DistanceMatrix) Values() []float64 {
	out := make([]float64, m.n*m.n)
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			out[i*m.n+j] = m.sym.At(i, j)
		}
	}
	return out
}

// RowMax returns the largest distance from item i to any other item.
func (m *DistanceMatrix) RowMax(i int) float64 {
	var maxVal float64
	for j := 0; j < m.n; j++ {
		if d := m.sym.At(i, j); d > maxVal {
			maxVal = d
		}
	}
	return maxVal
}

// MeanStdDev returns the mean and sample standard deviation of all N²
// entries, zero diagonal included. The standard deviation is 0 when there
// are fewer than two entries or when all entries are equal.
func (m *DistanceMatrix) MeanStdDev() (mean, std float64) {
	values := m.Values()
	switch {
	case len(values) == 0:
		return 0, 0
	case allEqual(values):
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// allEqual reports whether every element of x is identical. Zero variance is
// decided this way rather than by comparing a computed deviation with 0,
// which rounding can leave a few ulps above zero.
func allEqual(x []float64) bool {
	if len(x) == 0 {
		return true
	}
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}
