package dpc

import (
	"math"
	"testing"
)

const floatTol = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// --- EuclideanMetric tests ---

func TestEuclideanDistance_IdenticalVectors(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{1, 2, 3}
	d := m.Distance(a, a)
	if d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestEuclideanDistance_UnitVectors(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{1, 0, 0}
	b := []float64{0, 1, 0}
	// sqrt((1-0)^2 + (0-1)^2 + (0-0)^2) = sqrt(2)
	expected := math.Sqrt(2)
	d := m.Distance(a, b)
	if !almostEqual(d, expected, floatTol) {
		t.Errorf("expected %v, got %v", expected, d)
	}
}

func TestEuclideanDistance_345(t *testing.T) {
	d := EuclideanMetric{}.Distance([]float64{0, 0}, []float64{3, 4})
	if !almostEqual(d, 5, floatTol) {
		t.Errorf("expected 5, got %v", d)
	}
}

// --- ManhattanMetric tests ---

func TestManhattanDistance(t *testing.T) {
	d := ManhattanMetric{}.Distance([]float64{1, 2, 3}, []float64{4, 0, 3})
	// |1-4| + |2-0| + |3-3| = 5
	if !almostEqual(d, 5, floatTol) {
		t.Errorf("expected 5, got %v", d)
	}
}

func TestDistanceFunc(t *testing.T) {
	var m DistanceMetric = DistanceFunc(func(a, b []float64) float64 { return 42 })
	if m.Distance(nil, nil) != 42 {
		t.Error("DistanceFunc did not delegate")
	}
}
