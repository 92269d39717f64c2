// Package crystal applies density-peak consensus to crystal models obtained
// from repeated indexing trials of one diffraction image.
//
// Models are first clustered by unit cell (G6 distance), then, inside each
// unit-cell cluster, by orientation (symmetry-aligned misorientation). The
// centre of each orientational cluster is a candidate lattice, and
// candidates less than a few degrees apart are merged.
package crystal

import (
	dpc "github.com/Trzs/exafel-project"
	"gonum.org/v1/gonum/mat"
)

// Crystal is one indexing solution: a unit cell and an orientation.
type Crystal struct {
	ID          string      `yaml:"id" json:"id"`
	Cell        UnitCell    `yaml:"cell" json:"cell"`
	Orientation Orientation `yaml:"orientation" json:"orientation" validate:"required"`
}

// Metrics measures crystals of one lattice type.
type Metrics struct {
	lattice Lattice
	ops     []*mat.Dense
}

// NewMetrics returns the distance functions for crystals of lattice l.
func NewMetrics(l Lattice) (*Metrics, error) {
	ops, err := Operators(l)
	if err != nil {
		return nil, err
	}
	return &Metrics{lattice: l, ops: ops}, nil
}

// Lattice returns the lattice type the metrics were built for.
func (m *Metrics) Lattice() Lattice { return m.lattice }

// CellDistance is the coarse metric: G6 distance of the unit cells.
func (m *Metrics) CellDistance(a, b Crystal) float64 {
	return CellDistance(a.Cell, b.Cell)
}

// OrientationDistance is the refinement metric: misorientation after the
// best symmetry alignment. It fails when no alignment exists.
func (m *Metrics) OrientationDistance(a, b Crystal) (float64, error) {
	return AlignedMisorientation(a.Orientation, b.Orientation, m.ops)
}

// RawOrientationDistance is the misorientation without alignment, used
// when OrientationDistance fails.
func (m *Metrics) RawOrientationDistance(a, b Crystal) float64 {
	return Misorientation(a.Orientation, b.Orientation)
}

// AngleBetween returns the aligned misorientation of a and b in degrees,
// or the unaligned one when they cannot be aligned.
func (m *Metrics) AngleBetween(a, b Crystal) float64 {
	if d, err := m.OrientationDistance(a, b); err == nil {
		return d
	}
	return m.RawOrientationDistance(a, b)
}

// Apply wires the metrics into cfg: unit-cell coarse clustering,
// orientational refinement with fallback to the unaligned angle, and
// de-duplication by misorientation.
func (m *Metrics) Apply(cfg *dpc.Config[Crystal]) {
	cfg.Coarse = dpc.Plain(m.CellDistance)
	cfg.Refine = dpc.WithFallback(m.OrientationDistance, m.RawOrientationDistance)
	cfg.Dedup = m.AngleBetween
}
