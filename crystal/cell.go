package crystal

import (
	"math"

	dpc "github.com/Trzs/exafel-project"
)

// UnitCell holds the six lattice parameters: edge lengths in Å and
// inter-axial angles in degrees.
type UnitCell struct {
	A     float64 `yaml:"a" json:"a" validate:"gt=0"`
	B     float64 `yaml:"b" json:"b" validate:"gt=0"`
	C     float64 `yaml:"c" json:"c" validate:"gt=0"`
	Alpha float64 `yaml:"alpha" json:"alpha" validate:"gt=0,lt=180"`
	Beta  float64 `yaml:"beta" json:"beta" validate:"gt=0,lt=180"`
	Gamma float64 `yaml:"gamma" json:"gamma" validate:"gt=0,lt=180"`
}

// G6 returns the cell as a G6 vector (a², b², c², 2bc·cosα, 2ac·cosβ,
// 2ab·cosγ), the metric tensor flattened into six components.
func (u UnitCell) G6() []float64 {
	ca := math.Cos(u.Alpha * math.Pi / 180)
	cb := math.Cos(u.Beta * math.Pi / 180)
	cg := math.Cos(u.Gamma * math.Pi / 180)
	return []float64{
		u.A * u.A,
		u.B * u.B,
		u.C * u.C,
		2 * u.B * u.C * ca,
		2 * u.A * u.C * cb,
		2 * u.A * u.B * cg,
	}
}

// Volume returns the cell volume in Å³. It is NaN or zero when the three
// angles cannot belong to one cell.
func (u UnitCell) Volume() float64 {
	ca := math.Cos(u.Alpha * math.Pi / 180)
	cb := math.Cos(u.Beta * math.Pi / 180)
	cg := math.Cos(u.Gamma * math.Pi / 180)
	return u.A * u.B * u.C * math.Sqrt(1-ca*ca-cb*cb-cg*cg+2*ca*cb*cg)
}

// CellDistance is the Euclidean distance between the G6 vectors of two
// cells. No lattice reduction is applied, so the same lattice given in two
// different settings (permuted axes, an obtuse instead of acute angle set)
// is measured as far apart. Cells should be Niggli-reduced upstream.
func CellDistance(a, b UnitCell) float64 {
	return dpc.EuclideanMetric{}.Distance(a.G6(), b.G6())
}
