package crystal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Lattice names a crystal system. It determines which rotations map a
// crystal orientation onto an equivalent one.
type Lattice string

const (
	Triclinic    Lattice = "triclinic"
	Monoclinic   Lattice = "monoclinic"
	Orthorhombic Lattice = "orthorhombic"
	Tetragonal   Lattice = "tetragonal"
	Hexagonal    Lattice = "hexagonal"
	Cubic        Lattice = "cubic"
)

// Operators returns the proper rotations of the lattice point group, in a
// Cartesian frame with c along z (and b along y for monoclinic). The
// identity is always first.
func Operators(l Lattice) ([]*mat.Dense, error) {
	x := [3]float64{1, 0, 0}
	y := [3]float64{0, 1, 0}
	z := [3]float64{0, 0, 1}

	var gens []*mat.Dense
	switch l {
	case Triclinic, "":
	case Monoclinic:
		gens = []*mat.Dense{axisRotation(y, 180)}
	case Orthorhombic:
		gens = []*mat.Dense{axisRotation(z, 180), axisRotation(x, 180)}
	case Tetragonal:
		gens = []*mat.Dense{axisRotation(z, 90), axisRotation(x, 180)}
	case Hexagonal:
		gens = []*mat.Dense{axisRotation(z, 60), axisRotation(x, 180)}
	case Cubic:
		gens = []*mat.Dense{axisRotation(z, 90), axisRotation(x, 90)}
	default:
		return nil, fmt.Errorf("crystal: unknown lattice %q", l)
	}
	return closure(gens), nil
}

// axisRotation returns the rotation by degrees about a unit axis
// (Rodrigues' formula).
func axisRotation(axis [3]float64, degrees float64) *mat.Dense {
	theta := degrees * math.Pi / 180
	c, s := math.Cos(theta), math.Sin(theta)
	t := 1 - c
	x, y, z := axis[0], axis[1], axis[2]
	return mat.NewDense(3, 3, []float64{
		t*x*x + c, t*x*y - s*z, t*x*z + s*y,
		t*x*y + s*z, t*y*y + c, t*y*z - s*x,
		t*x*z - s*y, t*y*z + s*x, t*z*z + c,
	})
}

const operatorTolerance = 1e-9

// closure returns the group generated by gens, starting from the identity.
func closure(gens []*mat.Dense) []*mat.Dense {
	group := []*mat.Dense{identity()}
	for i := 0; i < len(group); i++ {
		for _, g := range gens {
			var p mat.Dense
			p.Mul(group[i], g)
			if !containsApprox(group, &p) {
				group = append(group, &p)
			}
		}
	}
	return group
}

func containsApprox(group []*mat.Dense, m *mat.Dense) bool {
	for _, g := range group {
		if mat.EqualApprox(g, m, operatorTolerance) {
			return true
		}
	}
	return false
}

func identity() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}
