package crystal

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrNoAlignment is returned when two orientations cannot be brought into a
// common setting, because at least one of them is not a proper rotation.
var ErrNoAlignment = errors.New("crystal: no valid alignment")

// rotationTolerance bounds how far UᵀU may stray from the identity, and
// det(U) from 1, for U to be accepted as a rotation.
const rotationTolerance = 1e-4

// Orientation is the crystal-to-laboratory rotation U, row-major.
type Orientation [9]float64

// Matrix returns the orientation as a 3×3 gonum matrix.
func (o Orientation) Matrix() *mat.Dense {
	return mat.NewDense(3, 3, o[:])
}

// IsRotation reports whether o is orthonormal with determinant +1.
func (o Orientation) IsRotation() bool {
	u := o.Matrix()
	var utu mat.Dense
	utu.Mul(u.T(), u)
	if !mat.EqualApprox(&utu, identity(), rotationTolerance) {
		return false
	}
	return math.Abs(mat.Det(u)-1) <= rotationTolerance
}

// RotationAngle returns the rotation angle of r in degrees, in [0, 180].
// The sine comes from the antisymmetric part and the cosine from the trace,
// which keeps small angles accurate where acos alone would not be.
func RotationAngle(r mat.Matrix) float64 {
	sx := r.At(2, 1) - r.At(1, 2)
	sy := r.At(0, 2) - r.At(2, 0)
	sz := r.At(1, 0) - r.At(0, 1)
	sin := math.Sqrt(sx*sx+sy*sy+sz*sz) / 2
	cos := (mat.Trace(r) - 1) / 2
	return math.Atan2(sin, cos) * 180 / math.Pi
}

// Misorientation returns the angle in degrees of the rotation taking a onto
// b, with no symmetry applied.
func Misorientation(a, b Orientation) float64 {
	var r mat.Dense
	r.Mul(a.Matrix().T(), b.Matrix())
	return RotationAngle(&r)
}

// AlignedMisorientation returns the smallest rotation angle between a and
// any symmetry-equivalent setting b·S, S in ops. It fails with ErrNoAlignment
// when either orientation is not a proper rotation.
func AlignedMisorientation(a, b Orientation, ops []*mat.Dense) (float64, error) {
	if !a.IsRotation() {
		return 0, fmt.Errorf("%w: first orientation is not a rotation", ErrNoAlignment)
	}
	if !b.IsRotation() {
		return 0, fmt.Errorf("%w: second orientation is not a rotation", ErrNoAlignment)
	}

	var atb mat.Dense
	atb.Mul(a.Matrix().T(), b.Matrix())

	best := math.Inf(1)
	var r mat.Dense
	for _, s := range ops {
		r.Mul(&atb, s)
		best = min(best, RotationAngle(&r))
	}
	if math.IsInf(best, 1) {
		best = RotationAngle(&atb)
	}
	return best, nil
}
