package crystal

import (
	"errors"
	"math"
	"testing"

	dpc "github.com/Trzs/exafel-project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func rotZ(degrees float64) Orientation {
	var o Orientation
	r := axisRotation([3]float64{0, 0, 1}, degrees)
	copy(o[:], r.RawMatrix().Data)
	return o
}

func TestUnitCell_G6(t *testing.T) {
	g := UnitCell{A: 2, B: 3, C: 4, Alpha: 90, Beta: 90, Gamma: 90}.G6()
	require.Len(t, g, 6)
	assert.InDelta(t, 4, g[0], 1e-12)
	assert.InDelta(t, 9, g[1], 1e-12)
	assert.InDelta(t, 16, g[2], 1e-12)
	for _, v := range g[3:] {
		assert.InDelta(t, 0, v, 1e-12)
	}
}

func TestUnitCell_Volume(t *testing.T) {
	assert.InDelta(t, 24, UnitCell{A: 2, B: 3, C: 4, Alpha: 90, Beta: 90, Gamma: 90}.Volume(), 1e-9)
	// Hexagonal: a*a*c*sin(120°).
	hex := UnitCell{A: 10, B: 10, C: 20, Alpha: 90, Beta: 90, Gamma: 120}
	assert.InDelta(t, 10*10*20*math.Sqrt(3)/2, hex.Volume(), 1e-9)
}

func TestCellDistance(t *testing.T) {
	a := UnitCell{A: 79, B: 79, C: 38, Alpha: 90, Beta: 90, Gamma: 90}
	b := UnitCell{A: 80, B: 79, C: 38, Alpha: 90, Beta: 90, Gamma: 90}
	assert.Zero(t, CellDistance(a, a))
	// Only a² changes: 80² - 79² = 159.
	assert.InDelta(t, 159, CellDistance(a, b), 1e-9)
	assert.Equal(t, CellDistance(a, b), CellDistance(b, a))
}

func TestUnitCell_VolumeOfImpossibleAngles(t *testing.T) {
	v := UnitCell{A: 10, B: 10, C: 10, Alpha: 170, Beta: 170, Gamma: 170}.Volume()
	assert.False(t, v > 0, "volume = %v", v)
}

func TestCellDistance_SettingsAreNotReduced(t *testing.T) {
	// The same orthorhombic lattice with a and c swapped.
	abc := UnitCell{A: 40, B: 50, C: 60, Alpha: 90, Beta: 90, Gamma: 90}
	cba := UnitCell{A: 60, B: 50, C: 40, Alpha: 90, Beta: 90, Gamma: 90}
	assert.InDelta(t, abc.Volume(), cba.Volume(), 1e-6)
	// 60² - 40² = 2000 on two axes.
	assert.InDelta(t, 2000*math.Sqrt2, CellDistance(abc, cba), 1e-9)
}

func TestOperators_GroupOrders(t *testing.T) {
	tests := map[Lattice]int{
		Triclinic:    1,
		"":           1,
		Monoclinic:   2,
		Orthorhombic: 4,
		Tetragonal:   8,
		Hexagonal:    12,
		Cubic:        24,
	}
	for l, want := range tests {
		ops, err := Operators(l)
		require.NoError(t, err, "lattice %q", l)
		assert.Len(t, ops, want, "lattice %q", l)
		assert.True(t, mat.EqualApprox(ops[0], identity(), 1e-12), "identity must come first")
		for _, op := range ops {
			var o Orientation
			copy(o[:], op.RawMatrix().Data)
			assert.True(t, o.IsRotation(), "lattice %q has a non-rotation operator", l)
		}
	}
}

func TestOperators_UnknownLattice(t *testing.T) {
	_, err := Operators("rhombic-ish")
	assert.Error(t, err)
}

func TestRotationAngle(t *testing.T) {
	assert.InDelta(t, 0, RotationAngle(identity()), 1e-9)
	assert.InDelta(t, 37, RotationAngle(rotZ(37).Matrix()), 1e-9)
	assert.InDelta(t, 180, RotationAngle(axisRotation([3]float64{1, 0, 0}, 180)), 1e-9)
}

func TestMisorientation(t *testing.T) {
	assert.InDelta(t, 25, Misorientation(rotZ(10), rotZ(35)), 1e-9)
	assert.InDelta(t, 90, Misorientation(rotZ(0), rotZ(90)), 1e-9)
}

func TestAlignedMisorientation_UsesSymmetry(t *testing.T) {
	tetragonal, err := Operators(Tetragonal)
	require.NoError(t, err)
	triclinic, err := Operators(Triclinic)
	require.NoError(t, err)

	d, err := AlignedMisorientation(rotZ(0), rotZ(92), tetragonal)
	require.NoError(t, err)
	assert.InDelta(t, 2, d, 1e-9)

	d, err = AlignedMisorientation(rotZ(0), rotZ(92), triclinic)
	require.NoError(t, err)
	assert.InDelta(t, 92, d, 1e-9)
}

func TestAlignedMisorientation_NotARotation(t *testing.T) {
	ops, err := Operators(Cubic)
	require.NoError(t, err)
	skewed := Orientation{1, 0.3, 0, 0, 1, 0, 0, 0, 1}
	_, err = AlignedMisorientation(rotZ(0), skewed, ops)
	assert.True(t, errors.Is(err, ErrNoAlignment))
	_, err = AlignedMisorientation(Orientation{}, rotZ(0), ops)
	assert.True(t, errors.Is(err, ErrNoAlignment))
}

func TestMetrics_AngleBetweenFallsBack(t *testing.T) {
	m, err := NewMetrics(Tetragonal)
	require.NoError(t, err)
	assert.Equal(t, Tetragonal, m.Lattice())

	good := Crystal{Orientation: rotZ(0)}
	mirrored := Crystal{Orientation: Orientation{1, 0, 0, 0, 1, 0, 0, 0, -1}}

	_, err = m.OrientationDistance(good, mirrored)
	require.ErrorIs(t, err, ErrNoAlignment)
	assert.Equal(t, m.RawOrientationDistance(good, mirrored), m.AngleBetween(good, mirrored))
	assert.InDelta(t, 0, m.AngleBetween(good, Crystal{Orientation: rotZ(90)}), 1e-9)
}

func TestNewMetrics_UnknownLattice(t *testing.T) {
	_, err := NewMetrics("pentagonal")
	assert.Error(t, err)
}

// lysozymeLike builds two unit-cell families of five crystals each. The
// first family is rotated 0..4° about z, the second secondOffset..+4°.
func lysozymeLike(secondOffset float64) []Crystal {
	var out []Crystal
	for i := 0; i < 5; i++ {
		d := 0.1 * float64(i)
		out = append(out, Crystal{
			ID:          "small",
			Cell:        UnitCell{A: 79 + d, B: 79 + d, C: 38, Alpha: 90, Beta: 90, Gamma: 90},
			Orientation: rotZ(float64(i)),
		})
	}
	for i := 0; i < 5; i++ {
		d := 0.1 * float64(i)
		out = append(out, Crystal{
			ID:          "large",
			Cell:        UnitCell{A: 100 + d, B: 100 + d, C: 50, Alpha: 90, Beta: 90, Gamma: 90},
			Orientation: rotZ(secondOffset + float64(i)),
		})
	}
	return out
}

func consensusFor(t *testing.T, l Lattice, pop []Crystal) *dpc.Consensus[Crystal] {
	t.Helper()
	m, err := NewMetrics(l)
	require.NoError(t, err)
	cfg := dpc.DefaultConfig[Crystal]()
	m.Apply(&cfg)
	c, err := dpc.BuildConsensus(pop, cfg)
	require.NoError(t, err)
	return c
}

func TestConsensus_TwoLattices(t *testing.T) {
	c := consensusFor(t, Triclinic, lysozymeLike(30))
	require.NotNil(t, c.Coarse)
	assert.Equal(t, 2, c.Coarse.NumClusters())
	assert.ElementsMatch(t, []int{2, 7}, c.Indices)
	assert.Empty(t, c.ClosePairs)
}

func TestConsensus_CloseOrientationsMerge(t *testing.T) {
	c := consensusFor(t, Triclinic, lysozymeLike(1))
	assert.Len(t, c.Candidates, 2)
	assert.Len(t, c.Representatives, 1)
	assert.Equal(t, c.Candidates[0], c.Indices[0], "the earlier candidate is kept")
}

func TestConsensus_SymmetryEquivalentOrientationsMerge(t *testing.T) {
	// 90° apart is a distinct model for a triclinic lattice but the same
	// one for a tetragonal lattice.
	assert.Len(t, consensusFor(t, Triclinic, lysozymeLike(90)).Representatives, 2)
	assert.Len(t, consensusFor(t, Tetragonal, lysozymeLike(90)).Representatives, 1)
}

func TestConsensus_TooFewCrystals(t *testing.T) {
	pop := lysozymeLike(30)[:4]
	c := consensusFor(t, Triclinic, pop)
	assert.True(t, c.Skipped)
	require.Len(t, c.Representatives, 1)
	assert.Equal(t, pop[0], c.Representatives[0])
}
