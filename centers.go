package dpc

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Degeneracy reports which of the decision-graph axes carried no
// information when centres were selected.
type Degeneracy int

const (
	// DegenerateNone: both density and separation vary across items.
	DegenerateNone Degeneracy = iota
	// DegenerateDensity: every item has the same density. The single centre
	// is the item with the largest separation.
	DegenerateDensity
	// DegenerateSeparation: every item has the same separation. The single
	// centre is the densest item.
	DegenerateSeparation
	// DegenerateBoth: neither axis varies. The whole population is treated
	// as one cluster centred on the top-ranked item.
	DegenerateBoth
)

func (d Degeneracy) String() string {
	switch d {
	case DegenerateNone:
		return "none"
	case DegenerateDensity:
		return "density"
	case DegenerateSeparation:
		return "separation"
	case DegenerateBoth:
		return "both"
	default:
		return "unknown"
	}
}

// centerZTolerance is how far, in standard deviations, a candidate may trail
// the best candidate on either axis and still become a centre.
const centerZTolerance = 1.0

// SelectCenters picks cluster centres from the decision graph.
//
// Density and separation are turned into z-scores. An item is a candidate
// when both z-scores reach min(1, max z) of their axis, and a candidate
// becomes a centre when it is within one standard deviation of the best
// candidate on both axes. Centres are returned in density rank order; the
// k-th centre gets cluster id k.
//
// When an axis has zero variance the rule cannot be applied and a single
// centre is chosen as described by the returned Degeneracy.
func SelectCenters(rho, delta []float64, order []int) ([]int, Degeneracy) {
	if len(rho) == 0 {
		return nil, DegenerateNone
	}

	rhoMean, rhoStd, rhoFlat := spread(rho)
	deltaMean, deltaStd, deltaFlat := spread(delta)

	switch {
	case rhoFlat && deltaFlat:
		return []int{order[0]}, DegenerateBoth
	case rhoFlat:
		return []int{floats.MaxIdx(delta)}, DegenerateDensity
	case deltaFlat:
		return []int{floats.MaxIdx(rho)}, DegenerateSeparation
	}

	rhoZ := zScores(rho, rhoMean, rhoStd)
	deltaZ := zScores(delta, deltaMean, deltaStd)
	rhoCutoff := min(1.0, floats.Max(rhoZ))
	deltaCutoff := min(1.0, floats.Max(deltaZ))

	var candidates []int
	for _, i := range order {
		if rhoZ[i] >= rhoCutoff && deltaZ[i] >= deltaCutoff {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return nil, DegenerateNone
	}

	maxRhoZ, maxDeltaZ := rhoZ[candidates[0]], deltaZ[candidates[0]]
	for _, i := range candidates[1:] {
		maxRhoZ = max(maxRhoZ, rhoZ[i])
		maxDeltaZ = max(maxDeltaZ, deltaZ[i])
	}

	centers := candidates[:0]
	for _, i := range candidates {
		if maxRhoZ-rhoZ[i] <= centerZTolerance && maxDeltaZ-deltaZ[i] <= centerZTolerance {
			centers = append(centers, i)
		}
	}
	return centers, DegenerateNone
}

// spread returns the mean and sample standard deviation of x, and whether x
// has zero variance.
func spread(x []float64) (mean, std float64, flat bool) {
	if len(x) < 2 || allEqual(x) {
		return x[0], 0, true
	}
	mean, std = stat.MeanStdDev(x, nil)
	return mean, std, !(std > 0)
}

func zScores(x []float64, mean, std float64) []float64 {
	z := make([]float64, len(x))
	for i, v := range x {
		z[i] = (v - mean) / std
	}
	return z
}
