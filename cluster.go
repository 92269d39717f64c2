package dpc

import "errors"

// Result contains the output of one density-peak clustering pass.
type Result struct {
	// Densities is the local density rho of each item.
	Densities []float64

	// Separations is the separation delta of each item: the distance to its
	// parent, or the largest distance to any item for the densest one.
	Separations []float64

	// Parents holds the nearest higher-ranked item of each item, or NoParent
	// for the top-ranked item.
	Parents []int

	// Order lists item indices by density descending, ties by index.
	Order []int

	// Centers lists the chosen centre items in density rank order. Centers[k]
	// is the centre of cluster k.
	Centers []int

	// LabelsCentersOnly labels only the centres; every other item is
	// Unassigned.
	LabelsCentersOnly []int

	// LabelsFull assigns every item the cluster of its nearest denser
	// neighbour, transitively up to a centre. Items stay Unassigned only
	// when no centre was found.
	LabelsFull []int

	// Degeneracy reports whether centres were chosen by a fallback rule
	// because density, separation or both had zero variance.
	Degeneracy Degeneracy
}

// NumClusters returns the number of clusters found.
func (r *Result) NumClusters() int { return len(r.Centers) }

// Center returns the centre item of cluster k.
func (r *Result) Center(k int) int { return r.Centers[k] }

// Groups returns the members of every cluster, indexed by cluster id, each
// in ascending item order. Unassigned items appear in no group.
func (r *Result) Groups() [][]int {
	groups := make([][]int, len(r.Centers))
	for i, l := range r.LabelsFull {
		if l != Unassigned {
			groups[l] = append(groups[l], i)
		}
	}
	return groups
}

// Cluster runs density-peak clustering on m: densities, separations, centre
// selection and label propagation.
//
// An empty matrix yields an empty result. A single item forms one trivial
// cluster reported as DegenerateBoth.
func Cluster(m *DistanceMatrix) (*Result, error) {
	if m == nil {
		return nil, errors.New("dpc: nil distance matrix")
	}

	rho := ComputeDensity(m)
	order := RankByDensity(rho)
	delta, parent := ComputeSeparation(m, order)
	centers, degeneracy := SelectCenters(rho, delta, order)
	centersOnly, full := PropagateLabels(order, parent, centers)

	return &Result{
		Densities:         rho,
		Separations:       delta,
		Parents:           parent,
		Order:             order,
		Centers:           centers,
		LabelsCentersOnly: centersOnly,
		LabelsFull:        full,
		Degeneracy:        degeneracy,
	}, nil
}
