package dpc

import "sort"

// NoParent marks the top-ranked item, which has no denser neighbour.
const NoParent = -1

// RankByDensity returns item indices ordered by density descending. Ties are
// broken by ascending index, so the order is fully deterministic.
func RankByDensity(rho []float64) []int {
	order := make([]int, len(rho))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rho[order[a]] > rho[order[b]]
	})
	return order
}

// ComputeSeparation returns the separation delta and the parent of every
// item, given the density order from RankByDensity.
//
// The top-ranked item gets the largest distance to any other item and
// parent NoParent. Every other item gets the distance to its nearest
// higher-ranked item, which becomes its parent; among equidistant
// higher-ranked items the one ranked first wins.
func ComputeSeparation(m *DistanceMatrix, order []int) (delta []float64, parent []int) {
	n := m.Len()
	delta = make([]float64, n)
	parent = make([]int, n)
	if n == 0 {
		return delta, parent
	}

	top := order[0]
	delta[top] = m.RowMax(top)
	parent[top] = NoParent

	for r := 1; r < n; r++ {
		i := order[r]
		best := order[0]
		bestDist := m.At(i, best)
		for _, j := range order[1:r] {
			if d := m.At(i, j); d < bestDist {
				best, bestDist = j, d
			}
		}
		delta[i] = bestDist
		parent[i] = best
	}
	return delta, parent
}
