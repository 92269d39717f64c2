package dpc

// Unassigned is the label of an item that belongs to no cluster.
const Unassigned = -1

// PropagateLabels assigns cluster ids. centers[k] gets id k. Walking items in
// density order, every other item inherits the label of its parent, which
// always precedes it in that order.
//
// Returns the labels of the centres alone (everything else Unassigned) and
// the full labelling. With no centres both are all Unassigned.
func PropagateLabels(order, parent, centers []int) (centersOnly, full []int) {
	n := len(order)
	centersOnly = make([]int, n)
	full = make([]int, n)
	for i := range centersOnly {
		centersOnly[i] = Unassigned
		full[i] = Unassigned
	}

	for k, c := range centers {
		centersOnly[c] = k
	}
	if len(centers) == 0 {
		return centersOnly, full
	}

	for _, i := range order {
		if centersOnly[i] != Unassigned {
			full[i] = centersOnly[i]
			continue
		}
		if p := parent[i]; p != NoParent {
			full[i] = full[p]
		}
	}
	return centersOnly, full
}
