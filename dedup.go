package dpc

import "math"

// Deduplicate removes near-duplicates from reps. Every unordered pair (i, j),
// i < j, whose |angle(reps[i], reps[j])| is below threshold is close; close
// pairs are visited in (i, j) order and j is dropped unless i was dropped
// already.
//
// The policy keeps the earlier representative of a close pair regardless of
// which one is the better model.
//
// Returns the positions of the kept representatives, ascending, and the close
// pairs found.
func Deduplicate[T any](reps []T, angle func(a, b T) float64, threshold float64) (kept []int, closePairs [][2]int) {
	for i := 0; i < len(reps)-1; i++ {
		for j := i + 1; j < len(reps); j++ {
			if math.Abs(angle(reps[i], reps[j])) < threshold {
				closePairs = append(closePairs, [2]int{i, j})
			}
		}
	}

	dropped := make([]bool, len(reps))
	for _, p := range closePairs {
		if !dropped[p[0]] {
			dropped[p[1]] = true
		}
	}

	for i := range reps {
		if !dropped[i] {
			kept = append(kept, i)
		}
	}
	return kept, closePairs
}
