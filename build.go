package dpc

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidDistance is returned when an oracle produces a negative or
// non-finite dissimilarity.
var ErrInvalidDistance = errors.New("dpc: oracle returned an invalid distance")

// BuildStats summarises a matrix construction.
type BuildStats struct {
	// Pairs is the number of i < j pairs measured.
	Pairs int
	// Degraded is the number of pairs for which the oracle fell back to a
	// raw value.
	Degraded int
}

// BuildMatrix measures every pair i < j of items with oracle and mirrors the
// value into (j, i). numWorkers controls the degree of parallelism; if <= 1
// the pairs are measured sequentially on the calling goroutine.
//
// The result is bitwise identical for every worker count: each cell is
// written exactly once.
func BuildMatrix[T any](items []T, oracle Oracle[T], numWorkers int) (*DistanceMatrix, BuildStats, error) {
	n := len(items)
	m := newDistanceMatrix(n)
	stats := BuildStats{Pairs: n * (n - 1) / 2}
	if n < 2 {
		return m, BuildStats{}, nil
	}

	rowErrs := make([]error, n)
	rowDegraded := make([]int, n)

	measureRows := func(start, end int) {
		for i := start; i < end; i++ {
			for j := i + 1; j < n; j++ {
				meas := oracle.Measure(items[i], items[j])
				if err := checkDistance(meas.Value); err != nil {
					rowErrs[i] = fmt.Errorf("%w: pair (%d,%d): %v", ErrInvalidDistance, i, j, err)
					break
				}
				if meas.Degraded {
					rowDegraded[i]++
				}
				m.set(i, j, meas.Value)
			}
		}
	}

	if numWorkers <= 1 {
		measureRows(0, n)
	} else {
		// Split rows across workers. Each worker owns a contiguous range of
		// "source" rows, so the cells it writes never overlap another's.
		var wg sync.WaitGroup
		rowsPerWorker := (n + numWorkers - 1) / numWorkers

		for w := 0; w < numWorkers; w++ {
			startRow := w * rowsPerWorker
			endRow := min(startRow+rowsPerWorker, n)
			if startRow >= n {
				break
			}

			wg.Add(1)
			go func(start, end int) {
				defer wg.Done()
				measureRows(start, end)
			}(startRow, endRow)
		}

		wg.Wait()
	}

	for i := 0; i < n; i++ {
		if rowErrs[i] != nil {
			return nil, BuildStats{}, rowErrs[i]
		}
		stats.Degraded += rowDegraded[i]
	}
	return m, stats, nil
}
