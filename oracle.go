package dpc

// Measurement is the result of asking an Oracle for the dissimilarity of two
// items. Degraded is set when the oracle could not produce its preferred
// value and fell back to a raw, lower-quality one.
type Measurement struct {
	Value    float64
	Degraded bool
}

// Oracle returns a non-negative dissimilarity between two items. When
// matrices are built with more than one worker, Measure must be safe to call
// concurrently for disjoint pairs.
type Oracle[T any] interface {
	Measure(a, b T) Measurement
}

// OracleFunc adapts a plain function into an Oracle.
type OracleFunc[T any] func(a, b T) Measurement

func (f OracleFunc[T]) Measure(a, b T) Measurement { return f(a, b) }

// Plain wraps a distance function that always succeeds.
func Plain[T any](distance func(a, b T) float64) Oracle[T] {
	return OracleFunc[T](func(a, b T) Measurement {
		return Measurement{Value: distance(a, b)}
	})
}

// WithFallback builds an Oracle that prefers preferred and, when it fails
// for a pair, returns raw(a, b) marked as degraded.
func WithFallback[T any](preferred func(a, b T) (float64, error), raw func(a, b T) float64) Oracle[T] {
	return OracleFunc[T](func(a, b T) Measurement {
		if d, err := preferred(a, b); err == nil {
			return Measurement{Value: d}
		}
		return Measurement{Value: raw(a, b), Degraded: true}
	})
}

// VectorOracle measures []float64 items with a DistanceMetric.
func VectorOracle(metric DistanceMetric) Oracle[[]float64] {
	return OracleFunc[[]float64](func(a, b []float64) Measurement {
		return Measurement{Value: metric.Distance(a, b)}
	})
}
