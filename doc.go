// Package dpc implements density-peak clustering (Rodriguez & Laio, 2014)
// over a dense distance matrix, and a two-stage consensus pipeline built on
// top of it.
//
// Every item gets a local density ρ and a separation δ (distance to the
// nearest denser item). Items with unusually high values of both become
// cluster centres; everything else inherits the label of its nearest denser
// neighbour. The number of clusters is not a parameter: centres are chosen
// from the z-scores of ρ and δ.
//
// Basic usage:
//
//	m, err := dpc.NewDistanceMatrix(flat, n)
//	result, err := dpc.Cluster(m)
//	// result.LabelsFull[i] is the cluster ID for item i (-1 = unassigned)
//	// result.LabelsCentersOnly[i] is set only for the chosen centres
//	// result.Densities / result.Separations are the decision-graph axes
//
// # Consensus
//
// BuildConsensus clusters a population coarsely with one dissimilarity
// oracle, re-clusters every large enough coarse group with a second, finer
// oracle, takes the centre of every large enough sub-cluster as a
// representative and finally drops representatives that lie within a
// de-duplication threshold of an earlier one:
//
//	cfg := dpc.DefaultConfig[Model]()
//	cfg.Coarse = dpc.Plain(cellDistance)
//	cfg.Refine = dpc.WithFallback(alignedDistance, rawDistance)
//	cfg.Dedup = angleBetween
//	c, err := dpc.BuildConsensus(models, cfg)
//	// c.Representatives is never empty for a non-empty population
package dpc
