package dpc

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// ErrInvalidConfig is returned by BuildConsensus for an unusable Config.
var ErrInvalidConfig = errors.New("dpc: invalid config")

// Config controls the consensus pipeline.
// Start with [DefaultConfig] and set the oracles.
type Config[T any] struct {
	// Coarse measures items for the first clustering pass over the whole
	// population. Required.
	Coarse Oracle[T]

	// Refine measures items inside one coarse cluster for the second,
	// finer pass. Required.
	Refine Oracle[T]

	// Dedup returns the angular difference between two representatives.
	// Its magnitude is compared with DedupThreshold. Required.
	Dedup func(a, b T) float64

	// MinClusterSize is the smallest population worth clustering, and the
	// smallest coarse group or sub-cluster that may yield a representative.
	// Must be >= 2. Default: 5.
	MinClusterSize int

	// DedupThreshold is the angular difference below which two
	// representatives are considered the same model. Must be > 0.
	// Default: 5.0.
	DedupThreshold float64

	// Workers controls the number of goroutines used to fill each distance
	// matrix. The oracles must be safe for concurrent use when it is > 1.
	// Must be >= 0. Default: 1 (sequential).
	Workers int

	// FirstModelOnly skips clustering and returns the first item of the
	// population. Default: false.
	FirstModelOnly bool

	// Logger receives stage summaries (debug) and quality warnings.
	// Default: zap.NewNop().
	Logger *zap.Logger
}

// DefaultConfig returns a Config with reasonable defaults and no oracles.
func DefaultConfig[T any]() Config[T] {
	return Config[T]{
		MinClusterSize: 5,
		DedupThreshold: 5.0,
		Workers:        1,
		Logger:         zap.NewNop(),
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults[T any](cfg *Config[T]) {
	if cfg.MinClusterSize == 0 {
		cfg.MinClusterSize = 5
	}
	if cfg.DedupThreshold == 0 {
		cfg.DedupThreshold = 5.0
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig[T any](cfg *Config[T]) error {
	if cfg.MinClusterSize < 2 {
		return fmt.Errorf("%w: MinClusterSize must be >= 2, got %d", ErrInvalidConfig, cfg.MinClusterSize)
	}
	if !(cfg.DedupThreshold > 0) || math.IsInf(cfg.DedupThreshold, 0) {
		return fmt.Errorf("%w: DedupThreshold must be finite and > 0, got %f", ErrInvalidConfig, cfg.DedupThreshold)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: Workers must be >= 0, got %d", ErrInvalidConfig, cfg.Workers)
	}
	if cfg.FirstModelOnly {
		return nil
	}
	if cfg.Coarse == nil {
		return fmt.Errorf("%w: Coarse oracle is required", ErrInvalidConfig)
	}
	if cfg.Refine == nil {
		return fmt.Errorf("%w: Refine oracle is required", ErrInvalidConfig)
	}
	if cfg.Dedup == nil {
		return fmt.Errorf("%w: Dedup function is required", ErrInvalidConfig)
	}
	return nil
}

// Consensus is the output of BuildConsensus together with the per-stage
// diagnostics a caller may log or plot.
type Consensus[T any] struct {
	// Representatives is the final de-duplicated set. It is never empty for
	// a non-empty population.
	Representatives []T

	// Indices holds the population index of each representative.
	Indices []int

	// Skipped is set when the population was too small to cluster (or
	// FirstModelOnly was requested) and the first item was returned as is.
	Skipped bool

	// Fallback is set when clustering produced no representative and the
	// first item of the population was returned instead.
	Fallback bool

	// Coarse is the clustering of the whole population, nil when Skipped.
	Coarse *Result

	// CoarseStats describes the coarse distance matrix construction.
	CoarseStats BuildStats

	// Refinements holds one entry per coarse cluster large enough to be
	// re-clustered, in coarse cluster id order.
	Refinements []Refinement

	// Candidates lists the population indices of the representatives before
	// de-duplication.
	Candidates []int

	// ClosePairs lists pairs of positions in Candidates whose angular
	// difference fell below the threshold.
	ClosePairs [][2]int
}

// Refinement describes the second clustering pass inside one coarse cluster.
type Refinement struct {
	// CoarseCluster is the id of the coarse cluster that was refined.
	CoarseCluster int

	// Members holds the population indices of the coarse cluster. Item k of
	// Result corresponds to Members[k].
	Members []int

	Result *Result
	Stats  BuildStats

	// Representatives holds the population indices of the centres of the
	// sub-clusters that reached MinClusterSize.
	Representatives []int
}

// BuildConsensus finds the representatives of population.
//
// The population is clustered with cfg.Coarse; every coarse cluster with at
// least cfg.MinClusterSize members is clustered again with cfg.Refine, and
// the centre of every sub-cluster with at least cfg.MinClusterSize members
// becomes a representative. Representatives closer than cfg.DedupThreshold
// to an earlier kept one are then dropped.
//
// A population smaller than cfg.MinClusterSize is not clustered: its first
// item is the only representative. An error is returned only for an invalid
// config or an oracle producing negative or non-finite distances.
func BuildConsensus[T any](population []T, cfg Config[T]) (*Consensus[T], error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	log := cfg.Logger

	c := &Consensus[T]{}
	if len(population) == 0 {
		return c, nil
	}

	if cfg.FirstModelOnly || len(population) < cfg.MinClusterSize {
		log.Debug("population too small to cluster, using first item",
			zap.Int("population", len(population)),
			zap.Int("min_cluster_size", cfg.MinClusterSize),
			zap.Bool("first_model_only", cfg.FirstModelOnly))
		c.Skipped = true
		c.Candidates = []int{0}
		c.Indices = []int{0}
		c.Representatives = []T{population[0]}
		return c, nil
	}

	coarseMatrix, stats, err := BuildMatrix(population, cfg.Coarse, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("dpc: coarse stage: %w", err)
	}
	warnDegraded(log, "coarse", stats)
	coarse, err := Cluster(coarseMatrix)
	if err != nil {
		return nil, fmt.Errorf("dpc: coarse stage: %w", err)
	}
	c.Coarse = coarse
	c.CoarseStats = stats
	log.Debug("coarse clustering done",
		zap.Int("items", len(population)),
		zap.Int("clusters", coarse.NumClusters()),
		zap.Stringer("degeneracy", coarse.Degeneracy))

	for id, members := range coarse.Groups() {
		if len(members) < cfg.MinClusterSize {
			log.Debug("coarse cluster below minimum size, discarded",
				zap.Int("cluster", id), zap.Int("members", len(members)))
			continue
		}
		ref, err := refine(population, members, id, cfg)
		if err != nil {
			return nil, err
		}
		c.Refinements = append(c.Refinements, *ref)
		c.Candidates = append(c.Candidates, ref.Representatives...)
	}

	candidates := make([]T, len(c.Candidates))
	for k, idx := range c.Candidates {
		candidates[k] = population[idx]
	}
	kept, closePairs := Deduplicate(candidates, cfg.Dedup, cfg.DedupThreshold)
	c.ClosePairs = closePairs
	for _, k := range kept {
		c.Indices = append(c.Indices, c.Candidates[k])
		c.Representatives = append(c.Representatives, candidates[k])
	}
	if len(closePairs) > 0 {
		log.Debug("dropped near-duplicate representatives",
			zap.Int("candidates", len(candidates)),
			zap.Int("kept", len(kept)),
			zap.Int("close_pairs", len(closePairs)))
	}

	if len(c.Representatives) == 0 {
		log.Warn("no cluster produced a representative, using first item",
			zap.Int("population", len(population)))
		c.Fallback = true
		c.Indices = []int{0}
		c.Representatives = []T{population[0]}
	}
	return c, nil
}

// refine clusters the members of one coarse cluster with the refinement
// oracle and picks the centre of every large enough sub-cluster.
func refine[T any](population []T, members []int, id int, cfg Config[T]) (*Refinement, error) {
	items := make([]T, len(members))
	for k, idx := range members {
		items[k] = population[idx]
	}

	m, stats, err := BuildMatrix(items, cfg.Refine, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("dpc: refinement of coarse cluster %d: %w", id, err)
	}
	warnDegraded(cfg.Logger.With(zap.Int("coarse_cluster", id)), "refine", stats)
	res, err := Cluster(m)
	if err != nil {
		return nil, fmt.Errorf("dpc: refinement of coarse cluster %d: %w", id, err)
	}

	ref := &Refinement{CoarseCluster: id, Members: members, Result: res, Stats: stats}
	for k, sub := range res.Groups() {
		if len(sub) < cfg.MinClusterSize {
			continue
		}
		ref.Representatives = append(ref.Representatives, members[res.Center(k)])
	}
	cfg.Logger.Debug("refinement clustering done",
		zap.Int("coarse_cluster", id),
		zap.Int("items", len(members)),
		zap.Int("sub_clusters", res.NumClusters()),
		zap.Int("representatives", len(ref.Representatives)),
		zap.Stringer("degeneracy", res.Degeneracy))
	return ref, nil
}

func warnDegraded(log *zap.Logger, stage string, stats BuildStats) {
	if stats.Degraded == 0 {
		return
	}
	log.Warn("oracle fell back to raw distances",
		zap.String("stage", stage),
		zap.Int("degraded_pairs", stats.Degraded),
		zap.Int("pairs", stats.Pairs))
}
