// Command consensus picks the representative crystal models of one image.
//
// It reads a population file, clusters the crystals by unit cell and then
// by orientation, and writes the surviving representatives as YAML.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	dpc "github.com/Trzs/exafel-project"
	"github.com/Trzs/exafel-project/crystal"
	"github.com/Trzs/exafel-project/internal/config"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	configFile = flag.String("config", "", "Path to configuration file (defaults when empty)")
	inputFile  = flag.String("input", "", "Path to the population YAML file")
	outputFile = flag.String("output", "", "Output file for the report (stdout when empty)")
)

// errUsage marks a command-line mistake, reported with exit status 2.
var errUsage = errors.New("-input is required")

func main() {
	flag.Parse()
	if err := realMain(); err != nil {
		fmt.Fprintf(os.Stderr, "consensus: %v\n", err)
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func realMain() error {
	if *inputFile == "" {
		return errUsage
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	log, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting", zap.String("version", Version), zap.String("input", *inputFile))

	pop, err := crystal.LoadPopulation(*inputFile)
	if err != nil {
		return fmt.Errorf("loading population: %w", err)
	}
	rep, err := run(pop, cfg, log)
	if err != nil {
		return fmt.Errorf("building consensus: %w", err)
	}
	if err := writeOutput(*outputFile, rep); err != nil {
		return err
	}

	log.Info("done",
		zap.Int("crystals", len(pop.Crystals)),
		zap.Int("representatives", len(rep.Representatives)))
	return nil
}

// Report is the YAML document written by the command.
type Report struct {
	Image           string            `yaml:"image,omitempty"`
	Lattice         crystal.Lattice   `yaml:"lattice"`
	Crystals        int               `yaml:"crystals"`
	Skipped         bool              `yaml:"skipped,omitempty"`
	Fallback        bool              `yaml:"fallback,omitempty"`
	CoarseClusters  int               `yaml:"coarse_clusters"`
	Degeneracy      string            `yaml:"degeneracy,omitempty"`
	DegradedPairs   int               `yaml:"degraded_pairs"`
	Candidates      []int             `yaml:"candidates"`
	Indices         []int             `yaml:"indices"`
	Representatives []crystal.Crystal `yaml:"representatives"`
	Clusters        []ClusterReport   `yaml:"clusters,omitempty"`
}

// ClusterReport summarises one refined coarse cluster.
type ClusterReport struct {
	ID              int    `yaml:"id"`
	Size            int    `yaml:"size"`
	SubClusters     int    `yaml:"sub_clusters"`
	Degeneracy      string `yaml:"degeneracy"`
	Representatives []int  `yaml:"representatives"`
}

func run(pop *crystal.Population, cfg *config.Config, log *zap.Logger) (*Report, error) {
	lattice := pop.Lattice
	if cfg.Lattice != "" {
		lattice = crystal.Lattice(cfg.Lattice)
	}
	metrics, err := crystal.NewMetrics(lattice)
	if err != nil {
		return nil, err
	}

	dc := dpc.DefaultConfig[crystal.Crystal]()
	dc.MinClusterSize = cfg.MinClusterSize
	dc.DedupThreshold = cfg.DedupThreshold
	dc.Workers = cfg.Workers
	dc.FirstModelOnly = cfg.FirstModelOnly
	dc.Logger = log.With(zap.String("image", pop.Image))
	metrics.Apply(&dc)

	c, err := dpc.BuildConsensus(pop.Crystals, dc)
	if err != nil {
		return nil, err
	}
	return newReport(pop, lattice, c), nil
}

func newReport(pop *crystal.Population, lattice crystal.Lattice, c *dpc.Consensus[crystal.Crystal]) *Report {
	rep := &Report{
		Image:           pop.Image,
		Lattice:         lattice,
		Crystals:        len(pop.Crystals),
		Skipped:         c.Skipped,
		Fallback:        c.Fallback,
		DegradedPairs:   c.CoarseStats.Degraded,
		Candidates:      c.Candidates,
		Indices:         c.Indices,
		Representatives: c.Representatives,
	}
	if c.Coarse != nil {
		rep.CoarseClusters = c.Coarse.NumClusters()
		rep.Degeneracy = c.Coarse.Degeneracy.String()
	}
	for _, r := range c.Refinements {
		rep.DegradedPairs += r.Stats.Degraded
		rep.Clusters = append(rep.Clusters, ClusterReport{
			ID:              r.CoarseCluster,
			Size:            len(r.Members),
			SubClusters:     r.Result.NumClusters(),
			Degeneracy:      r.Result.Degeneracy.String(),
			Representatives: r.Representatives,
		})
	}
	return rep
}

func writeReport(w io.Writer, rep *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}

// writeOutput writes the report to path, or to stdout when path is empty.
func writeOutput(path string, rep *Report) (err error) {
	if path == "" {
		return writeReport(os.Stdout, rep)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()
	return writeReport(f, rep)
}
