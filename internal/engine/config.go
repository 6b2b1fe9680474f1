// Package engine assembles the evolutionary loop's run parameters into a
// single explicit Config and drives the island coordinator to completion,
// replacing the reference C source's process-wide globals for the
// Problem, mutation rate, and RNG array with one value threaded through
// every operator call.
package engine

import (
	"fmt"

	"github.com/giodueck/ga-tsp-go/internal/selection"
)

// Strategy selects which generation-advance regime a Config drives.
type Strategy int

const (
	// Tournament is the default strategy.
	Tournament Strategy = iota
	Truncation
)

// Config holds every run parameter accepted from the command line,
// assembled via the With* option functions below. There is no default
// problem: it is supplied to New, which also sets ChromLength from it.
type Config struct {
	PopulationSize int
	ChromLength    int
	Strategy       Strategy
	Criteria       selection.Criteria

	ElitePercent int
	DeadPercent  int
	CrossPercent int

	TournamentSize int
	MutationRate   int // events per 2^20 trials

	Islands        int
	CrossInterval  int
	MaxGenerations int

	Seed int64

	StatsInterval int // generations between stats emissions; -1 disables, 0 disables interim only
}

// NewConfig creates a Config with the reference engine's documented
// defaults, then applies opts in order.
//
// Defaults:
//   - population 2500
//   - 5% elite; dead and cross-replacement percentages default to 0 and
//     must be set explicitly by truncation-strategy callers (cmd/ga sets
//     both to 50 when -s is given)
//   - tournament size 4
//   - mutation rate 1000 per 2^20 (~0.1%)
//   - 1 island, cross interval 0 (never cross)
//   - 3000 max generations
//   - stats interval 100
//   - tournament strategy, minimisation criteria
func NewConfig(opts ...func(*Config)) *Config {
	c := &Config{
		PopulationSize: 2500,
		Strategy:       Tournament,
		Criteria:       selection.Minimize,
		ElitePercent:   5,
		TournamentSize: 4,
		MutationRate:   1000,
		Islands:        1,
		CrossInterval:  0,
		MaxGenerations: 3000,
		StatsInterval:  100,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate reports a usage error for any parameter combination the
// engine cannot run with.
func (c *Config) Validate() error {
	if c.PopulationSize < 1 {
		return fmt.Errorf("engine: population size must be at least 1, got %d", c.PopulationSize)
	}
	if c.ChromLength < 2 {
		return fmt.Errorf("engine: problem must have at least 2 nodes, got %d", c.ChromLength)
	}
	if c.Islands < 1 {
		return fmt.Errorf("engine: island count must be at least 1, got %d", c.Islands)
	}
	if c.MaxGenerations < 1 {
		return fmt.Errorf("engine: max generations must be at least 1, got %d", c.MaxGenerations)
	}
	if c.Strategy == Tournament && c.TournamentSize < 2 {
		return fmt.Errorf("engine: tournament size must be at least 2, got %d", c.TournamentSize)
	}
	return nil
}

// WithPopulationSize sets the total population size P across all islands.
func WithPopulationSize(size int) func(*Config) {
	return func(c *Config) { c.PopulationSize = size }
}

// WithChromLength sets the chromosome length N (the problem's node count).
func WithChromLength(n int) func(*Config) {
	return func(c *Config) { c.ChromLength = n }
}

// WithStrategy selects truncation-with-elitism or tournament selection.
func WithStrategy(s Strategy) func(*Config) {
	return func(c *Config) { c.Strategy = s }
}

// WithElitePercent sets the truncation elite percentage.
func WithElitePercent(pct int) func(*Config) {
	return func(c *Config) { c.ElitePercent = pct }
}

// WithDeadPercent sets the truncation dead percentage.
func WithDeadPercent(pct int) func(*Config) {
	return func(c *Config) { c.DeadPercent = pct }
}

// WithCrossPercent sets the truncation cross-replacement budget
// percentage. It has no effect under Tournament strategy.
func WithCrossPercent(pct int) func(*Config) {
	return func(c *Config) { c.CrossPercent = pct }
}

// WithTournamentSize sets k for tournament selection.
func WithTournamentSize(k int) func(*Config) {
	return func(c *Config) { c.TournamentSize = k }
}

// WithMutationRate sets the mutation rate in events per 2^20 trials.
func WithMutationRate(ratePerMi int) func(*Config) {
	return func(c *Config) { c.MutationRate = ratePerMi }
}

// WithIslands sets the number of islands the population is split across.
func WithIslands(n int) func(*Config) {
	return func(c *Config) { c.Islands = n }
}

// WithCrossInterval sets the island-cross interval U. U <= 0 means
// islands never exchange members.
func WithCrossInterval(u int) func(*Config) {
	return func(c *Config) { c.CrossInterval = u }
}

// WithMaxGenerations sets the total number of generations to run.
func WithMaxGenerations(n int) func(*Config) {
	return func(c *Config) { c.MaxGenerations = n }
}

// WithSeed sets the master PRNG seed. Worker k derives its stream from
// seed XOR k.
func WithSeed(seed int64) func(*Config) {
	return func(c *Config) { c.Seed = seed }
}

// WithStatsInterval sets the generation interval between stats
// emissions. -1 disables all output; 0 disables interim output (final
// stats still emitted).
func WithStatsInterval(n int) func(*Config) {
	return func(c *Config) { c.StatsInterval = n }
}
