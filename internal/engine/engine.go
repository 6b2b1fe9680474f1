package engine

import (
	"context"

	"github.com/giodueck/ga-tsp-go/internal/evolve"
	"github.com/giodueck/ga-tsp-go/internal/genome"
	"github.com/giodueck/ga-tsp-go/internal/island"
	"github.com/giodueck/ga-tsp-go/internal/report"
	"github.com/giodueck/ga-tsp-go/internal/rng"
	"github.com/giodueck/ga-tsp-go/internal/selection"
	"github.com/giodueck/ga-tsp-go/internal/stats"
	"github.com/giodueck/ga-tsp-go/internal/tsp"
)

// Engine is a fully assembled run: a Config, the problem it solves, and
// the population it evolves in place.
type Engine struct {
	Config *Config
	Prob   *tsp.Problem
	Pop    *genome.Population
	Pool   *rng.Pool
}

// New assembles an Engine over prob according to cfg, initialising the
// population via the problem's permutation initialiser. cfg.ChromLength
// is overwritten with prob.N() so callers don't have to keep it in sync
// by hand.
func New(cfg *Config, prob *tsp.Problem) *Engine {
	cfg.ChromLength = prob.N()
	pool := rng.NewPool(cfg.Seed)
	pop := genome.New(cfg.PopulationSize, cfg.ChromLength, prob.Init(pool.Stream(0)))
	return &Engine{Config: cfg, Prob: prob, Pop: pop, Pool: pool}
}

func (e *Engine) step() island.StepFunc {
	cfg := e.Config
	cross := e.Prob.CrossFunc(cfg.MutationRate)
	mutate := e.Prob.MutateFunc(cfg.MutationRate)
	fitness := e.Prob.FitnessFunc()

	if cfg.Strategy == Truncation {
		return func(pop genome.Slice, stream *rng.Stream) uint32 {
			selection.Truncate(pop, cfg.Criteria, cfg.DeadPercent, cfg.ElitePercent, fitness)
			return evolve.NextGenerationTrunc(pop, cfg.DeadPercent, cfg.CrossPercent, cross, mutate, stream)
		}
	}
	return func(pop genome.Slice, stream *rng.Stream) uint32 {
		return evolve.NextGenerationTournament(pop, cfg.TournamentSize, cfg.Criteria, fitness, cross, mutate, stream)
	}
}

// StatsSink receives one StatsLine per emission point; Run calls it for
// every island at each emission point described on Run. A nil sink
// disables stats entirely.
type StatsSink func(report.StatsLine)

// Run drives the configured number of generations to completion,
// splitting the population into cfg.Islands islands and, if
// cfg.CrossInterval > 0, interleaving a single whole-population cross
// epoch between batches (the island model's migration step). sink, if
// non-nil, receives a stats snapshot per island: at every multiple of
// cfg.StatsInterval when islands never cross, after every cross-step
// when cfg.CrossInterval > 0, and at the end of the run. A StatsInterval
// of 0 keeps only the final snapshot; -1 disables them all.
func (e *Engine) Run(ctx context.Context, sink StatsSink) error {
	cfg := e.Config
	bounds := island.Bounds(cfg.PopulationSize, cfg.Islands)
	shared := &island.Shared{Pop: e.Pop, Bounds: bounds, Pool: e.Pool, Step: e.step()}

	gen := 0
	for gen < cfg.MaxGenerations {
		batch := cfg.MaxGenerations - gen
		if cfg.CrossInterval > 0 && cfg.CrossInterval-1 < batch {
			batch = cfg.CrossInterval - 1
		}
		// Without crossing, a batch ends at the next stats boundary so
		// interim stats can be emitted; island streams carry over between
		// batches, so the split does not change the run.
		if cfg.CrossInterval <= 0 && cfg.StatsInterval > 0 {
			if next := cfg.StatsInterval - gen%cfg.StatsInterval; next < batch {
				batch = next
			}
		}
		// CrossInterval == 1 computes to a 0-generation batch (cross every
		// generation); widened to 1 so RunBatch always has work to do before
		// each cross-step instead of being called with an empty range.
		if batch < 1 {
			batch = 1
		}

		if err := shared.RunBatch(ctx, batch); err != nil {
			return err
		}
		gen += batch

		if cfg.CrossInterval > 0 && gen < cfg.MaxGenerations {
			shared.CrossStep(shared.CrossStream())
			gen++
		}

		e.emitStats(sink, gen)
	}

	return nil
}

func (e *Engine) emitStats(sink StatsSink, gen int) {
	if sink == nil || e.Config.StatsInterval < 0 {
		return
	}
	final := gen == e.Config.MaxGenerations
	if e.Config.StatsInterval == 0 && !final {
		return
	}
	crossing := e.Config.CrossInterval > 0
	if e.Config.StatsInterval > 0 && !crossing && gen%e.Config.StatsInterval != 0 && !final {
		return
	}

	cfg := e.Config
	bounds := island.Bounds(cfg.PopulationSize, cfg.Islands)
	for i := 0; i < len(bounds)-1; i++ {
		slice := e.Pop.Of(bounds[i], bounds[i+1])
		var best, worst, average, eliteWorst int64
		if cfg.Strategy == Truncation {
			fitness := e.Prob.FitnessFunc()
			selection.Truncate(slice, cfg.Criteria, 0, cfg.ElitePercent, fitness)
			stats.Sorted(slice, cfg.ElitePercent, &best, &eliteWorst, &average, &worst)
		} else {
			stats.Unsorted(slice, &best, &average, &worst)
		}

		line := report.StatsLine{
			Generation: uint32(gen),
			Best:       best,
			ElitePct:   cfg.ElitePercent,
			EliteWorst: eliteWorst,
			Average:    average,
			Worst:      worst,
		}
		if len(bounds)-1 > 1 {
			line.Island = i
		} else {
			line.Island = -1
		}
		sink(line)
	}
}
