// Package island implements the island coordinator (component C7):
// splitting a population into contiguous sub-ranges, evolving each on its
// own worker for an interval, and periodically synchronising — optionally
// performing a single whole-population "cross" epoch that lets selection
// operate across island boundaries, providing migration.
//
// Two cooperation modes share the same contract from the core's
// viewpoint: Shared, which fans generations out over goroutines joined
// with an errgroup, and Distributed (wire.go), which serialises each
// island's chromosomes over an in-process message-passing channel the
// way the reference C source's MPI build ships blocks of uint32 to
// worker ranks.
package island

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/giodueck/ga-tsp-go/internal/genome"
	"github.com/giodueck/ga-tsp-go/internal/rng"
)

// StepFunc advances one island's slice by exactly one generation and
// returns its new generation number. It is produced by the caller from
// whichever selection regime is configured (selection.Truncate +
// evolve.NextGenerationTrunc fused into one closure, or
// evolve.NextGenerationTournament directly).
type StepFunc func(pop genome.Slice, stream *rng.Stream) uint32

// Bounds splits [0, populationSize) into islands contiguous, near-equal
// ranges, returning an islands+1 boundary array: each island i occupies
// [Bounds[i], Bounds[i+1]). Remainder from uneven division folds into
// the last island, matching main.c's thread_bounds construction.
func Bounds(populationSize, islands int) []int {
	if islands < 1 {
		islands = 1
	}
	bounds := make([]int, islands+1)
	low := 0
	for i := 0; i < islands-1; i++ {
		low += populationSize / islands
		bounds[i+1] = low
	}
	bounds[islands] = populationSize
	return bounds
}

// Shared is the shared-memory cooperation mode: one goroutine per island,
// each bound to a disjoint index range and its own RNG stream, joined on
// a barrier at the end of every batch. No locks are required because the
// write sets (arena index ranges) are statically disjoint.
type Shared struct {
	Pop    *genome.Population
	Bounds []int
	Pool   *rng.Pool
	Step   StepFunc
}

// Islands returns the number of islands this coordinator was built for.
func (s *Shared) Islands() int { return len(s.Bounds) - 1 }

// RunBatch dispatches gens generations to every island concurrently and
// blocks until all islands finish (or one returns an error via ctx).
// Workers never block inside an epoch; the only suspension point is this
// join.
func (s *Shared) RunBatch(ctx context.Context, gens int) error {
	g, _ := errgroup.WithContext(ctx)
	for i := 0; i < s.Islands(); i++ {
		i := i
		lo, hi := s.Bounds[i], s.Bounds[i+1]
		stream := s.Pool.Stream(i)
		g.Go(func() error {
			slice := s.Pop.Of(lo, hi)
			for n := 0; n < gens; n++ {
				s.Step(slice, stream)
			}
			return nil
		})
	}
	return g.Wait()
}

// CrossStep runs exactly one generation over the whole population as a
// single island, letting selection draw across what were island
// boundaries a moment ago. It must only be called after RunBatch has
// joined (no worker goroutines active), on a single thread, so it
// observes a consistent whole-population view. It uses the dedicated
// cross-step RNG stream (worker id == number of islands), kept distinct
// from every island's own stream.
func (s *Shared) CrossStep(stream *rng.Stream) uint32 {
	return s.Step(s.Pop.All(), stream)
}

// CrossStream returns the RNG stream reserved for CrossStep, one id past
// the last island's.
func (s *Shared) CrossStream() *rng.Stream {
	return s.Pool.Stream(s.Islands())
}
