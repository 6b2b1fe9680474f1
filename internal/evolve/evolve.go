// Package evolve implements generation-advance (component C6): driving
// one epoch of either selection regime to completion and maintaining the
// generation counter.
//
// The reference C source carries multiple drafts of next_generation*
// with subtly different signatures; this package merges them into one
// truncation variant and one tournament variant.
package evolve

import (
	"github.com/giodueck/ga-tsp-go/internal/genome"
	"github.com/giodueck/ga-tsp-go/internal/rng"
	"github.com/giodueck/ga-tsp-go/internal/selection"
)

// NextGenerationTrunc assumes pop has just been selected with
// selection.Truncate, so [0, threshold) holds survivors and
// [threshold, size) holds individuals marked Dead. For each dead slot it
// either crosses two random survivors into it (while a cross budget
// derived from percentCross remains) or clones a random survivor's genes
// and metadata into it; every replaced slot is then mutated. After all
// replacements, every non-elite survivor is mutated too (diversity
// pressure on the surviving pool), and finally every individual's
// Generation is incremented by one. Returns the new generation number
// (pop[0].Generation). percentCross has no effect outside truncation
// mode; see selection.Tournament, which never consults it.
func NextGenerationTrunc(
	pop genome.Slice,
	percentDead, percentCross int,
	cross selection.CrossFunc,
	mutate selection.MutateFunc,
	stream *rng.Stream,
) uint32 {
	size := len(pop)
	if size == 0 {
		return 0
	}

	deadCount := size * percentDead / 100
	threshold := size - deadCount
	if threshold <= 0 {
		return pop[0].Generation
	}

	crossBudget := size * percentCross / 100
	for i := threshold; i < size; i++ {
		if crossBudget > 0 {
			p1 := stream.Intn(threshold)
			p2 := stream.Intn(threshold)
			cross(&pop[p1], &pop[p2], &pop[i], stream)
			crossBudget--
		} else {
			survivor := stream.Intn(threshold)
			genome.CloneInto(&pop[i], pop[survivor])
		}
		mutate(&pop[i], stream)
	}

	for i := 0; i < threshold; i++ {
		if !pop[i].Elite {
			mutate(&pop[i], stream)
		}
	}

	for i := range pop {
		pop[i].Generation++
	}

	return pop[0].Generation
}

// NextGenerationTournament drives one epoch of k-way tournament
// selection. Selection and replacement are fused into a single operator
// (selection.Tournament); this wrapper exists only so callers have one
// consistent "advance one epoch" entry point regardless of selection
// regime.
func NextGenerationTournament(
	pop genome.Slice,
	k int,
	criteria selection.Criteria,
	fitness selection.FitnessFunc,
	cross selection.CrossFunc,
	mutate selection.MutateFunc,
	stream *rng.Stream,
) uint32 {
	return selection.Tournament(pop, k, criteria, fitness, cross, mutate, stream)
}
