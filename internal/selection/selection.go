// Package selection implements the engine's two selection operators
// (component C5): truncation-with-elitism and k-way tournament.
//
// Both operators are ported from genetic.c's ga_select_trunc and
// ga_next_generation_tournament. The reference C used a criteria-blind
// comparison for the first tournament group and a criteria-aware one for
// the second; this implementation treats both groups consistently.
package selection

import (
	"sort"

	"github.com/giodueck/ga-tsp-go/internal/genome"
	"github.com/giodueck/ga-tsp-go/internal/rng"
)

// Criteria selects whether selection minimises or maximises fitness.
type Criteria int

const (
	Minimize Criteria = iota
	Maximize
)

func isBetter(a, b int64, criteria Criteria) bool {
	if criteria == Minimize {
		return a < b
	}
	return a > b
}

func isWorse(a, b int64, criteria Criteria) bool {
	if criteria == Minimize {
		return a > b
	}
	return a < b
}

// FitnessFunc evaluates (and, per the problem adapter's contract, caches)
// an individual's fitness.
type FitnessFunc func(*genome.Individual) int64

// CrossFunc produces an offspring in child from two parents.
type CrossFunc func(parent1, parent2, child *genome.Individual, stream *rng.Stream)

// MutateFunc applies the problem adapter's mutation operator to ind.
type MutateFunc func(ind *genome.Individual, stream *rng.Stream)

// Truncate sorts pop by fitness (ascending for Minimize, descending for
// Maximize), marks the tail percentDead percent as Dead, and — if
// percentElite > 0 — marks the head percentElite percent as Elite,
// clearing Elite on the remaining survivors. An empty slice is a no-op.
// Ties are broken by whatever order sort.Slice leaves them in; callers
// only need deterministic-enough results to compare runs, not a stable
// sort.
func Truncate(pop genome.Slice, criteria Criteria, percentDead, percentElite int, fitness FitnessFunc) {
	size := len(pop)
	if size == 0 {
		return
	}

	for i := range pop {
		fitness(&pop[i])
	}

	sort.Slice(pop, func(i, j int) bool {
		if criteria == Minimize {
			return pop[i].Fitness < pop[j].Fitness
		}
		return pop[i].Fitness > pop[j].Fitness
	})

	deadCount := size * percentDead / 100
	for i := range pop {
		pop[i].Dead = i >= size-deadCount
	}

	if percentElite > 0 {
		eliteCount := size * percentElite / 100
		for i := 0; i < eliteCount && i < size; i++ {
			pop[i].Elite = true
		}
		for i := eliteCount; i < size-deadCount; i++ {
			pop[i].Elite = false
		}
	}
}

// sampleLiveGroup draws k distinct live (non-Dead) indices from pop,
// marking each Dead as it is drawn so no index is picked twice within or
// across groups in the same tournament round. It linear-probes forward
// from a random start to find the next live slot, matching
// ga_next_generation_tournament's contestant-selection loop.
func sampleLiveGroup(pop genome.Slice, k int, stream *rng.Stream) []int {
	size := len(pop)
	contestants := make([]int, k)
	for i := 0; i < k; i++ {
		pot := stream.Intn(size)
		for pop[pot].Dead {
			pot = (pot + 1) % size
		}
		contestants[i] = pot
		pop[pot].Dead = true
	}
	return contestants
}

// bestAndWorst evaluates the contestants' fitness and returns the index
// of the best (future parent) and the worst (future offspring slot) per
// criteria.
func bestAndWorst(pop genome.Slice, contestants []int, criteria Criteria, fitness FitnessFunc) (best, worst int) {
	fits := make([]int64, len(contestants))
	for i, idx := range contestants {
		fits[i] = fitness(&pop[idx])
	}
	best, worst = contestants[0], contestants[0]
	bestFit, worstFit := fits[0], fits[0]
	for i := 1; i < len(contestants); i++ {
		if isBetter(fits[i], bestFit, criteria) {
			bestFit = fits[i]
			best = contestants[i]
		}
		if isWorse(fits[i], worstFit, criteria) {
			worstFit = fits[i]
			worst = contestants[i]
		}
	}
	return best, worst
}

// Tournament holds N_t = size/(2k) back-to-back pairs of k-way
// tournaments. Each pair yields two parents (the fittest contestant in
// each group) and two replacement slots (the least fit contestant in
// each group); the replacement slots are overwritten in place with
// offspring of the two parents, crossed in both orders, mutated, and
// re-evaluated. No individual is sampled into more than one tournament
// per call. After all tournaments, every individual's Generation is
// incremented by one, and the new generation number (pop[0].Generation)
// is returned. An empty slice is a no-op returning 0.
func Tournament(
	pop genome.Slice,
	k int,
	criteria Criteria,
	fitness FitnessFunc,
	cross CrossFunc,
	mutate MutateFunc,
	stream *rng.Stream,
) uint32 {
	size := len(pop)
	if size == 0 {
		return 0
	}

	for i := range pop {
		pop[i].Dead = false
	}

	if k < 2 {
		k = 2
	}

	rounds := size / (2 * k)
	for n := 0; n < rounds; n++ {
		group1 := sampleLiveGroup(pop, k, stream)
		p1, c1 := bestAndWorst(pop, group1, criteria, fitness)

		group2 := sampleLiveGroup(pop, k, stream)
		p2, c2 := bestAndWorst(pop, group2, criteria, fitness)

		cross(&pop[p1], &pop[p2], &pop[c1], stream)
		mutate(&pop[c1], stream)
		pop[c1].FitCached = false
		fitness(&pop[c1])

		cross(&pop[p2], &pop[p1], &pop[c2], stream)
		mutate(&pop[c2], stream)
		pop[c2].FitCached = false
		fitness(&pop[c2])
	}

	for i := range pop {
		pop[i].Generation++
	}

	return pop[0].Generation
}
