package selection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giodueck/ga-tsp-go/internal/genome"
	"github.com/giodueck/ga-tsp-go/internal/rng"
)

func popWithFitness(values []int64) genome.Slice {
	pop := make(genome.Slice, len(values))
	for i, v := range values {
		pop[i] = genome.Individual{Fitness: v, FitCached: true}
	}
	return pop
}

func TestTruncateEmptySliceIsNoop(t *testing.T) {
	var pop genome.Slice
	Truncate(pop, Minimize, 50, 5, func(ind *genome.Individual) int64 { return ind.Fitness })
	require.Empty(t, pop)
}

func TestTruncateMinimizeSortsAndMarksDeadElite(t *testing.T) {
	pop := popWithFitness([]int64{50, 10, 40, 20, 30, 60, 5, 45, 15, 35})
	fitness := func(ind *genome.Individual) int64 { return ind.Fitness }

	Truncate(pop, Minimize, 50, 20, fitness)

	for i := 1; i < len(pop); i++ {
		require.LessOrEqual(t, pop[i-1].Fitness, pop[i].Fitness)
	}

	deadCount := len(pop) * 50 / 100
	for i, ind := range pop {
		require.Equal(t, i >= len(pop)-deadCount, ind.Dead)
	}

	eliteCount := len(pop) * 20 / 100
	for i := 0; i < eliteCount; i++ {
		require.True(t, pop[i].Elite)
	}
	for i := eliteCount; i < len(pop)-deadCount; i++ {
		require.False(t, pop[i].Elite)
	}
}

func TestTruncateMaximizeReversesOrder(t *testing.T) {
	pop := popWithFitness([]int64{1, 5, 3, 2, 4})
	fitness := func(ind *genome.Individual) int64 { return ind.Fitness }
	Truncate(pop, Maximize, 0, 0, fitness)
	for i := 1; i < len(pop); i++ {
		require.GreaterOrEqual(t, pop[i-1].Fitness, pop[i].Fitness)
	}
}

func TestTournamentEmptySliceIsNoop(t *testing.T) {
	var pop genome.Slice
	gen := Tournament(pop, 4, Minimize,
		func(ind *genome.Individual) int64 { return ind.Fitness },
		func(p1, p2, child *genome.Individual, stream *rng.Stream) {},
		func(ind *genome.Individual, stream *rng.Stream) {},
		rng.NewStream(1))
	require.Zero(t, gen)
}

func TestTournamentIncrementsGenerationOnce(t *testing.T) {
	size := 40
	pop := make(genome.Slice, size)
	arena := genome.NewArena(size, 10)
	for i := range pop {
		chrom := arena.Slice(i)
		for j := range chrom {
			chrom[j] = uint32(j)
		}
		pop[i] = genome.Individual{Chromosome: chrom}
	}

	fitness := func(ind *genome.Individual) int64 {
		if ind.FitCached {
			return ind.Fitness
		}
		var total int64
		for _, g := range ind.Chromosome {
			total += int64(g)
		}
		ind.Fitness = total
		ind.FitCached = true
		return total
	}
	cross := func(p1, p2, child *genome.Individual, stream *rng.Stream) {
		copy(child.Chromosome, p1.Chromosome)
		child.FitCached = false
	}
	mutate := func(ind *genome.Individual, stream *rng.Stream) {}

	stream := rng.NewStream(123)
	gen := Tournament(pop, 4, Minimize, fitness, cross, mutate, stream)

	require.Equal(t, uint32(1), gen)
	for _, ind := range pop {
		require.Equal(t, uint32(1), ind.Generation)
	}
}

func TestTournamentForcesMinimumK(t *testing.T) {
	size := 8
	pop := make(genome.Slice, size)
	arena := genome.NewArena(size, 4)
	for i := range pop {
		pop[i] = genome.Individual{Chromosome: arena.Slice(i), Fitness: int64(i), FitCached: true}
	}
	fitness := func(ind *genome.Individual) int64 { return ind.Fitness }
	crossCalls := 0
	cross := func(p1, p2, child *genome.Individual, stream *rng.Stream) { crossCalls++ }
	mutate := func(ind *genome.Individual, stream *rng.Stream) {}

	// k=1 should be treated as k=2, giving 8/(2*2) = 2 tournament rounds
	// rather than 8/(2*1) = 4 (which would require more live contestants
	// per group than makes sense for k=1). Each round crosses twice.
	gen := Tournament(pop, 1, Minimize, fitness, cross, mutate, rng.NewStream(1))
	require.Equal(t, uint32(1), gen)
	require.Equal(t, 4, crossCalls)
}
