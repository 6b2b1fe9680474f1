// Package tsp is the problem adapter (component C4) for the symmetric 2D
// Euclidean Travelling Salesman Problem: permutation initialisation,
// rounded-Euclidean fitness with caching, order-preserving half-copy
// crossover, and neighbor-biased 2/3-swap mutation.
//
// Every algorithm here is a direct port of the reference C source under
// _examples/original_source/tsp.c: generate_tsp_solution, dist, fitness,
// crossover, mutate.
package tsp

import (
	"math"

	"github.com/giodueck/ga-tsp-go/internal/genome"
	"github.com/giodueck/ga-tsp-go/internal/rng"
)

// Node is an immutable 2D coordinate.
type Node struct {
	X, Y float64
}

// Problem is an ordered, read-only sequence of nodes shared by every
// worker for the process lifetime.
type Problem struct {
	Nodes []Node
}

// N is the chromosome length (dimension) of the problem.
func (p *Problem) N() int { return len(p.Nodes) }

// Distance is the rounded Euclidean distance between two nodes, as a
// signed 64-bit integer.
func (p *Problem) Distance(a, b uint32) int64 {
	na, nb := p.Nodes[a], p.Nodes[b]
	dx := na.X - nb.X
	dy := na.Y - nb.Y
	return int64(math.Round(math.Sqrt(dx*dx + dy*dy)))
}

// Init returns a genome.Init initialiser producing uniformly random
// permutations of {0, ..., N-1}, one call per population slot. Order
// matters for reproducibility under a fixed seed: iterating j from N down
// to 1, draw r = rand() mod j, skip the r'th unmarked position, write it
// into gene slot j-1, mark it. This is generate_tsp_solution ported
// directly, with the scratch "marks" buffer reused across slots the same
// way the reference source reuses the buffer allocated once in ga_init.
func (p *Problem) Init(stream *rng.Stream) genome.Init {
	n := p.N()
	marks := make([]bool, n)
	return func(_ int, chromosome []uint32) {
		for i := range marks {
			marks[i] = false
		}
		for j := n; j > 0; j-- {
			r := stream.Intn(j)
			l := 0
			for marks[l] || r > 0 {
				if !marks[l] && r > 0 {
					r--
				}
				l++
			}
			chromosome[j-1] = uint32(l)
			marks[l] = true
		}
	}
}

// Fitness is the tour length: the sum of distances between consecutive
// genes, including the wrap-around edge g[N-1] -> g[0]. Honours the
// fitness cache: if FitCached is set, the stored value is returned
// unchanged; otherwise the value is recomputed, stored, and the flag is
// set. Lower is better (minimisation).
func (p *Problem) Fitness(ind *genome.Individual) int64 {
	if ind.FitCached {
		return ind.Fitness
	}
	var total int64
	n := len(ind.Chromosome)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		total += p.Distance(ind.Chromosome[i], ind.Chromosome[j])
	}
	ind.Fitness = total
	ind.FitCached = true
	return total
}

// FitnessFunc adapts Fitness to the fitness-function shape selection and
// evolve operators expect.
func (p *Problem) FitnessFunc() func(*genome.Individual) int64 {
	return p.Fitness
}

// Cross produces child from the order-preserving half-copy of parent1
// and parent2:
//  1. draw start in [0, N/2)
//  2. copy parent1.genes[start:start+N/2] into child.genes[0:N/2], mark
//     copied node ids
//  3. scan parent2.genes in order, appending unmarked ids until child is
//     full
//  4. clear child.FitCached
//  5. similarity boost: if parents agree on >=95% of positions, mutate
//     the child at 20x the base mutation rate.
//
// ratePerMi is the base mutation rate (events per 2^20 trials) used both
// for the boosted mutation here and for the ordinary per-generation
// mutation calls elsewhere; it has no bearing on the crossover geometry
// itself.
func (p *Problem) Cross(parent1, parent2, child *genome.Individual, ratePerMi int, stream *rng.Stream) {
	n := len(parent1.Chromosome)
	half := n / 2
	start := stream.Intn(half)

	marked := make([]bool, n)
	for i := 0; i < half; i++ {
		gene := parent1.Chromosome[start+i]
		child.Chromosome[i] = gene
		marked[gene] = true
	}

	idx := half
	for i := 0; i < n; i++ {
		gene := parent2.Chromosome[i]
		if marked[gene] {
			continue
		}
		child.Chromosome[idx] = gene
		idx++
	}

	child.FitCached = false

	diff := 0
	for i := 0; i < n; i++ {
		if parent1.Chromosome[i] != parent2.Chromosome[i] {
			diff++
		}
	}
	if diff <= n/20 {
		// Parents agree on >=95% of positions: inject extra diversity.
		// Not biologically realistic, but it improves results here.
		p.Mutate(child, ratePerMi*20, stream)
	}
}

// CrossFunc binds ratePerMi into a cross function of the shape selection
// and evolve operators expect.
func (p *Problem) CrossFunc(ratePerMi int) func(parent1, parent2, child *genome.Individual, stream *rng.Stream) {
	return func(parent1, parent2, child *genome.Individual, stream *rng.Stream) {
		p.Cross(parent1, parent2, child, ratePerMi, stream)
	}
}

// Mutate applies random gene swaps to sol, gated by ratePerMi: an
// expected number of mutation events per 2^20 gene trials. The loop
// draws 20-bit random values and, while below the rate, performs a swap:
//   - pick index i uniformly in [0, N)
//   - pick partner j: with probability ~3/4+1/2^20, j = (i+1) mod N
//     (neighbor-biased, the most productive move for tour distance),
//     otherwise j is uniform in [0, N)
//   - with probability ~10/16, perform a 2-swap genes[i] <-> genes[j];
//     otherwise pick a third index k uniformly and perform the 3-cycle
//     genes[i] <- genes[j], genes[j] <- genes[k], genes[k] <- aux
//
// Each mutation clears FitCached. The draw-while-below-threshold shape
// yields a geometrically distributed number of mutations per call,
// averaging ratePerMi/2^20 per individual.
func (p *Problem) Mutate(sol *genome.Individual, ratePerMi int, stream *rng.Stream) {
	rate := ratePerMi & 0xFFFFF
	neighborThreshold := 3*rate/4 + 1

	n := len(sol.Chromosome)
	draw := stream.Mask20()
	for draw < rate {
		neighborDraw := draw
		draw = stream.Mask20()

		i := stream.Intn(n) // consumes a draw analogous to n % chrom_len in the reference
		aux := sol.Chromosome[i]

		jDraw := stream.Mask20()
		var j int
		if neighborDraw < neighborThreshold {
			j = (i + 1) % n
		} else {
			j = jDraw % n
		}

		swapDraw := stream.Mask20()
		if swapDraw&0xF < 0xA {
			sol.Chromosome[i] = sol.Chromosome[j]
			sol.Chromosome[j] = aux
		} else {
			k := stream.Intn(n)
			sol.Chromosome[i] = sol.Chromosome[j]
			sol.Chromosome[j] = sol.Chromosome[k]
			sol.Chromosome[k] = aux
		}

		sol.FitCached = false
	}
}

// MutateFunc binds ratePerMi into a mutate function of the shape
// selection and evolve operators expect.
func (p *Problem) MutateFunc(ratePerMi int) func(sol *genome.Individual, stream *rng.Stream) {
	return func(sol *genome.Individual, stream *rng.Stream) {
		p.Mutate(sol, ratePerMi, stream)
	}
}

// Reinit regenerates sol's chromosome from scratch using a fresh random
// permutation. Used by the distributed cooperation mode's duplicate
// repair when a chromosome fails the permutation invariant after a
// serialisation round-trip.
func (p *Problem) Reinit(sol *genome.Individual, stream *rng.Stream) {
	p.Init(stream)(0, sol.Chromosome)
	sol.FitCached = false
}
