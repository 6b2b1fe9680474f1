// Package genome implements the chromosome arena and the Individual/
// Population model (components C2 and C3 of the engine).
//
// All genes for every individual in a population live in one contiguous
// Arena, allocated once. Individuals hold non-owning slices into it;
// freeing the arena (letting it become garbage) invalidates every slice
// at once. This mirrors the reference C source's single chrom_chunk
// allocation in ga_init (genetic.c), sliced by i*chrom_len.
package genome

// Arena is the single contiguous block backing every individual's genes
// in a population. Individual i's chromosome occupies
// genes[i*Width : (i+1)*Width).
type Arena struct {
	genes []uint32
	size  int
	width int
}

// NewArena allocates a block big enough for size individuals of width
// genes each.
func NewArena(size, width int) *Arena {
	return &Arena{
		genes: make([]uint32, size*width),
		size:  size,
		width: width,
	}
}

// Width is the chromosome length (N) shared by every slot in the arena.
func (a *Arena) Width() int { return a.width }

// Size is the number of slots (P) the arena was allocated for.
func (a *Arena) Size() int { return a.size }

// Slice returns the non-owning gene slice for slot i. Writes through the
// returned slice mutate the arena in place.
func (a *Arena) Slice(i int) []uint32 {
	return a.genes[i*a.width : (i+1)*a.width]
}

// Individual is the per-chromosome metadata record: fitness, caching
// flag, scratch dead/elite flags, and a generation counter, paired with
// a non-owning slice into the arena.
type Individual struct {
	Chromosome []uint32
	Fitness    int64
	FitCached  bool
	Dead       bool
	Elite      bool
	Generation uint32
}

// Init is the problem adapter's chromosome initialiser: given the slot
// index and the arena slice reserved for it, it fills the slice in place.
type Init func(i int, chromosome []uint32)

// Population is an ordered array of P individuals, each bound by
// construction to its arena slice. Ordering is unstable in general —
// selection operators may reorder it; indices identify individuals only
// within a single call.
type Population struct {
	Arena       *Arena
	Individuals []Individual
}

// New constructs a population of size individuals with chrom_len-gene
// chromosomes, allocating the arena and invoking init once per slot — the
// Go equivalent of ga_init's single pass over chrom_chunk.
func New(size, chromLen int, init Init) *Population {
	arena := NewArena(size, chromLen)
	individuals := make([]Individual, size)
	for i := 0; i < size; i++ {
		chrom := arena.Slice(i)
		init(i, chrom)
		individuals[i] = Individual{Chromosome: chrom}
	}
	return &Population{Arena: arena, Individuals: individuals}
}

// Slice is a contiguous view over a Population's individuals, used to
// express an island's [lo, hi) bound without copying. Selection and
// generation-advance operators take a Slice rather than the whole
// Population so they can be applied to a single island.
type Slice []Individual

// Of returns the Slice for the half-open range [lo, hi) of p.
func (p *Population) Of(lo, hi int) Slice {
	return Slice(p.Individuals[lo:hi])
}

// All returns the whole population as a Slice, used by the island
// coordinator's cross-step.
func (p *Population) All() Slice {
	return Slice(p.Individuals)
}

// CloneInto copies src's metadata and gene contents into dst in place.
// Both must have the same chromosome length. Used by truncation's
// survivor-cloning replacement path — this is the only place an
// individual is duplicated by value, and it always copies genes rather
// than sharing a slice, preserving the one-arena-slot-per-individual
// invariant.
func CloneInto(dst *Individual, src Individual) {
	copy(dst.Chromosome, src.Chromosome)
	dst.Fitness = src.Fitness
	dst.FitCached = src.FitCached
	dst.Dead = src.Dead
	dst.Elite = src.Elite
	dst.Generation = src.Generation
}

// IsPermutation reports whether chromosome is a permutation of
// {0, ..., len(chromosome)-1}.
func IsPermutation(chromosome []uint32) bool {
	n := len(chromosome)
	seen := make([]bool, n)
	for _, gene := range chromosome {
		if int(gene) >= n || seen[gene] {
			return false
		}
		seen[gene] = true
	}
	return true
}
