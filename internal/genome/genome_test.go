package genome

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func identityInit(i int, chrom []uint32) {
	for j := range chrom {
		chrom[j] = uint32(j)
	}
}

func TestNewBindsContiguousArenaSlots(t *testing.T) {
	pop := New(4, 5, identityInit)
	require.Equal(t, 20, len(pop.Arena.Slice(0))*4)

	for i := 0; i < 4; i++ {
		require.True(t, IsPermutation(pop.Individuals[i].Chromosome))
	}

	// Mutating one individual's chromosome must not leak into another's,
	// because slots are disjoint ranges of the same arena.
	pop.Individuals[0].Chromosome[0] = 99
	require.NotEqual(t, uint32(99), pop.Individuals[1].Chromosome[0])
}

func TestOfReturnsViewNotCopy(t *testing.T) {
	pop := New(6, 3, identityInit)
	s := pop.Of(2, 5)
	require.Len(t, s, 3)

	s[0].Fitness = 123
	require.Equal(t, int64(123), pop.Individuals[2].Fitness)
}

func TestCloneIntoCopiesGenesNotSlice(t *testing.T) {
	pop := New(2, 4, identityInit)
	src := pop.Individuals[0]
	src.Fitness = 42
	src.Generation = 3

	dst := &pop.Individuals[1]
	CloneInto(dst, src)

	require.Equal(t, src.Fitness, dst.Fitness)
	require.Equal(t, src.Generation, dst.Generation)
	require.Equal(t, src.Chromosome, dst.Chromosome)

	// dst still owns its own arena slot.
	dst.Chromosome[0] = 77
	require.NotEqual(t, src.Chromosome[0], dst.Chromosome[0])
}

func TestIsPermutationRejectsDuplicatesAndGaps(t *testing.T) {
	require.True(t, IsPermutation([]uint32{2, 0, 1}))
	require.False(t, IsPermutation([]uint32{0, 0, 2}))
	require.False(t, IsPermutation([]uint32{0, 1, 3}))
}
