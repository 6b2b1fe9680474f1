package island

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giodueck/ga-tsp-go/internal/genome"
	"github.com/giodueck/ga-tsp-go/internal/rng"
	"github.com/giodueck/ga-tsp-go/internal/tsp"
)

func TestBoundsSplitsEvenly(t *testing.T) {
	b := Bounds(100, 4)
	require.Equal(t, []int{0, 25, 50, 75, 100}, b)
}

func TestBoundsFoldsRemainderIntoLastIsland(t *testing.T) {
	b := Bounds(10, 3)
	require.Equal(t, []int{0, 3, 6, 10}, b)
}

func TestBoundsClampsToOneIsland(t *testing.T) {
	b := Bounds(10, 0)
	require.Equal(t, []int{0, 10}, b)
}

func identityInit(i int, chrom []uint32) {
	for j := range chrom {
		chrom[j] = uint32(j)
	}
}

func TestSharedRunBatchAdvancesEveryIslandIndependently(t *testing.T) {
	pop := genome.New(8, 5, identityInit)
	bounds := Bounds(8, 4)
	s := &Shared{
		Pop:    pop,
		Bounds: bounds,
		Pool:   rng.NewPool(7),
		Step: func(slice genome.Slice, stream *rng.Stream) uint32 {
			for i := range slice {
				slice[i].Generation++
			}
			return slice[0].Generation
		},
	}

	require.NoError(t, s.RunBatch(context.Background(), 3))

	for _, ind := range pop.Individuals {
		require.Equal(t, uint32(3), ind.Generation)
	}
}

func TestSharedCrossStepOperatesOnWholePopulation(t *testing.T) {
	pop := genome.New(6, 4, identityInit)
	s := &Shared{
		Pop:    pop,
		Bounds: Bounds(6, 2),
		Pool:   rng.NewPool(1),
		Step: func(slice genome.Slice, stream *rng.Stream) uint32 {
			return uint32(len(slice))
		},
	}

	width := s.CrossStep(s.CrossStream())
	require.Equal(t, uint32(6), width, "cross-step must see every individual, not just one island")
}

func TestSharedCrossStreamIsDistinctFromIslandStreams(t *testing.T) {
	pop := genome.New(4, 4, identityInit)
	s := &Shared{Pop: pop, Bounds: Bounds(4, 2), Pool: rng.NewPool(9), Step: func(genome.Slice, *rng.Stream) uint32 { return 0 }}

	require.NotSame(t, s.Pool.Stream(0), s.CrossStream())
	require.NotSame(t, s.Pool.Stream(1), s.CrossStream())
	require.Same(t, s.CrossStream(), s.CrossStream())
}

func buildPop(n int) (genome.Slice, *genome.Population) {
	pop := genome.New(n, 5, identityInit)
	return pop.All(), pop
}

func TestWireRoundTripsIslandChromosomes(t *testing.T) {
	master, worker := NewWirePair()
	defer master.Close()
	defer worker.Close()

	sendSlice, _ := buildPop(3)
	sendSlice[0].Chromosome[0] = 4
	recvSlice, _ := buildPop(3)

	errCh := make(chan error, 1)
	go func() { errCh <- master.SendIsland(sendSlice, true) }()

	cont, err := worker.RecvIsland(recvSlice)
	require.NoError(t, err)
	require.True(t, cont)
	require.NoError(t, <-errCh)

	for i := range sendSlice {
		require.Equal(t, sendSlice[i].Chromosome, recvSlice[i].Chromosome)
	}
}

func TestWireTerminateFlagSkipsBlockTransfer(t *testing.T) {
	master, worker := NewWirePair()
	defer master.Close()
	defer worker.Close()

	slice, _ := buildPop(2)

	errCh := make(chan error, 1)
	go func() { errCh <- master.SendIsland(slice, false) }()

	cont, err := worker.RecvIsland(slice)
	require.NoError(t, err)
	require.False(t, cont)
	require.NoError(t, <-errCh)
}

func TestDistributedMasterTerminateSendsShutdownFlagToEveryWorker(t *testing.T) {
	m1, w1 := NewWirePair()
	defer m1.Close()
	defer w1.Close()
	m2, w2 := NewWirePair()
	defer m2.Close()
	defer w2.Close()

	master := &DistributedMaster{Wires: []*Wire{m1, m2}}

	errCh := make(chan error, 1)
	go func() { errCh <- master.Terminate() }()

	cont1, err := w1.RecvFlag()
	require.NoError(t, err)
	require.False(t, cont1)

	cont2, err := w2.RecvFlag()
	require.NoError(t, err)
	require.False(t, cont2)
	require.NoError(t, <-errCh)
}

func TestRunDistributedWorkerStopsOnTerminateFlag(t *testing.T) {
	master, worker := NewWirePair()
	defer master.Close()
	defer worker.Close()

	slice, _ := buildPop(2)
	stream := rng.NewStream(3)

	done := make(chan error, 1)
	go func() {
		done <- RunDistributedWorker(worker, slice, 1, func(genome.Slice, *rng.Stream) uint32 { return 0 }, stream)
	}()

	require.NoError(t, master.SendIsland(slice, false))
	require.NoError(t, <-done)
}

func TestRunDistributedWorkerRunsStepAndSendsResultBack(t *testing.T) {
	master, worker := NewWirePair()
	defer master.Close()
	defer worker.Close()

	workerSlice, _ := buildPop(2)
	masterSlice, _ := buildPop(2)
	stream := rng.NewStream(4)

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- RunDistributedWorker(worker, workerSlice, 2, func(s genome.Slice, _ *rng.Stream) uint32 {
			calls++
			s[0].Chromosome[0] = 9
			return 1
		}, stream)
	}()

	require.NoError(t, master.SendIsland(masterSlice, true))
	_, err := master.RecvIsland(masterSlice)
	require.NoError(t, err)
	require.Equal(t, uint32(9), masterSlice[0].Chromosome[0])
	require.Equal(t, 2, calls)

	require.NoError(t, master.SendIsland(masterSlice, false))
	require.NoError(t, <-done)
}

func TestDistributedMasterDispatchUpdatesPopulationInPlace(t *testing.T) {
	prob := &tsp.Problem{Nodes: []tsp.Node{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}}
	pop := genome.New(4, 4, identityInit)
	bounds := Bounds(4, 2)

	m0, w0 := NewWirePair()
	defer m0.Close()
	defer w0.Close()
	m1, w1 := NewWirePair()
	defer m1.Close()
	defer w1.Close()

	master := &DistributedMaster{Wires: []*Wire{m0, m1}}

	mutate := prob.MutateFunc(1000)
	step := func(s genome.Slice, stream *rng.Stream) uint32 {
		for i := range s {
			mutate(&s[i], stream)
		}
		return 0
	}
	pool := rng.NewPool(5)
	for idx, w := range []*Wire{w0, w1} {
		w, slice, stream := w, pop.Of(bounds[idx], bounds[idx+1]), pool.Stream(idx)
		go func() {
			_ = RunDistributedWorker(w, slice, 1, step, stream)
		}()
	}

	require.NoError(t, master.Dispatch(pop, bounds))
	require.NoError(t, master.Terminate())

	for _, ind := range pop.Individuals {
		require.True(t, genome.IsPermutation(ind.Chromosome))
	}
}

func TestVerifyPopulationRepairsInvalidChromosomes(t *testing.T) {
	prob := &tsp.Problem{Nodes: []tsp.Node{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}}
	pop := genome.New(3, 4, identityInit)
	// Corrupt one individual into a non-permutation (duplicate gene).
	pop.Individuals[1].Chromosome[0] = pop.Individuals[1].Chromosome[1]

	stream := rng.NewStream(6)
	VerifyPopulation(pop.All(), prob, stream)

	for i, ind := range pop.Individuals {
		require.True(t, genome.IsPermutation(ind.Chromosome), "individual %d must be a valid permutation after repair", i)
	}
}

func TestVerifyPopulationLeavesValidChromosomesUntouched(t *testing.T) {
	prob := &tsp.Problem{Nodes: []tsp.Node{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}}
	pop := genome.New(2, 4, identityInit)
	want := append([]uint32{}, pop.Individuals[0].Chromosome...)

	VerifyPopulation(pop.All(), prob, rng.NewStream(6))

	require.Equal(t, want, pop.Individuals[0].Chromosome)
}
