package island

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/giodueck/ga-tsp-go/internal/genome"
	"github.com/giodueck/ga-tsp-go/internal/rng"
	"github.com/giodueck/ga-tsp-go/internal/tsp"
)

// Wire is the distributed cooperation mode's transport: a one-byte
// continue/terminate flag precedes each chromosome block, mirroring the
// reference C source's MPI send_island/receive_island contract (flag tag
// then one MPI_Send of uint32 genes per individual). A Wire wraps a
// net.Conn so the same framing works whether the two ends are an
// in-process net.Pipe() (used here and in tests) or a real network
// socket.
type Wire struct {
	conn net.Conn
}

// NewWirePair returns the two ends of an in-process message-passing
// channel, standing in for a master/worker rank pair. Cancellation is not
// modeled: closing either end unblocks the other's pending read/write.
func NewWirePair() (master, worker *Wire) {
	a, b := net.Pipe()
	return &Wire{conn: a}, &Wire{conn: b}
}

// Close releases the underlying connection.
func (w *Wire) Close() error { return w.conn.Close() }

const (
	flagTerminate = 0
	flagContinue  = 1
)

// SendFlag writes the one-byte continue/terminate flag that precedes
// every block transfer.
func (w *Wire) SendFlag(cont bool) error {
	b := byte(flagTerminate)
	if cont {
		b = flagContinue
	}
	_, err := w.conn.Write([]byte{b})
	return err
}

// RecvFlag reads the continue/terminate flag. A false result means the
// sender intends to terminate and no block follows.
func (w *Wire) RecvFlag() (bool, error) {
	buf := make([]byte, 1)
	if _, err := io.ReadFull(w.conn, buf); err != nil {
		return false, err
	}
	return buf[0] != flagTerminate, nil
}

// SendBlock writes chromosome as a block of big-endian uint32 genes.
func (w *Wire) SendBlock(chromosome []uint32) error {
	return binary.Write(w.conn, binary.BigEndian, chromosome)
}

// RecvBlock reads len(chromosome) genes into chromosome in place.
func (w *Wire) RecvBlock(chromosome []uint32) error {
	return binary.Read(w.conn, binary.BigEndian, chromosome)
}

// SendIsland ships one island's chromosomes to the peer: a continue flag
// followed by one block per individual in pop. If cont is false, no
// blocks are sent — this is how the master tells a worker rank to shut
// down.
func (w *Wire) SendIsland(pop genome.Slice, cont bool) error {
	if err := w.SendFlag(cont); err != nil {
		return fmt.Errorf("island: send flag: %w", err)
	}
	if !cont {
		return nil
	}
	for i := range pop {
		if err := w.SendBlock(pop[i].Chromosome); err != nil {
			return fmt.Errorf("island: send block %d: %w", i, err)
		}
	}
	return nil
}

// RecvIsland reads one island's chromosomes from the peer into pop in
// place, returning the continue flag it read. If the flag is false, pop
// is left untouched and the caller should terminate.
func (w *Wire) RecvIsland(pop genome.Slice) (cont bool, err error) {
	cont, err = w.RecvFlag()
	if err != nil {
		return false, fmt.Errorf("island: recv flag: %w", err)
	}
	if !cont {
		return false, nil
	}
	for i := range pop {
		if err := w.RecvBlock(pop[i].Chromosome); err != nil {
			return false, fmt.Errorf("island: recv block %d: %w", i, err)
		}
	}
	return true, nil
}

// RunDistributedWorker is a worker rank's main loop: receive an island,
// run gens generations of step on it locally, ship it back, repeat until
// the master sends a terminate flag. It returns nil when terminated
// cleanly.
func RunDistributedWorker(w *Wire, pop genome.Slice, gens int, step StepFunc, stream *rng.Stream) error {
	for {
		cont, err := w.RecvIsland(pop)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
		for n := 0; n < gens; n++ {
			step(pop, stream)
		}
		if err := w.SendIsland(pop, true); err != nil {
			return err
		}
	}
}

// DistributedMaster drives num_procs worker ranks, one per island, over
// the given wires: ship each island out, run the local cross-step is the
// caller's responsibility (it happens on the whole population, which
// only the master can see), and receive each island back in place.
type DistributedMaster struct {
	Wires []*Wire // one per island, index-aligned with Bounds
}

// Dispatch ships every island to its worker, then blocks to receive all
// of them back, overwriting pop's chromosomes in place. It does not
// itself run any generations; that happens inside RunDistributedWorker on
// the other end of each wire.
func (m *DistributedMaster) Dispatch(pop *genome.Population, bounds []int) error {
	for i, w := range m.Wires {
		lo, hi := bounds[i], bounds[i+1]
		if err := w.SendIsland(pop.Of(lo, hi), true); err != nil {
			return err
		}
	}
	for i, w := range m.Wires {
		lo, hi := bounds[i], bounds[i+1]
		if _, err := w.RecvIsland(pop.Of(lo, hi)); err != nil {
			return err
		}
	}
	return nil
}

// Terminate sends the shutdown flag (byte 0) to every worker so each one
// exits its receive loop cleanly.
func (m *DistributedMaster) Terminate() error {
	for _, w := range m.Wires {
		if err := w.SendFlag(false); err != nil {
			return err
		}
	}
	return nil
}

// VerifyPopulation validates every individual's chromosome as a
// permutation after a distributed round trip. Any individual that fails,
// e.g. a duplicate gene introduced by a serialisation or logic bug, is
// regenerated from scratch with the problem's initialiser; every other
// individual is left untouched. This is the master-side robustness net;
// workers never call it.
func VerifyPopulation(pop genome.Slice, prob *tsp.Problem, stream *rng.Stream) {
	for i := range pop {
		if !genome.IsPermutation(pop[i].Chromosome) {
			prob.Reinit(&pop[i], stream)
		}
	}
}
