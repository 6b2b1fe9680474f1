// Package report implements the engine's two reporting sinks (stdout
// stats lines and a CSV file), plus an SVG tour renderer adapted from the
// teacher's visualizer. Both sinks receive plain numeric per-generation
// tuples; neither knows anything about selection, islands, or the
// evolutionary loop itself.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// StatsLine is one island's per-generation statistics snapshot.
type StatsLine struct {
	Island     int // -1 in single-island mode: no "I: n:" prefix is printed
	Generation uint32
	Best       int64
	ElitePct   int
	EliteWorst int64
	Average    int64
	Worst      int64
}

// WriteStdout writes s in the engine's stdout stats-line format:
// "G: <gen>: B: <best> <E>%: <elite_worst> A: <avg> W: <worst>", prefixed
// with "I: <island>:" whenever Island >= 0.
func WriteStdout(w io.Writer, s StatsLine) error {
	if s.Island >= 0 {
		_, err := fmt.Fprintf(w, "I: %d: G: %d: B: %d %d%%: %d A: %d W: %d\n",
			s.Island, s.Generation, s.Best, s.ElitePct, s.EliteWorst, s.Average, s.Worst)
		return err
	}
	_, err := fmt.Fprintf(w, "G: %d: B: %d %d%%: %d A: %d W: %d\n",
		s.Generation, s.Best, s.ElitePct, s.EliteWorst, s.Average, s.Worst)
	return err
}

// CSVWriter appends stats rows to a CSV sink with a fixed header,
// writing the header exactly once on construction.
type CSVWriter struct {
	w *csv.Writer
}

var csvHeader = []string{"Island", "Generation", "Best", "Elite%", "Elite", "Average", "Worst"}

// NewCSVWriter wraps w, writing the header row immediately.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, err
	}
	cw.Flush()
	return &CSVWriter{w: cw}, cw.Error()
}

// Write appends one row and flushes immediately, so a row is durable on
// disk as soon as an epoch boundary is reported, not buffered across it.
func (c *CSVWriter) Write(s StatsLine) error {
	row := []string{
		strconv.Itoa(s.Island),
		strconv.FormatUint(uint64(s.Generation), 10),
		strconv.FormatInt(s.Best, 10),
		strconv.Itoa(s.ElitePct),
		strconv.FormatInt(s.EliteWorst, 10),
		strconv.FormatInt(s.Average, 10),
		strconv.FormatInt(s.Worst, 10),
	}
	if err := c.w.Write(row); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}
