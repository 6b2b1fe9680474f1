// Package tsplib reads the line-oriented subset of the TSPLIB format the
// engine consumes: a DIMENSION declaration followed by 1-based "<index>
// <x> <y>" coordinate lines. All other lines are ignored. Ported from
// tsp_parser.c's tsp_2d_read, plus the documented-but-unshipped dedup
// variant and a Go-shaped error for malformed input.
package tsplib

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/giodueck/ga-tsp-go/internal/tsp"
)

// FormatError reports a line-level problem in a TSPLIB file, carrying the
// filename and line number the way a caller would want to print it.
type FormatError struct {
	File string
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("tsplib: line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("tsplib: %s:%d: %s", e.File, e.Line, e.Msg)
}

// Read parses path and returns its nodes, indexed the way the file
// declares them (1-based index N populates Nodes[N-1]). A coordinate
// line appearing before the DIMENSION declaration is the one error
// tsp_parser.c treats as fatal; Read reports it as a *FormatError instead
// of exiting, keeping the original's wording and adding file and line.
func Read(path string) (*tsp.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readProblem(f, path, false)
}

// ReadDedup is Read with deduplication: any node whose (x, y) pair
// matches an earlier node's is dropped, and the problem proceeds with
// fewer nodes than the file declared.
func ReadDedup(path string) (*tsp.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readProblem(f, path, true)
}

func readProblem(r io.Reader, name string, dedup bool) (*tsp.Problem, error) {
	scanner := bufio.NewScanner(r)
	var nodes []tsp.Node
	dimension := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ':' })
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "DIMENSION" {
			if len(fields) < 2 {
				continue
			}
			dim, err := strconv.Atoi(fields[1])
			if err != nil {
				continue
			}
			dimension = dim
			nodes = make([]tsp.Node, dimension)
			continue
		}

		index, err := strconv.Atoi(fields[0])
		if err != nil || index == 0 {
			continue
		}

		if dimension == 0 {
			return nil, &FormatError{File: name, Line: lineNo, Msg: "coordinates read before dimension"}
		}
		if len(fields) < 3 {
			return nil, &FormatError{File: name, Line: lineNo, Msg: "coordinate line missing x or y"}
		}

		x, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, &FormatError{File: name, Line: lineNo, Msg: "invalid x coordinate"}
		}
		y, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, &FormatError{File: name, Line: lineNo, Msg: "invalid y coordinate"}
		}
		if index-1 < 0 || index-1 >= len(nodes) {
			return nil, &FormatError{File: name, Line: lineNo, Msg: "node index out of range"}
		}
		nodes[index-1] = tsp.Node{X: x, Y: y}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if dedup {
		nodes = dedupNodes(nodes)
	}
	return &tsp.Problem{Nodes: nodes}, nil
}

func dedupNodes(nodes []tsp.Node) []tsp.Node {
	seen := make(map[tsp.Node]bool, len(nodes))
	out := nodes[:0:0]
	for _, n := range nodes {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
