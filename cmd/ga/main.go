// Command ga runs the island-model genetic-algorithm engine against a
// TSPLIB problem file, reporting per-generation statistics to stdout and,
// optionally, to a CSV file and an SVG tour rendering.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/giodueck/ga-tsp-go/internal/engine"
	"github.com/giodueck/ga-tsp-go/internal/report"
	"github.com/giodueck/ga-tsp-go/internal/selection"
	"github.com/giodueck/ga-tsp-go/internal/tsp"
	"github.com/giodueck/ga-tsp-go/internal/tsplib"
)

const helpText = `Usage: %s [options] <file.tsp>

  Options:
    -a              Print the shortest path found after finishing evolution.

    -e [0-100]      Affects display of generation statistics, shows fitness of
                    top percentage of solutions. Only computed with -s;
                    tournament statistics print 0 in its place.
                        Default: 5

    -f [filename]   Load TSP from the given file. Must be TSPLIB format.
                    Will exclude duplicates.

    -g [integer]    Number of generations to evolve.
                        Default: 3000

    -h              Display this help.

    -i [integer]    Number of generations between statistics prints. With -s
                    the population is sorted by fitness to find this
                    information.
                    If the islands cross (-u above 0), the information is
                    printed after each crossing between islands instead.
                    -1 to disable all output.
                    0 to disable printing info before the algorithm finishes.
                        Default: 100

    -k [integer]    Number of individuals per tournament. Every tournament
                    selects one parent and one individual to be replaced by
                    offspring, so they are held in pairs.
                        Default: 4

    -l [filename]   Load TSP from the given file. Must be TSPLIB format.
                    Unlike -f it will keep all duplicates. Can be used
                    implicitly by passing the file as a trailing argument.

    -m [integer]    Mutation rate out of 0x0FFFFF, or 1024x1024-1.
                        Default: 1000 (~0.1%%)

    -o [filename]   Output generation info to a CSV file.

    -p [integer]    Total population size. If there are more than one island
                    this population is divided evenly among them.
                        Default: 2500

    -r [integer]    Supply a seed to the random number generator.
                        Default: 1

    -s              Use truncation-with-elitism selection instead of
                    tournament selection.
                        Default: tournament

    -t [integer]    Number of islands, each of which is handled by a
                    goroutine.
                        Default: 1

    -u [integer]    Number of generations after which islands will have their
                    populations crossed.
                    If the interval is below 1, the populations will never
                    cross.
                        Default: 0

    -v [filename]   Render the best tour found to an SVG file.
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ga", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprintf(os.Stderr, helpText, "ga") }

	answer := fs.Bool("a", false, "print the best path after finishing evolution")
	elitePct := fs.Int("e", 5, "elite percentage")
	dedupPath := fs.String("f", "", "load TSP file, deduplicating")
	keepPath := fs.String("l", "", "load TSP file, keeping duplicates")
	maxGens := fs.Int("g", 3000, "number of generations")
	help := fs.Bool("h", false, "display help")
	statsInterval := fs.Int("i", 100, "stats interval, -1 disables all, 0 disables interim")
	tournamentSize := fs.Int("k", 4, "tournament size")
	mutationRate := fs.Int("m", 1000, "mutation rate per 2^20 trials")
	csvPath := fs.String("o", "", "write generation stats to this CSV file")
	popSize := fs.Int("p", 2500, "total population size")
	seed := fs.Int64("r", 1, "master PRNG seed")
	truncation := fs.Bool("s", false, "use truncation-with-elitism instead of tournament")
	islands := fs.Int("t", 1, "number of islands")
	crossInterval := fs.Int("u", 0, "island-cross interval")
	svgPath := fs.String("v", "", "render the best tour to this SVG file")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *help {
		fmt.Printf(helpText, "ga")
		return 0
	}

	prob, err := loadProblem(*dedupPath, *keepPath, fs.Args())
	if err != nil {
		log.Printf("ga: %v", err)
		return 1
	}

	cfg := engine.NewConfig(
		engine.WithPopulationSize(*popSize),
		engine.WithElitePercent(*elitePct),
		engine.WithMaxGenerations(*maxGens),
		engine.WithTournamentSize(*tournamentSize),
		engine.WithMutationRate(*mutationRate),
		engine.WithIslands(*islands),
		engine.WithCrossInterval(*crossInterval),
		engine.WithSeed(*seed),
		engine.WithStatsInterval(*statsInterval),
	)
	if *truncation {
		engine.WithStrategy(engine.Truncation)(cfg)
		engine.WithDeadPercent(50)(cfg)
		engine.WithCrossPercent(50)(cfg)
	}
	cfg.Criteria = selection.Minimize

	e := engine.New(cfg, prob)
	if err := cfg.Validate(); err != nil {
		log.Printf("ga: %v", err)
		return 1
	}

	var csvWriter *report.CSVWriter
	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			log.Printf("ga: %v", err)
			return 1
		}
		defer f.Close()
		csvWriter, err = report.NewCSVWriter(f)
		if err != nil {
			log.Printf("ga: %v", err)
			return 1
		}
	}

	sink := func(s report.StatsLine) {
		if err := report.WriteStdout(os.Stdout, s); err != nil {
			log.Printf("ga: stdout write failed: %v", err)
		}
		if csvWriter != nil {
			if err := csvWriter.Write(s); err != nil {
				log.Printf("ga: csv write failed: %v", err)
			}
		}
	}

	if err := e.Run(context.Background(), sink); err != nil {
		log.Printf("ga: %v", err)
		return 1
	}

	if *answer || *svgPath != "" {
		best := bestTour(e)
		if *answer {
			fitness := prob.FitnessFunc()
			fmt.Printf("Best path after %d generations: %d\n", *maxGens, fitness(&e.Pop.Individuals[bestIndex(e)]))
			fmt.Print(formatTour(best))
		}
		if *svgPath != "" {
			if err := report.WriteTourSVG(prob, best, *svgPath); err != nil {
				log.Printf("ga: svg write failed: %v", err)
				return 1
			}
		}
	}

	return 0
}

func loadProblem(dedupPath, keepPath string, trailing []string) (*tsp.Problem, error) {
	switch {
	case dedupPath != "":
		return tsplib.ReadDedup(dedupPath)
	case keepPath != "":
		return tsplib.Read(keepPath)
	case len(trailing) > 0:
		return tsplib.Read(trailing[0])
	default:
		return nil, fmt.Errorf("no problem file given: supply -f, -l, or a trailing <file.tsp> argument")
	}
}

func bestIndex(e *engine.Engine) int {
	fitness := e.Prob.FitnessFunc()
	best := 0
	bestFit := fitness(&e.Pop.Individuals[0])
	for i := 1; i < len(e.Pop.Individuals); i++ {
		if f := fitness(&e.Pop.Individuals[i]); f < bestFit {
			bestFit = f
			best = i
		}
	}
	return best
}

func bestTour(e *engine.Engine) []uint32 {
	return e.Pop.Individuals[bestIndex(e)].Chromosome
}

func formatTour(route []uint32) string {
	s := ""
	for i, gene := range route {
		if i > 0 {
			s += " -> "
		}
		s += fmt.Sprintf("%d", gene)
	}
	return s + "\n"
}
