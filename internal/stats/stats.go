// Package stats implements the engine's statistics collector (component
// C8): sorted and unsorted aggregate fitness statistics, ported from
// genetic.c's ga_gen_info and ga_gen_info_unsorted.
//
// Both functions take output pointers so a caller can skip computing any
// statistic it doesn't need by passing nil, exactly as the reference C
// source does.
package stats

import "github.com/giodueck/ga-tsp-go/internal/genome"

// Sorted reports best/worst-elite/average/worst fitness for a population
// slice the caller guarantees is already in ascending-fitness order
// (e.g. immediately after selection.Truncate). worstElite is only
// populated when percentElite > 0 and the computed elite-boundary index
// is actually marked Elite — mirroring ga_gen_info's guard. Any output
// pointer may be nil, in which case that statistic is skipped; for
// average, a nil pointer also skips the summation entirely.
func Sorted(pop genome.Slice, percentElite int, best, worstElite, average, worst *int64) {
	size := len(pop)
	if size == 0 {
		return
	}

	if best != nil {
		*best = pop[0].Fitness
	}
	if worst != nil {
		*worst = pop[size-1].Fitness
	}

	if percentElite > 0 && worstElite != nil {
		idx := size*percentElite/100 - 1
		if idx >= 0 && idx < size && pop[idx].Elite {
			*worstElite = pop[idx].Fitness
		}
	}

	if average == nil {
		return
	}
	var sum int64
	for _, ind := range pop {
		sum += ind.Fitness
	}
	*average = sum / int64(size)
}

// Unsorted reports best/average/worst fitness with a single unordered
// scan, tracking min, max, and sum. It never reports a worst-elite
// statistic even when percentElite > 0: the reference source's
// ga_gen_info_unsorted intentionally omits it, since "elite" only has
// meaning relative to a sorted ordering (see DESIGN.md for the reasoning).
func Unsorted(pop genome.Slice, best, average, worst *int64) {
	size := len(pop)
	if size == 0 {
		return
	}

	if best != nil {
		*best = pop[0].Fitness
	}
	if worst != nil {
		*worst = pop[0].Fitness
	}
	if average != nil {
		*average = 0
	}

	for _, ind := range pop {
		if best != nil && ind.Fitness < *best {
			*best = ind.Fitness
		}
		if worst != nil && ind.Fitness > *worst {
			*worst = ind.Fitness
		}
		if average != nil {
			*average += ind.Fitness
		}
	}
	if average != nil {
		*average /= int64(size)
	}
}
