package markov

import (
	"maps"
	"slices"

	"github.com/f3rmion/harakat/internal/phonetic"
)

// Estimate counts adjacent state pairs across all analyses and normalises
// each source's counts into probabilities.
func Estimate(analyses []phonetic.Analysis) *Model {
	sequences := make([][]string, len(analyses))
	for i, a := range analyses {
		sequences[i] = a.States
	}
	return EstimateSequences(sequences)
}

// EstimateSequences is Estimate over raw state sequences.
func EstimateSequences(sequences [][]string) *Model {
	space := make(map[string]struct{})
	for _, seq := range sequences {
		for _, s := range seq {
			space[s] = struct{}{}
		}
	}
	states := slices.Sorted(maps.Keys(space))

	counts := make(map[string]map[string]int, len(states))
	totals := make(map[string]int, len(states))
	for _, s := range states {
		counts[s] = make(map[string]int)
		totals[s] = 0
	}

	for _, seq := range sequences {
		for i := 0; i+1 < len(seq); i++ {
			src, dst := seq[i], seq[i+1]
			counts[src][dst]++
			totals[src]++
		}
	}

	matrix := make(TransitionMatrix)
	var transitions int
	for _, src := range states {
		total := totals[src]
		if total == 0 {
			continue
		}
		transitions += total
		row := make(Row, len(counts[src]))
		for dst, n := range counts[src] {
			row[dst] = float64(n) / float64(total)
		}
		matrix[src] = row
	}

	return &Model{
		States:          states,
		Matrix:          matrix,
		Counts:          counts,
		Totals:          totals,
		TransitionCount: transitions,
	}
}
