// Package markov estimates a first-order chain over phonetic units and
// iterates it to its limiting matrix.
package markov

import (
	"cmp"
	"maps"
	"slices"
)

// Row maps a destination state to a transition probability.
type Row map[string]float64

// TransitionMatrix maps a source state to its outgoing row.
// Sources without outgoing transitions have no row.
type TransitionMatrix map[string]Row

// At returns P(src -> dst), 0 when the pair was never observed.
func (m TransitionMatrix) At(src, dst string) float64 {
	return m[src][dst]
}

// Sources returns the states that have a row, sorted.
func (m TransitionMatrix) Sources() []string {
	return slices.Sorted(maps.Keys(m))
}

// RowSum returns the total outgoing probability of src.
func (m TransitionMatrix) RowSum(src string) float64 {
	var sum float64
	// Fixed order keeps the float sum identical across runs.
	for _, dst := range m[src].Destinations() {
		sum += m[src][dst]
	}
	return sum
}

// Edge is one weighted outgoing transition.
type Edge struct {
	To          string
	Probability float64
}

// Destinations returns the row's destination states, sorted.
func (r Row) Destinations() []string {
	return slices.Sorted(maps.Keys(r))
}

// Ranked returns the row's edges by descending probability, ties by label.
func (r Row) Ranked() []Edge {
	edges := make([]Edge, 0, len(r))
	for to, p := range r {
		edges = append(edges, Edge{To: to, Probability: p})
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		if c := cmp.Compare(b.Probability, a.Probability); c != 0 {
			return c
		}
		return cmp.Compare(a.To, b.To)
	})
	return edges
}

// Model is a transition matrix together with the counts it was built from.
type Model struct {
	States []string         // Observed state space, lexicographic
	Matrix TransitionMatrix // Normalised probabilities

	Counts map[string]map[string]int // Pair counts, one (possibly empty) map per state
	Totals map[string]int            // Outgoing totals, zero for END

	TransitionCount int // Sum of all outgoing totals
}

// Index maps every state to its row/column position.
func (m *Model) Index() map[string]int {
	return indexOf(m.States)
}

// Labeled materialises the transition matrix as a dense square matrix.
func (m *Model) Labeled() *Labeled {
	return newLabeled(m.States, materialize(m.Matrix, m.States))
}

func indexOf(states []string) map[string]int {
	idx := make(map[string]int, len(states))
	for i, s := range states {
		idx[s] = i
	}
	return idx
}
