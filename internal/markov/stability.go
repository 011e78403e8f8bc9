package markov

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Default stabilisation parameters.
const (
	DefaultTolerance     = 1e-10
	DefaultMaxIterations = 1000
)

// Stationary is the outcome of iterating a transition matrix to a fixed point.
type Stationary struct {
	*Labeled

	Iterations int     // Multiplications performed
	Converged  bool    // Whether Delta fell below the tolerance
	Delta      float64 // Largest absolute change in the last multiplication
}

// Stabilize computes P^n for growing n, one multiplication at a time, until no
// entry moves by tolerance or more. When maxIterations runs out the last
// product is returned with Converged false. Rows are not renormalised between
// steps, so rows of states with no outgoing transitions stay zero.
//
// Memory is O(S^2) and time O(S^3 * iterations) for S states.
func Stabilize(matrix TransitionMatrix, states []string, tolerance float64, maxIterations int) *Stationary {
	if len(states) == 0 {
		return &Stationary{Labeled: newLabeled(states, nil), Converged: true}
	}

	n := len(states)
	p := materialize(matrix, states)
	prev := mat.DenseCopyOf(p)
	result := &Stationary{}
	last := prev

	for it := 0; it < maxIterations; it++ {
		next := mat.NewDense(n, n, nil)
		next.Mul(prev, p)

		result.Iterations = it + 1
		result.Delta = maxAbsDiff(next, prev)
		last = next
		if result.Delta < tolerance {
			result.Converged = true
			break
		}
		prev = next
	}

	result.Labeled = newLabeled(states, last)
	return result
}

// StabilizeModel runs Stabilize over a model's matrix and state space.
func StabilizeModel(m *Model, tolerance float64, maxIterations int) *Stationary {
	return Stabilize(m.Matrix, m.States, tolerance, maxIterations)
}

// maxAbsDiff returns max |a - b| over all cells. Both matrices are freshly
// allocated, so their backing data is contiguous.
func maxAbsDiff(a, b *mat.Dense) float64 {
	return floats.Distance(a.RawMatrix().Data, b.RawMatrix().Data, math.Inf(1))
}
