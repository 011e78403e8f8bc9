package markov

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Labeled is a dense square matrix whose rows and columns are named by an
// ordered state list. Data is nil when the state list is empty.
type Labeled struct {
	States []string
	Data   *mat.Dense

	index map[string]int
}

func newLabeled(states []string, data *mat.Dense) *Labeled {
	return &Labeled{States: states, Data: data, index: indexOf(states)}
}

// NewLabeled wraps a row-major slice of values. It panics if values does not
// hold len(states)^2 entries.
func NewLabeled(states []string, values []float64) *Labeled {
	n := len(states)
	if len(values) != n*n {
		panic(fmt.Sprintf("markov: %d values for %d states", len(values), n))
	}
	if n == 0 {
		return newLabeled(states, nil)
	}
	return newLabeled(states, mat.NewDense(n, n, values))
}

// Size returns the number of states.
func (l *Labeled) Size() int {
	return len(l.States)
}

// At returns the value at row i, column j.
func (l *Labeled) At(i, j int) float64 {
	return l.Data.At(i, j)
}

// Value looks a cell up by state labels.
func (l *Labeled) Value(src, dst string) (float64, bool) {
	i, ok := l.index[src]
	if !ok {
		return 0, false
	}
	j, ok := l.index[dst]
	if !ok {
		return 0, false
	}
	return l.Data.At(i, j), true
}

// Row returns a copy of row i.
func (l *Labeled) Row(i int) []float64 {
	return mat.Row(nil, i, l.Data)
}

// RowOf returns the row for src as a sparse Row, zero cells omitted.
func (l *Labeled) RowOf(src string) Row {
	row := Row{}
	i, ok := l.index[src]
	if !ok {
		return row
	}
	for j, v := range l.Row(i) {
		if v != 0 {
			row[l.States[j]] = v
		}
	}
	return row
}

// materialize lays matrix out densely in the order of states. Absent cells are
// zero. A state used by matrix but missing from states is a programming error.
func materialize(matrix TransitionMatrix, states []string) *mat.Dense {
	n := len(states)
	if n == 0 {
		return nil
	}
	idx := indexOf(states)
	dense := mat.NewDense(n, n, nil)
	for src, row := range matrix {
		i, ok := idx[src]
		if !ok {
			panic(fmt.Sprintf("markov: source state %q not in state space", src))
		}
		for dst, p := range row {
			j, ok := idx[dst]
			if !ok {
				panic(fmt.Sprintf("markov: destination state %q not in state space", dst))
			}
			dense.Set(i, j, p)
		}
	}
	return dense
}
