package markov

// Aggregate is the diagnostic "total probability" figure of a model.
type Aggregate struct {
	Sum        float64 // Sum of every transition probability
	Computed   int     // Total transition count observed in the corpus
	CaseCount  int     // Denominator actually used
	Overridden bool    // CaseCount came from an explicit override
	Ratio      float64 // Sum / CaseCount, 0 when CaseCount is 0
}

// ProbabilitySum adds every probability in the matrix in a fixed order.
func ProbabilitySum(m TransitionMatrix) float64 {
	var sum float64
	for _, src := range m.Sources() {
		sum += m.RowSum(src)
	}
	return sum
}

// Aggregate computes the probability sum over a case count. A positive
// override replaces the computed transition count as denominator.
func (m *Model) Aggregate(override int) Aggregate {
	agg := Aggregate{
		Sum:       ProbabilitySum(m.Matrix),
		Computed:  m.TransitionCount,
		CaseCount: m.TransitionCount,
	}
	if override > 0 {
		agg.CaseCount = override
		agg.Overridden = true
	}
	if agg.CaseCount > 0 {
		agg.Ratio = agg.Sum / float64(agg.CaseCount)
	}
	return agg
}
