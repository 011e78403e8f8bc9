package markov

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/harakat/internal/phonetic"
)

const rowTolerance = 1e-9

// corpusWords returns the two-word scenario corpus: ba-fatha ba-fathatan-shadda, ba-kasra ta-sukun.
func corpusWords() []string {
	return []string{
		"ب" + string(phonetic.Fatha) + "ب" + string(phonetic.Fathatan) + string(phonetic.Shadda),
		"ب" + string(phonetic.Kasra) + "ت" + string(phonetic.Sukun),
	}
}

func analyse(words []string) []phonetic.Analysis {
	return phonetic.NewTokenizer(nil).SegmentAll(words)
}

func assertRowStochastic(t *testing.T, m *Model) {
	t.Helper()
	for _, src := range m.Matrix.Sources() {
		assert.InDelta(t, 1.0, m.Matrix.RowSum(src), rowTolerance, "row %q", src)
	}
}

func TestEstimateScenario(t *testing.T) {
	var (
		baFatha    = "ب" + string(phonetic.Fatha)
		baFathatan = "ب" + string(phonetic.Fathatan)
		baKasra    = "ب" + string(phonetic.Kasra)
		taSukun    = "ت" + string(phonetic.Sukun)
	)

	analyses := analyse(corpusWords())
	require.Len(t, analyses, 2)
	assert.Equal(t, []string{phonetic.Start, baFatha, baFathatan, phonetic.End}, analyses[0].States)
	assert.Equal(t, []string{phonetic.Start, baKasra, taSukun, phonetic.End}, analyses[1].States)

	m := Estimate(analyses)

	assert.ElementsMatch(t, []string{phonetic.Start, phonetic.End, baFatha, baFathatan, baKasra, taSukun}, m.States)
	assert.IsIncreasing(t, m.States)

	assert.InDelta(t, 0.5, m.Matrix.At(phonetic.Start, baFatha), rowTolerance)
	assert.InDelta(t, 0.5, m.Matrix.At(phonetic.Start, baKasra), rowTolerance)
	assert.Equal(t, 1.0, m.Matrix.At(baFatha, baFathatan))
	assert.Equal(t, 1.0, m.Matrix.At(baFathatan, phonetic.End))
	assert.Equal(t, 1.0, m.Matrix.At(baKasra, taSukun))
	assert.Equal(t, 1.0, m.Matrix.At(taSukun, phonetic.End))
	assert.Zero(t, m.Matrix.At(baFatha, taSukun))

	assert.NotContains(t, m.Matrix, phonetic.End)
	assert.Equal(t, 0, m.Totals[phonetic.End])
	assert.NotNil(t, m.Counts[phonetic.End])
	assert.Equal(t, 6, m.TransitionCount)
	assertRowStochastic(t, m)
}

func TestEstimateEmptyCorpus(t *testing.T) {
	m := Estimate(nil)

	assert.Empty(t, m.States)
	assert.Empty(t, m.Matrix)
	assert.Zero(t, m.TransitionCount)
	assert.Nil(t, m.Labeled().Data)
}

func TestEstimateIsScaleInvariant(t *testing.T) {
	words := append(corpusWords(), "م"+string(phonetic.Damma)+"ب"+string(phonetic.Shadda)+string(phonetic.Kasra))
	doubled := append(append([]string{}, words...), words...)

	once := Estimate(analyse(words))
	twice := Estimate(analyse(doubled))

	assert.Equal(t, once.States, twice.States)
	assert.Equal(t, 2*once.TransitionCount, twice.TransitionCount)
	for _, src := range once.Matrix.Sources() {
		for dst, p := range once.Matrix[src] {
			assert.InDelta(t, p, twice.Matrix.At(src, dst), rowTolerance, "%s -> %s", src, dst)
		}
		assert.Len(t, twice.Matrix[src], len(once.Matrix[src]))
	}
}

func TestEstimateGeminationPattern(t *testing.T) {
	word := "م" + string(phonetic.Fatha) + "د" + string(phonetic.Shadda) + string(phonetic.Damma)
	m := Estimate(analyse([]string{word}))

	dalSukun := "د" + string(phonetic.Sukun)
	dalDamma := "د" + string(phonetic.Damma)
	assert.Equal(t, 1.0, m.Matrix.At(dalSukun, dalDamma))
	assertRowStochastic(t, m)
}

func TestLabeledMatchesMatrix(t *testing.T) {
	m := Estimate(analyse(corpusWords()))
	l := m.Labeled()

	require.Equal(t, len(m.States), l.Size())
	for i, src := range m.States {
		for j, dst := range m.States {
			assert.Equal(t, m.Matrix.At(src, dst), l.At(i, j))
		}
	}

	v, ok := l.Value(phonetic.Start, m.States[len(m.States)-1])
	assert.True(t, ok)
	assert.Equal(t, m.Matrix.At(phonetic.Start, m.States[len(m.States)-1]), v)

	_, ok = l.Value("missing", phonetic.End)
	assert.False(t, ok)

	assert.Equal(t, m.Matrix[phonetic.Start], l.RowOf(phonetic.Start))
}

func TestDestinationsSorted(t *testing.T) {
	row := Row{"c": 0.5, "a": 0.25, "b": 0.25}
	assert.Equal(t, []string{"a", "b", "c"}, row.Destinations())
	assert.Empty(t, Row(nil).Destinations())

	m := TransitionMatrix{"x": row}
	assert.InDelta(t, 1.0, m.RowSum("x"), 1e-12)
	assert.Zero(t, m.RowSum("missing"))
}

func TestRankedOrdersByProbability(t *testing.T) {
	row := Row{"b": 0.25, "a": 0.25, "c": 0.5}

	assert.Equal(t, []Edge{
		{To: "c", Probability: 0.5},
		{To: "a", Probability: 0.25},
		{To: "b", Probability: 0.25},
	}, row.Ranked())
}

func TestAggregate(t *testing.T) {
	m := Estimate(analyse(corpusWords()))

	agg := m.Aggregate(0)
	assert.InDelta(t, 5.0, agg.Sum, rowTolerance)
	assert.Equal(t, 6, agg.Computed)
	assert.Equal(t, 6, agg.CaseCount)
	assert.False(t, agg.Overridden)
	assert.InDelta(t, 5.0/6.0, agg.Ratio, rowTolerance)

	agg = m.Aggregate(272)
	assert.Equal(t, 6, agg.Computed)
	assert.Equal(t, 272, agg.CaseCount)
	assert.True(t, agg.Overridden)
	assert.InDelta(t, 5.0/272.0, agg.Ratio, rowTolerance)

	assert.Zero(t, Estimate(nil).Aggregate(0).Ratio)
}
