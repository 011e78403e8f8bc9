// Package export writes analysis results to text reports, workbooks and images.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/f3rmion/harakat/internal/markov"
	"github.com/f3rmion/harakat/internal/phonetic"
)

// Pair labels used at word boundaries.
const (
	StartOfWord = "start of word"
	EndOfWord   = "end of word"
)

const wordReportTemplate = `{{range .}}Word: {{join .Letters ""}}
  Letters: {{list .Letters}}
  Diacritics: {{list (reverse .Diacritics)}}
  Successive pairs:
{{range pairs .States}}    {{.}}
{{end}}
{{end}}`

const probabilityReportTemplate = `Transition probabilities of successive pairs:
{{range .Lines}}  {{.From}} -> {{.To}}: {{printf "%.4f" .Probability}}
{{end}}
Total sum of transition probabilities: {{printf "%.4f" .Aggregate.Sum}}
Total probability = {{.Aggregate.Sum}} / {{.Aggregate.CaseCount}} = {{printf "%.4f" .Aggregate.Ratio}}
Computed case count: {{.Aggregate.Computed}}
{{if .Aggregate.Overridden}}Case count override: {{.Aggregate.CaseCount}}
{{end}}`

var funcs = template.FuncMap{
	"join":    strings.Join,
	"list":    formatList,
	"reverse": reversed,
	"pairs":   PairLines,
}

var (
	wordTmpl        = template.Must(template.New("words").Funcs(funcs).Parse(wordReportTemplate))
	probabilityTmpl = template.Must(template.New("probabilities").Funcs(funcs).Parse(probabilityReportTemplate))
)

// PairLines renders each adjacent pair of a state sequence. The first pair is
// labelled from the start of the word and the last one to its end.
func PairLines(states []string) []string {
	n := len(states)
	if n < 2 {
		return nil
	}
	if n == 2 {
		return []string{StartOfWord + " -> " + EndOfWord}
	}

	lines := make([]string, 0, n-1)
	for i := 0; i+1 < n; i++ {
		switch {
		case i == 0:
			lines = append(lines, StartOfWord+" -> "+states[i+1])
		case i == n-2:
			lines = append(lines, states[i]+" -> "+EndOfWord)
		default:
			lines = append(lines, states[i]+" -> "+states[i+1])
		}
	}
	return lines
}

// WriteWordReport writes the per-word breakdown. Diacritics are listed in
// reverse so they read right to left next to the letters.
func WriteWordReport(w io.Writer, analyses []phonetic.Analysis) error {
	if err := wordTmpl.Execute(w, analyses); err != nil {
		return fmt.Errorf("rendering word report: %w", err)
	}
	return nil
}

// SaveWordReport writes the per-word breakdown to path.
func SaveWordReport(path string, analyses []phonetic.Analysis) error {
	return saveText(path, func(w io.Writer) error {
		return WriteWordReport(w, analyses)
	})
}

// ProbabilityLine is one entry of the probability report.
type ProbabilityLine struct {
	From        string
	To          string
	Probability float64
}

// WriteProbabilityReport lists every transition and the aggregate ratio.
func WriteProbabilityReport(w io.Writer, m *markov.Model, caseCountOverride int) error {
	data := struct {
		Lines     []ProbabilityLine
		Aggregate markov.Aggregate
	}{
		Aggregate: m.Aggregate(caseCountOverride),
	}
	for _, src := range m.Matrix.Sources() {
		row := m.Matrix[src]
		for _, dst := range row.Destinations() {
			data.Lines = append(data.Lines, ProbabilityLine{From: src, To: dst, Probability: row[dst]})
		}
	}

	if err := probabilityTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering probability report: %w", err)
	}
	return nil
}

// SaveProbabilityReport writes the probability report to path.
func SaveProbabilityReport(path string, m *markov.Model, caseCountOverride int) error {
	return saveText(path, func(w io.Writer) error {
		return WriteProbabilityReport(w, m, caseCountOverride)
	})
}

func saveText(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	if err := write(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func formatList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func reversed(items []string) []string {
	out := slices.Clone(items)
	slices.Reverse(out)
	return out
}
