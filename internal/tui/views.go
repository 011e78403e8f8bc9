package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/f3rmion/harakat/internal/export"
	"github.com/f3rmion/harakat/internal/phonetic"
)

const (
	barWidth   = 20
	labelWidth = 10
	glyphCols  = 16
	glyphRows  = 8
)

// window returns the slice bounds of a list of n entries that keeps cursor
// visible in height rows.
func window(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	start = max(0, min(start, n-height))
	return start, start + height
}

// bar draws p in [0,1] as a block bar of barWidth cells.
func bar(p float64) string {
	full := int(p*barWidth + 0.5)
	full = max(0, min(barWidth, full))
	return strings.Repeat("█", full) + strings.Repeat("░", barWidth-full)
}

// pad fits a state label into labelWidth terminal cells. Combining marks take
// no width of their own.
func pad(label string) string {
	if runewidth.StringWidth(label) > labelWidth {
		label = runewidth.Truncate(label, labelWidth, "…")
	}
	return runewidth.FillRight(label, labelWidth)
}

func (m ExplorerModel) listHeight() int {
	return max(3, m.height-12)
}

func (m ExplorerModel) renderStateList() string {
	if len(m.states) == 0 {
		return ListBoxStyle.Render(HelpStyle.Render("no states"))
	}

	start, end := window(len(m.states), m.cursor, m.listHeight())
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		style := StateStyle
		if i == m.cursor {
			style = StateSelectedStyle
		}
		lines = append(lines, style.Render(pad(m.states[i])))
	}
	return ListBoxStyle.Render(strings.Join(lines, "\n"))
}

func (m ExplorerModel) transitionSummary() string {
	model := m.data.Model
	if model == nil {
		return ""
	}
	return fmt.Sprintf("%d states · %d transitions", len(model.States), model.TransitionCount)
}

func (m ExplorerModel) stationarySummary() string {
	st := m.data.Stationary
	if st == nil {
		return ""
	}
	status := ConvergedStyle.Render("converged")
	if !st.Converged {
		status = ErrorStyle.Render("not converged")
	}
	return fmt.Sprintf("%s after %d iterations · Δ %.2e", status, st.Iterations, st.Delta)
}

func (m ExplorerModel) renderMatrixView(title, summary string) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(title))
	if m.data.Source != "" {
		b.WriteString("  " + SubtitleStyle.Render(m.data.Source))
	}
	b.WriteString("\n" + HelpStyle.Render(summary) + "\n")
	b.WriteString(m.renderSearch() + "\n")

	row := m.renderRow()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderStateList(), "  ", row))
	b.WriteString("\n" + m.renderStatus())
	return b.String()
}

func (m ExplorerModel) renderRow() string {
	src := m.SelectedState()
	if src == "" {
		return ""
	}

	edges := m.currentRow()
	var lines []string
	if glyph := m.renderGlyph(src); glyph != "" {
		lines = append(lines, GlyphStyle.Render(glyph))
	}
	lines = append(lines, LabelStyle.Render("From")+ValueStyle.Render(src), "")
	if len(edges) == 0 {
		lines = append(lines, HelpStyle.Render("no outgoing transitions"))
	}
	for _, e := range edges {
		line := pad(e.To) + " " +
			ProbabilityStyle.Render(fmt.Sprintf("%.4f", e.Probability)) + " " +
			BarStyle.Render(bar(e.Probability))
		if m.currentView == ViewTransitions {
			line += HelpStyle.Render(fmt.Sprintf("  n=%d", m.data.Model.Counts[src][e.To]))
		}
		lines = append(lines, line)
	}
	return RowBoxStyle.Render(strings.Join(lines, "\n"))
}

// renderGlyph draws a state as block art. Sentinels have no glyph.
func (m ExplorerModel) renderGlyph(state string) string {
	if state == phonetic.Start || state == phonetic.End {
		return ""
	}
	return m.glyphs.Render(state, glyphCols, glyphRows)
}

func (m ExplorerModel) renderWordsView() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Words"))
	b.WriteString("  " + SubtitleStyle.Render(fmt.Sprintf("%d of %d", len(m.words), len(m.data.Analyses))))
	b.WriteString("\n" + m.renderSearch() + "\n")

	var list string
	if len(m.words) == 0 {
		list = ListBoxStyle.Render(HelpStyle.Render("no words"))
	} else {
		start, end := window(len(m.words), m.wordCursor, m.listHeight())
		lines := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			style := StateStyle
			if i == m.wordCursor {
				style = StateSelectedStyle
			}
			lines = append(lines, style.Render(pad(m.words[i].Word)))
		}
		list = ListBoxStyle.Render(strings.Join(lines, "\n"))
	}

	var detail string
	if a, ok := m.SelectedWord(); ok {
		lines := []string{
			LabelStyle.Render("Word") + ValueStyle.Render(a.Word),
			LabelStyle.Render("Letters") + ValueStyle.Render(strings.Join(a.Letters, " ")),
			LabelStyle.Render("Units") + ValueStyle.Render(strings.Join(a.Units(), " ")),
			"",
			SubtitleStyle.Render("Successive pairs"),
		}
		for _, p := range export.PairLines(a.States) {
			lines = append(lines, "  "+p)
		}
		detail = RowBoxStyle.Render(strings.Join(lines, "\n"))
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", detail))
	b.WriteString("\n" + m.renderStatus())
	return b.String()
}

// renderSummaryView lists the run parameters and the aggregate ratio.
func (m ExplorerModel) renderSummaryView() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Summary"))
	if m.data.Source != "" {
		b.WriteString("  " + SubtitleStyle.Render(m.data.Source))
	}
	b.WriteString("\n")

	model := m.data.Model
	if model == nil {
		return b.String() + HelpStyle.Render("no model")
	}

	row := func(label, value string) string {
		return SummaryLabelStyle.Render(label) + ValueStyle.Render(value)
	}

	agg := model.Aggregate(m.data.CaseCount)
	denominator := "computed"
	if agg.Overridden {
		denominator = fmt.Sprintf("override (computed %d)", agg.Computed)
	}
	corpus := []string{
		SubtitleStyle.Render("Corpus"),
		row("Words", fmt.Sprint(len(m.data.Analyses))),
		row("States", fmt.Sprint(len(model.States))),
		row("Transitions", fmt.Sprint(model.TransitionCount)),
		"",
		SubtitleStyle.Render("Total probability"),
		row("Sum", fmt.Sprintf("%.4f", agg.Sum)),
		row("Case count", fmt.Sprintf("%d, %s", agg.CaseCount, denominator)),
		row("Ratio", ProbabilityStyle.Render(fmt.Sprintf("%.4f", agg.Ratio))),
	}

	stability := []string{SubtitleStyle.Render("Stationary matrix")}
	if st := m.data.Stationary; st != nil {
		status := ConvergedStyle.Render("yes")
		if !st.Converged {
			status = ErrorStyle.Render("no")
		}
		stability = append(stability,
			row("Converged", status),
			row("Iterations", fmt.Sprint(st.Iterations)),
			row("Delta", fmt.Sprintf("%.2e", st.Delta)),
		)
		if m.data.Tolerance > 0 {
			stability = append(stability, row("Tolerance", fmt.Sprintf("%.0e", m.data.Tolerance)))
		}
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		RowBoxStyle.Render(strings.Join(corpus, "\n")), "  ",
		RowBoxStyle.Render(strings.Join(stability, "\n"))))
	b.WriteString("\n" + m.renderStatus())
	return b.String()
}

func (m ExplorerModel) renderSearch() string {
	if m.searching {
		return SearchBoxStyle.Render(m.searchInput.View())
	}
	if m.searchTerm != "" {
		return HelpStyle.Render("filter: ") + ValueStyle.Render(m.searchTerm) + HelpStyle.Render("  (c clears)")
	}
	return ""
}

func (m ExplorerModel) renderStatus() string {
	switch {
	case m.copyErr != nil:
		return ErrorStyle.Render("copy failed: " + m.copyErr.Error())
	case m.copied:
		return CopiedStyle.Render("✓ copied to clipboard")
	}
	return HelpStyle.Render("j/k move  / filter  y copy  tab menu")
}

// selectionText is what "y" copies: the ranked row of the selected state, or
// the pair breakdown of the selected word.
func (m ExplorerModel) selectionText() string {
	if m.currentView == ViewWords {
		a, ok := m.SelectedWord()
		if !ok {
			return ""
		}
		return a.Word + "\n" + strings.Join(export.PairLines(a.States), "\n")
	}

	src := m.SelectedState()
	if src == "" {
		return ""
	}
	var lines []string
	for _, e := range m.currentRow() {
		lines = append(lines, fmt.Sprintf("%s -> %s: %.4f", src, e.To, e.Probability))
	}
	return strings.Join(lines, "\n")
}
