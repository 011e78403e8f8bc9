package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/harakat/internal/clipboard"
	"github.com/f3rmion/harakat/internal/markov"
	"github.com/f3rmion/harakat/internal/phonetic"
	"github.com/f3rmion/harakat/internal/tui/bigchar"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewTransitions ViewType = iota
	ViewStationary
	ViewWords
	ViewSummary
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// Data is the analysis the explorer browses.
type Data struct {
	Source     string
	Analyses   []phonetic.Analysis
	Model      *markov.Model
	Stationary *markov.Stationary

	CaseCount int     // Aggregate denominator override, 0 for none
	Tolerance float64 // Convergence tolerance the stationary matrix was computed with
}

type clearCopiedMsg struct{}

// ExplorerModel browses the transition matrix, its stationary limit and the
// segmented words of one analysis.
type ExplorerModel struct {
	data Data

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	// Filtered lists and their cursors
	states     []string
	cursor     int
	words      []phonetic.Analysis
	wordCursor int

	// Search
	searchInput textinput.Model
	searching   bool
	searchTerm  string

	// Clipboard
	copy    func(string) error
	copied  bool
	copyErr error

	// Block rendering of the selected state, nil without a usable font
	glyphs *bigchar.Renderer

	showHelp bool
}

// NewExplorer creates the explorer over an analysis.
func NewExplorer(data Data) ExplorerModel {
	si := textinput.New()
	si.Placeholder = "Filter..."
	si.CharLimit = 50
	si.Width = 30

	m := ExplorerModel{
		data:         data,
		sidebarWidth: 20,
		currentView:  ViewTransitions,
		menuItems: []MenuItem{
			{Label: "Transitions", View: ViewTransitions, Shortcut: "1"},
			{Label: "Stationary", View: ViewStationary, Shortcut: "2"},
			{Label: "Words", View: ViewWords, Shortcut: "3"},
			{Label: "Summary", View: ViewSummary, Shortcut: "4"},
		},
		searchInput: si,
		copy:        clipboard.Write,
		glyphs:      bigchar.Default(),
	}
	m.applyFilter()
	return m
}

// Run starts the explorer in the alternate screen and blocks until it quits.
func Run(data Data) error {
	p := tea.NewProgram(NewExplorer(data), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init initializes the model
func (m ExplorerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.searching {
			return m.updateSearch(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "esc":
			if m.sidebarActive {
				return m, tea.Quit
			}
			m.sidebarActive = true
			return m, nil
		case "1", "2", "3", "4":
			m.switchView(int(msg.String()[0] - '1'))
			return m, nil
		case "tab":
			m.sidebarActive = !m.sidebarActive
			return m, nil
		}

		if m.sidebarActive {
			return m.updateSidebar(msg)
		}
		return m.updateContent(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case clearCopiedMsg:
		m.copied = false
		m.copyErr = nil
		return m, nil
	}

	return m, nil
}

func (m ExplorerModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		m.searchTerm = m.searchInput.Value()
		m.applyFilter()
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue(m.searchTerm)
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m ExplorerModel) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.selectedMenu < len(m.menuItems)-1 {
			m.selectedMenu++
		}
	case "k", "up":
		if m.selectedMenu > 0 {
			m.selectedMenu--
		}
	case "enter", "l", "right":
		m.switchView(m.selectedMenu)
	}
	return m, nil
}

func (m ExplorerModel) updateContent(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n, cur := len(m.states), &m.cursor
	if m.currentView == ViewWords {
		n, cur = len(m.words), &m.wordCursor
	}

	switch msg.String() {
	case "j", "down":
		if *cur < n-1 {
			*cur++
		}
	case "k", "up":
		if *cur > 0 {
			*cur--
		}
	case "g", "home":
		*cur = 0
	case "G", "end":
		*cur = max(0, n-1)
	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink
	case "c":
		m.searchTerm = ""
		m.searchInput.SetValue("")
		m.applyFilter()
	case "y":
		text := m.selectionText()
		if text == "" {
			return m, nil
		}
		m.copyErr = m.copy(text)
		m.copied = m.copyErr == nil
		return m, clearCopiedAfter(2 * time.Second)
	}
	return m, nil
}

func (m *ExplorerModel) switchView(i int) {
	if i < 0 || i >= len(m.menuItems) {
		return
	}
	m.selectedMenu = i
	m.currentView = m.menuItems[i].View
	m.sidebarActive = false
}

// applyFilter narrows states and words to those containing the search term
// and resets both cursors.
func (m *ExplorerModel) applyFilter() {
	m.states = nil
	if m.data.Model != nil {
		for _, s := range m.data.Model.States {
			if strings.Contains(s, m.searchTerm) {
				m.states = append(m.states, s)
			}
		}
	}
	m.words = nil
	for _, a := range m.data.Analyses {
		if strings.Contains(a.Word, m.searchTerm) {
			m.words = append(m.words, a)
		}
	}
	m.cursor = 0
	m.wordCursor = 0
}

// SelectedState returns the state under the cursor, "" when the list is empty.
func (m ExplorerModel) SelectedState() string {
	if m.cursor >= len(m.states) {
		return ""
	}
	return m.states[m.cursor]
}

// SelectedWord returns the analysis under the word cursor.
func (m ExplorerModel) SelectedWord() (phonetic.Analysis, bool) {
	if m.wordCursor >= len(m.words) {
		return phonetic.Analysis{}, false
	}
	return m.words[m.wordCursor], true
}

// currentRow returns the outgoing edges of the selected state in the current
// matrix view.
func (m ExplorerModel) currentRow() []markov.Edge {
	src := m.SelectedState()
	if src == "" {
		return nil
	}
	switch m.currentView {
	case ViewTransitions:
		return m.data.Model.Matrix[src].Ranked()
	case ViewStationary:
		if m.data.Stationary == nil || m.data.Stationary.Size() == 0 {
			return nil
		}
		return m.data.Stationary.RowOf(src).Ranked()
	}
	return nil
}

func clearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

// View renders the UI
func (m ExplorerModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var content string
	switch m.currentView {
	case ViewTransitions:
		content = m.renderMatrixView("Transition Matrix", m.transitionSummary())
	case ViewStationary:
		content = m.renderMatrixView("Stationary Matrix", m.stationarySummary())
	case ViewWords:
		content = m.renderWordsView()
	case ViewSummary:
		content = m.renderSummaryView()
	}

	contentWidth := m.width - m.sidebarWidth - 4
	mainContent := ContentStyle.
		Width(contentWidth).
		Height(m.height - 2).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), mainContent)
}

func (m ExplorerModel) renderSidebar() string {
	var items []string
	items = append(items, SidebarTitleStyle.Render(" حركات harakat "), "")

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Label

		var style lipgloss.Style
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = SidebarItemActiveStyle
			} else {
				style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
			}
		} else {
			style = SidebarItemStyle
		}
		items = append(items, style.Render(label))
	}

	usedHeight := len(items) + 4
	for i := 0; i < m.height-usedHeight-2; i++ {
		items = append(items, "")
	}
	items = append(items, SidebarHelpStyle.Render("? Help  q Quit"))

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (m ExplorerModel) renderHelp() string {
	keyStyle := lipgloss.NewStyle().Foreground(ColorAccent).Width(12)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary).MarginTop(1)

	var b strings.Builder
	b.WriteString(TitleStyle.Render("harakat explorer") + "\n\n")

	b.WriteString(sectionStyle.Render("Global Keys") + "\n")
	for _, k := range [][2]string{
		{"1-4", "Switch views"},
		{"tab", "Toggle sidebar focus"},
		{"?", "Show this help"},
		{"q", "Quit"},
	} {
		b.WriteString(keyStyle.Render(k[0]) + ValueStyle.Render(k[1]) + "\n")
	}

	b.WriteString(sectionStyle.Render("Lists") + "\n")
	for _, k := range [][2]string{
		{"j/k ↑/↓", "Move selection"},
		{"g/G", "First/last entry"},
		{"/", "Filter"},
		{"c", "Clear filter"},
		{"y", "Copy selection"},
	} {
		b.WriteString(keyStyle.Render(k[0]) + ValueStyle.Render(k[1]) + "\n")
	}

	b.WriteString("\n" + HelpStyle.Italic(true).Render("Press any key to close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSecondary).
		Padding(1, 2).
		Width(50).
		Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
