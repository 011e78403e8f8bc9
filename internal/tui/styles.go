// Package tui provides an interactive terminal explorer for analysis results.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#FF6B6B") // Red - titles
	ColorSecondary = lipgloss.Color("#4ecdc4") // Teal - headers, selected view
	ColorAccent    = lipgloss.Color("#ffe66d") // Yellow - selected state
	ColorMuted     = lipgloss.Color("#666666") // Gray - help text
	ColorSuccess   = lipgloss.Color("#a8e6cf") // Green - converged, copied
	ColorText      = lipgloss.Color("#f1faee")
	ColorLabel     = lipgloss.Color("#a8dadc")
	ColorBg        = lipgloss.Color("#1a1a2e")
	ColorBgAlt     = lipgloss.Color("#2d3436")
	ColorBorder    = lipgloss.Color("#3d5a80")
)

// Sidebar styles
var (
	SidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderRight(true).
			BorderForeground(ColorBorder).
			Padding(1, 1)

	SidebarTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				Background(ColorBg).
				Padding(0, 1).
				MarginBottom(1)

	SidebarItemStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Padding(0, 1)

	SidebarItemActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorAccent).
				Background(ColorBgAlt).
				Padding(0, 1)

	SidebarHelpStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				MarginTop(1).
				Padding(0, 1)
)

// Title styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Background(ColorBg).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)
)

// List and table styles
var (
	StateStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Padding(0, 1)

	StateSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorAccent).
				Background(ColorBgAlt).
				Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorLabel).
			Bold(true).
			Width(12)

	SummaryLabelStyle = lipgloss.NewStyle().
				Foreground(ColorLabel).
				Width(14)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	ProbabilityStyle = lipgloss.NewStyle().
				Foreground(ColorAccent)

	BarStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	GlyphStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			MarginBottom(1)

	ListBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	RowBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 2)

	SearchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1)
)

// Status styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	ConvergedStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	CopiedStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)
)

// Content area style
var ContentStyle = lipgloss.NewStyle().
	Padding(1, 2)
