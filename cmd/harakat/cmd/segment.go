package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/f3rmion/harakat/internal/phonetic"
)

var segmentCmd = &cobra.Command{
	Use:   "segment <word>...",
	Short: "Split words into letter+diacritic units",
	Long: `Segment each word the way analyze does, without building a model.

A geminated letter is shown as two units: the letter with sukun, then the
letter with its vowel (fatha when the shadda carries none).

Example:
  harakat segment مُدَرِّس
  harakat segment --format json كَتَبَ`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSegment,
}

func init() {
	rootCmd.AddCommand(segmentCmd)
	segmentCmd.Flags().StringP("format", "f", "text", "output format: text or json")
}

var (
	wordStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffe66d"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a8dadc"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

func runSegment(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr())
	format, _ := cmd.Flags().GetString("format")

	settings, err := loadSettings(log)
	if err != nil {
		return err
	}

	tok := phonetic.NewTokenizer(settings.NewInventory())
	var analyses []phonetic.Analysis
	for _, arg := range args {
		// An argument may hold several words.
		analyses = append(analyses, tok.SegmentAll(strings.Fields(arg))...)
	}

	switch format {
	case "json":
		return writeSegmentsJSON(cmd.OutOrStdout(), analyses)
	case "text":
		writeSegmentsText(cmd.OutOrStdout(), analyses)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}

func writeSegmentsJSON(w io.Writer, analyses []phonetic.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(analyses); err != nil {
		return fmt.Errorf("encoding segments: %w", err)
	}
	return nil
}

// unitColumn is the width of the unit column; marks take no cells.
const unitColumn = 6

func writeSegmentsText(w io.Writer, analyses []phonetic.Analysis) {
	for i, a := range analyses {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, wordStyle.Render(a.Word))

		units := a.Units()
		if len(units) == 0 {
			fmt.Fprintln(w, mutedStyle.Render("  (no letters)"))
			continue
		}

		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("  %-3s %s %s", "#", runewidth.FillRight("unit", unitColumn), "mark")))
		for j, u := range units {
			mark := "-"
			if d := a.Diacritics[j]; d != "" {
				mark = phonetic.MarkName([]rune(d)[0])
			}
			fmt.Fprintf(w, "  %-3d %s %s\n", j+1, runewidth.FillRight(u, unitColumn), mark)
		}
		fmt.Fprintln(w, mutedStyle.Render("  "+strings.Join(a.States, " → ")))
	}
}
