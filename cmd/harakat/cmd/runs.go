package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/f3rmion/harakat/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs [results.db]",
	Short: "List the runs recorded in a results database",
	Long: `List every run analyze has recorded, newest first.

Without an argument the database named in the settings under ./results is read.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr())

	settings, err := loadSettings(log)
	if err != nil {
		return err
	}

	path := settings.OutputPath(".", settings.Output.Database)
	if len(args) == 1 {
		path = args[0]
	}

	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return fmt.Errorf("%s: %w", path, store.ErrNoRuns)
	}

	writeRuns(cmd.OutOrStdout(), runs)
	return nil
}

func writeRuns(w io.Writer, runs []store.Run) {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#3d5a80"))).
		Headers("ID", "Created", "Words", "States", "Transitions", "Iterations", "Converged", "Source").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, r := range runs {
		converged := "yes"
		if !r.Converged {
			converged = "no"
		}
		t.Row(
			strconv.FormatInt(r.ID, 10),
			r.CreatedAt.Format("2006-01-02 15:04"),
			strconv.Itoa(r.Words),
			strconv.Itoa(r.States),
			strconv.Itoa(r.Transitions),
			strconv.Itoa(r.Iterations),
			converged,
			r.Source,
		)
	}

	fmt.Fprintln(w, t.Render())
}
