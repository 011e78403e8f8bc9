package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f3rmion/harakat/internal/corpus"
	"github.com/f3rmion/harakat/internal/store"
	"github.com/f3rmion/harakat/internal/tui"
)

// latestDB is the --db value meaning the database named in the settings.
const latestDB = "default"

var exploreCmd = &cobra.Command{
	Use:   "explore [dir | file...]",
	Short: "Browse a model in the terminal UI",
	Long: `Open the interactive explorer on a corpus or on a stored run.

Without --db the corpus is analysed in memory and nothing is written.
With --db=<path> the latest run of that results database is loaded instead;
--db alone uses the database named in the settings under ./results.

Controls:
  1/2/3/4       Transitions, stationary matrix, words, summary
  ↑/↓ or j/k    Move selection
  /             Filter states and words
  y             Copy the selected row
  q             Quit`,
	RunE: runExplore,
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().String("db", "", "results database to load a run from")
	exploreCmd.Flags().Lookup("db").NoOptDefVal = latestDB
	exploreCmd.Flags().Int64("run", 0, "run id to load with --db (default latest)")
	exploreCmd.Flags().String("ext", corpus.DefaultExt, "corpus file extension when reading a directory")
}

func runExplore(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr())

	settings, err := loadSettings(log)
	if err != nil {
		return err
	}

	var data tui.Data
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		if dbPath == latestDB {
			dbPath = settings.OutputPath(".", settings.Output.Database)
		}
		runID, _ := cmd.Flags().GetInt64("run")
		data, err = loadStoredRun(dbPath, runID)
	} else {
		ext, _ := cmd.Flags().GetString("ext")
		var in *corpusInput
		in, err = readCorpus(args, ext)
		if err == nil {
			res := newPipeline(log, settings).Run(in.Words())
			data = tui.Data{
				Source:     in.Source,
				Analyses:   res.Analyses,
				Model:      res.Model,
				Stationary: res.Stationary,
				CaseCount:  settings.Report.CaseCount,
				Tolerance:  settings.Stability.Tolerance,
			}
		}
	}
	if err != nil {
		return err
	}

	if err := tui.Run(data); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func loadStoredRun(path string, id int64) (tui.Data, error) {
	st, err := store.Open(path)
	if err != nil {
		return tui.Data{}, err
	}
	defer st.Close()

	var snap *store.Snapshot
	if id > 0 {
		snap, err = st.LoadRun(id)
	} else {
		snap, err = st.LatestRun()
	}
	if err != nil {
		return tui.Data{}, err
	}

	return tui.Data{
		Source:     fmt.Sprintf("run %d · %s", snap.Run.ID, snap.Run.Source),
		Analyses:   snap.Analyses,
		Model:      snap.Model,
		Stationary: snap.Stationary,
		CaseCount:  snap.Run.CaseCount,
		Tolerance:  snap.Run.Tolerance,
	}, nil
}
