package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/f3rmion/harakat/internal/config"
	"github.com/f3rmion/harakat/internal/corpus"
	"github.com/f3rmion/harakat/internal/export"
	"github.com/f3rmion/harakat/internal/pipeline"
	"github.com/f3rmion/harakat/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [dir | file...]",
	Short: "Estimate transition and stationary matrices from a corpus",
	Long: `Read a corpus of vocalised Arabic text and build its Markov model.

With a single directory argument every .txt file directly inside it is read
in name order. Otherwise each argument is read as a file. Without arguments
the current directory is used.

Outputs (names and directory set in harakat.yaml):
  combined.txt        per-word letters, diacritics and successive pairs
  probabilities.txt   every transition probability and the aggregate ratio
  transition.xlsx     transition matrix workbook
  stationary.xlsx     stationary matrix workbook
  transition.png      transition matrix heatmap
  stationary.png      stationary matrix heatmap
  results.db          SQLite database, one row per run

Example:
  harakat analyze corpus/
  harakat analyze --case-count 272 -o out corpus/`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("output", "o", "", "output directory (default from settings)")
	analyzeCmd.Flags().Int("case-count", 0, "denominator of the aggregate ratio, 0 uses the computed transition count")
	analyzeCmd.Flags().String("ext", corpus.DefaultExt, "corpus file extension when reading a directory")
	analyzeCmd.Flags().Bool("no-store", false, "do not record the run in the results database")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr())

	settings, err := loadSettings(log)
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		settings.Output.Dir = out
	}
	if cmd.Flags().Changed("case-count") {
		settings.Report.CaseCount, _ = cmd.Flags().GetInt("case-count")
	}
	if noStore, _ := cmd.Flags().GetBool("no-store"); noStore {
		settings.Output.Store = false
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	ext, _ := cmd.Flags().GetString("ext")
	in, err := readCorpus(args, ext)
	if err != nil {
		return err
	}
	log.Debug("corpus loaded", "files", len(in.Files), "bytes", len(in.Text))

	res := newPipeline(log, settings).Run(in.Words())

	written, err := writeOutputs(log, settings, in.Base, in.Source, res)
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), settings, res, written)
	return nil
}

// corpusInput is a loaded corpus with the directory relative outputs resolve
// against and a description of where it came from.
type corpusInput struct {
	*corpus.Corpus
	Base   string
	Source string
}

// readCorpus loads the corpus named by args: one directory, or a list of files.
func readCorpus(args []string, ext string) (*corpusInput, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	if len(args) == 1 {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			c, err := corpus.LoadDir(args[0], ext)
			if err != nil {
				return nil, err
			}
			return &corpusInput{Corpus: c, Base: args[0], Source: args[0]}, nil
		}
	}

	c, err := corpus.LoadFiles(args)
	if err != nil {
		return nil, err
	}
	return &corpusInput{
		Corpus: c,
		Base:   filepath.Dir(args[0]),
		Source: strings.Join(args, ", "),
	}, nil
}

func newPipeline(log *slog.Logger, s *config.Settings) *pipeline.Pipeline {
	return pipeline.New(log, pipeline.Config{
		Inventory:     s.NewInventory(),
		Tolerance:     s.Stability.Tolerance,
		MaxIterations: s.Stability.MaxIterations,
	})
}

// writeOutputs writes every enabled exporter and returns the paths written.
func writeOutputs(log *slog.Logger, s *config.Settings, base, source string, res *pipeline.Result) ([]string, error) {
	if err := os.MkdirAll(s.OutputDir(base), 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var written []string
	path := func(name string) string {
		p := s.OutputPath(base, name)
		written = append(written, p)
		return p
	}

	if err := export.SaveWordReport(path(s.Output.WordReport), res.Analyses); err != nil {
		return written, err
	}
	if err := export.SaveProbabilityReport(path(s.Output.ProbabilityReport), res.Model, s.Report.CaseCount); err != nil {
		return written, err
	}

	transition := res.Model.Labeled()
	if s.Output.Workbooks {
		if err := export.SaveWorkbook(path(s.Output.TransitionWorkbook), export.TransitionSheet, transition); err != nil {
			return written, err
		}
		if err := export.SaveWorkbook(path(s.Output.StationaryWorkbook), export.StationarySheet, res.Stationary.Labeled); err != nil {
			return written, err
		}
	}

	if s.Output.Images {
		opts := export.HeatmapOptions{FontPath: s.Output.Font}
		if err := export.SaveHeatmap(path(s.Output.TransitionImage), transition, export.TransitionTitle, opts); err != nil {
			return written, err
		}
		if err := export.SaveHeatmap(path(s.Output.StationaryImage), res.Stationary.Labeled, export.StationaryTitle, opts); err != nil {
			return written, err
		}
	}

	if s.Output.Store {
		id, err := storeRun(path(s.Output.Database), &store.Snapshot{
			Run: store.Run{
				Source:    source,
				CaseCount: s.Report.CaseCount,
				Tolerance: s.Stability.Tolerance,
			},
			Analyses:   res.Analyses,
			Model:      res.Model,
			Stationary: res.Stationary,
		})
		if err != nil {
			return written, err
		}
		log.Info("run stored", "id", id)
	}

	return written, nil
}

func storeRun(path string, snap *store.Snapshot) (int64, error) {
	st, err := store.Open(path)
	if err != nil {
		return 0, err
	}
	defer st.Close()
	return st.SaveRun(snap)
}

func printSummary(w io.Writer, s *config.Settings, res *pipeline.Result, written []string) {
	agg := res.Model.Aggregate(s.Report.CaseCount)

	fmt.Fprintf(w, "Processed %d words (%d states, %d transitions) in %s\n",
		len(res.Analyses), len(res.Model.States), res.Model.TransitionCount, res.Duration.Round(time.Millisecond))
	if res.Stationary.Converged {
		fmt.Fprintf(w, "Stationary matrix converged after %d iterations\n", res.Stationary.Iterations)
	} else {
		fmt.Fprintf(w, "Stationary matrix did not converge after %d iterations (delta %.3g)\n",
			res.Stationary.Iterations, res.Stationary.Delta)
	}
	fmt.Fprintf(w, "Total probability = %.4f / %d = %.4f\n", agg.Sum, agg.CaseCount, agg.Ratio)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Wrote:")
	for _, p := range written {
		fmt.Fprintf(w, "  %s\n", p)
	}
}
