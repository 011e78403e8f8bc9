package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/f3rmion/harakat/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default settings file",
	Long: `Write harakat.yaml with the built-in settings into your config directory.

The file holds:
  - inventory   letters and diacritics the tokenizer recognises
  - stability   tolerance and iteration cap of the stationary matrix
  - report      case count override of the aggregate ratio
  - output      output directory, file names and enabled exporters

Edit it to tune later runs of analyze, segment and explore.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite an existing settings file")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configDir := getConfigDir()
	path := settingsPath()

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("settings file already exists: %s\nUse --force to overwrite", path)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Edit the file to change the inventory or the output files")
	fmt.Fprintln(out, "  2. Run 'harakat segment <word>' to check the segmentation")
	fmt.Fprintln(out, "  3. Run 'harakat analyze <corpus dir>' to build the matrices")
	return nil
}
