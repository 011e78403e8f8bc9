// Package cmd contains all CLI commands for the harakat tool.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/f3rmion/harakat/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "harakat",
	Short: "Markov analysis of Arabic diacritics",
	Long: `harakat segments vocalised Arabic text into letter+diacritic units,
estimates the first-order transition matrix between successive units and
iterates it to its limiting (stationary) matrix.

Every word is framed by START and END states. A geminated letter (shadda)
contributes two units: the letter with sukun, then the letter with its vowel.

Results are written as text reports, Excel workbooks, PNG heatmaps and a
SQLite database of runs that the explorer can reopen.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/harakat)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_dir", cfgFile)
	} else {
		configDir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.SetDefault("config_dir", configDir)
	}

	viper.SetEnvPrefix("HARAKAT")
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// settingsPath returns the settings file inside the config directory.
func settingsPath() string {
	return filepath.Join(getConfigDir(), config.FileName)
}

// newLogger writes text records to w, at debug level when --verbose is set.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadSettings reads the settings file, falling back to the defaults when
// there is none.
func loadSettings(log *slog.Logger) (*config.Settings, error) {
	path := settingsPath()
	s, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("no settings file, using defaults", "path", path)
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	log.Debug("settings loaded", "path", path)
	return s, nil
}
