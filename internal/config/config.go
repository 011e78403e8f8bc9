// Package config handles loading and saving harakat settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/f3rmion/harakat/internal/markov"
	"github.com/f3rmion/harakat/internal/phonetic"
	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up in the config directory.
const FileName = "harakat.yaml"

// ErrInvalid is returned when settings fail validation.
var ErrInvalid = errors.New("invalid settings")

// Settings holds everything a run can be tuned with.
type Settings struct {
	Inventory InventorySettings `yaml:"inventory"`
	Stability StabilitySettings `yaml:"stability"`
	Report    ReportSettings    `yaml:"report"`
	Output    OutputSettings    `yaml:"output"`
}

// InventorySettings describes the letters and marks the tokenizer recognises.
type InventorySettings struct {
	Letters      string `yaml:"letters"`
	Diacritics   string `yaml:"diacritics"`    // Must include the three marks below
	Gemination   string `yaml:"gemination"`    // Shadda
	Vowelless    string `yaml:"vowelless"`     // Sukun
	DefaultVowel string `yaml:"default_vowel"` // Fatha, assumed after a bare gemination mark
}

// StabilitySettings tunes the fixed-point iteration.
type StabilitySettings struct {
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
}

// ReportSettings tunes the probability report.
type ReportSettings struct {
	CaseCount int `yaml:"case_count"` // Denominator override, 0 uses the computed count
}

// OutputSettings names the files an analysis writes.
type OutputSettings struct {
	Dir                string `yaml:"dir"` // Relative paths resolve against the corpus directory
	WordReport         string `yaml:"word_report"`
	ProbabilityReport  string `yaml:"probability_report"`
	TransitionWorkbook string `yaml:"transition_workbook"`
	StationaryWorkbook string `yaml:"stationary_workbook"`
	TransitionImage    string `yaml:"transition_image"`
	StationaryImage    string `yaml:"stationary_image"`
	Database           string `yaml:"database"`
	Font               string `yaml:"font"` // Heatmap font file, empty searches system fonts

	Workbooks bool `yaml:"workbooks"`
	Images    bool `yaml:"images"`
	Store     bool `yaml:"store"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		Inventory: InventorySettings{
			Letters:      phonetic.DefaultLetters,
			Diacritics:   phonetic.DefaultDiacritics,
			Gemination:   string(phonetic.Shadda),
			Vowelless:    string(phonetic.Sukun),
			DefaultVowel: string(phonetic.Fatha),
		},
		Stability: StabilitySettings{
			Tolerance:     markov.DefaultTolerance,
			MaxIterations: markov.DefaultMaxIterations,
		},
		Output: OutputSettings{
			Dir:                "results",
			WordReport:         "combined.txt",
			ProbabilityReport:  "probabilities.txt",
			TransitionWorkbook: "transition.xlsx",
			StationaryWorkbook: "stationary.xlsx",
			TransitionImage:    "transition.png",
			StationaryImage:    "stationary.png",
			Database:           "results.db",
			Workbooks:          true,
			Images:             true,
			Store:              true,
		},
	}
}

// Load reads settings from a YAML file. Keys missing from the file keep
// their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings file: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes settings to a YAML file.
func Save(path string, s *Settings) error {
	out, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	return nil
}

// Validate checks the settings for values no run could use.
func (s *Settings) Validate() error {
	inv := s.Inventory
	if inv.Letters == "" {
		return fmt.Errorf("%w: letter inventory is empty", ErrInvalid)
	}
	marks := []struct{ name, mark string }{
		{"gemination", inv.Gemination},
		{"vowelless", inv.Vowelless},
		{"default_vowel", inv.DefaultVowel},
	}
	for _, m := range marks {
		name, mark := m.name, m.mark
		if utf8.RuneCountInString(mark) != 1 {
			return fmt.Errorf("%w: %s must be a single mark, got %q", ErrInvalid, name, mark)
		}
		r, _ := utf8.DecodeRuneInString(mark)
		if !strings.ContainsRune(inv.Diacritics, r) {
			return fmt.Errorf("%w: %s mark %U is not listed in diacritics", ErrInvalid, name, r)
		}
	}
	if s.Stability.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive", ErrInvalid)
	}
	if s.Stability.MaxIterations < 1 {
		return fmt.Errorf("%w: max_iterations must be at least 1", ErrInvalid)
	}
	if s.Report.CaseCount < 0 {
		return fmt.Errorf("%w: case_count must not be negative", ErrInvalid)
	}
	return nil
}

// NewInventory builds the tokenizer inventory described by the settings.
// The settings must be valid.
func (s *Settings) NewInventory() *phonetic.Inventory {
	first := func(mark string) rune {
		r, _ := utf8.DecodeRuneInString(mark)
		return r
	}
	inv := s.Inventory
	return phonetic.NewInventoryWithMarks(
		inv.Letters,
		inv.Diacritics,
		first(inv.Gemination),
		first(inv.Vowelless),
		first(inv.DefaultVowel),
	)
}

// OutputPath resolves a configured file name against the output directory.
// A relative output directory is taken relative to base.
func (s *Settings) OutputPath(base, name string) string {
	return filepath.Join(s.OutputDir(base), name)
}

// OutputDir resolves the output directory against base.
func (s *Settings) OutputDir(base string) string {
	if filepath.IsAbs(s.Output.Dir) {
		return s.Output.Dir
	}
	return filepath.Join(base, s.Output.Dir)
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "harakat"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
