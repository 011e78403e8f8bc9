// Package corpus reads diacritized text files and splits them into words.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExt is the extension of corpus files.
const DefaultExt = ".txt"

// ErrNoFiles is returned when a directory holds no corpus files.
var ErrNoFiles = errors.New("no corpus files found")

// Corpus is the concatenated text of a set of files.
type Corpus struct {
	Files []string // Paths in the order they were read
	Text  string   // File contents joined by a single space
}

// LoadDir reads every file with the given extension directly under dir, in
// name order. Subdirectories are not descended into.
func LoadDir(dir, ext string) (*Corpus, error) {
	if ext == "" {
		ext = DefaultExt
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, dir)
	}
	sort.Strings(files)

	return LoadFiles(files)
}

// LoadFiles reads the given files in order.
func LoadFiles(paths []string) (*Corpus, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}

	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading corpus file: %w", err)
		}
		parts = append(parts, string(data))
	}

	return &Corpus{
		Files: paths,
		Text:  strings.Join(parts, " "),
	}, nil
}

// FromText wraps raw text, e.g. from stdin.
func FromText(text string) *Corpus {
	return &Corpus{Text: text}
}

// Words splits the corpus on whitespace. Empty tokens never appear.
func (c *Corpus) Words() []string {
	return strings.Fields(c.Text)
}
