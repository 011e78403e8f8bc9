package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile is a test helper that creates a file with given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "كَتَبَ\nوَلَدٌ")
	writeFile(t, filepath.Join(dir, "a.TXT"), "بَيْتٌ")
	writeFile(t, filepath.Join(dir, "notes.md"), "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	c, err := LoadDir(dir, "")
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "a.TXT"), filepath.Join(dir, "b.txt")}, c.Files)
	assert.Equal(t, []string{"بَيْتٌ", "كَتَبَ", "وَلَدٌ"}, c.Words())
}

func TestLoadDirWithoutFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "readme.md"), "x")

	_, err := LoadDir(dir, ".txt")
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = LoadDir(filepath.Join(dir, "missing"), ".txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFilesJoinsWithSpace(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "1.txt")
	second := filepath.Join(dir, "2.txt")
	// No trailing newline: the join must still separate the two words.
	writeFile(t, first, "مِنْ")
	writeFile(t, second, "عَنْ")

	c, err := LoadFiles([]string{first, second})
	require.NoError(t, err)
	assert.Equal(t, []string{"مِنْ", "عَنْ"}, c.Words())

	_, err = LoadFiles(nil)
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestWordsDropsBlankTokens(t *testing.T) {
	c := FromText("  \tفِي \n\n  بَيْتِ  ")
	assert.Equal(t, []string{"فِي", "بَيْتِ"}, c.Words())
	assert.Empty(t, FromText("").Words())
}
