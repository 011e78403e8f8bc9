package pipeline

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/harakat/internal/phonetic"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRun(t *testing.T) {
	var logs bytes.Buffer
	p := New(newTestLogger(&logs), DefaultConfig())

	words := []string{
		"ب" + string(phonetic.Fatha) + "ب" + string(phonetic.Fathatan) + string(phonetic.Shadda),
		"   ",
		"ب" + string(phonetic.Kasra) + "ت" + string(phonetic.Sukun),
	}
	res := p.Run(words)

	require.Len(t, res.Analyses, 2)
	assert.Len(t, res.Model.States, 6)
	assert.True(t, res.Stationary.Converged)
	assert.Equal(t, res.Model.States, res.Stationary.States)
	assert.Contains(t, logs.String(), "stationary matrix converged")
	assert.Contains(t, logs.String(), "states=6")
}

func TestRunWarnsOnNonConvergence(t *testing.T) {
	var logs bytes.Buffer
	cfg := DefaultConfig()
	cfg.MaxIterations = 1
	p := New(newTestLogger(&logs), cfg)

	// A self-loop keeps mass in the chain past a single multiplication.
	word := "ب" + string(phonetic.Fatha) + "ب" + string(phonetic.Fatha) + "ب" + string(phonetic.Fatha)
	res := p.Run([]string{word})

	assert.False(t, res.Stationary.Converged)
	assert.Equal(t, 1, res.Stationary.Iterations)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "did not converge")
}

func TestRunEmptyCorpus(t *testing.T) {
	var logs bytes.Buffer
	p := New(newTestLogger(&logs), DefaultConfig())

	res := p.Run(nil)

	assert.Empty(t, res.Analyses)
	assert.Empty(t, res.Model.States)
	assert.True(t, res.Stationary.Converged)
	assert.Zero(t, res.Stationary.Size())
}

func TestRunUsesConfiguredInventory(t *testing.T) {
	var logs bytes.Buffer
	cfg := DefaultConfig()
	cfg.Inventory = phonetic.NewInventoryWithMarks("bt", "ai0*", '*', '0', 'a')
	p := New(newTestLogger(&logs), cfg)

	res := p.Run([]string{"b*it"})

	require.Len(t, res.Analyses, 1)
	assert.Equal(t, []string{phonetic.Start, "b0", "bi", "t", phonetic.End}, res.Analyses[0].States)
	assert.Same(t, cfg.Inventory, p.Tokenizer().Inventory())
}
