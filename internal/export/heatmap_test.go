package export

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/harakat/internal/markov"
)

func TestBlues(t *testing.T) {
	assert.Equal(t, blueLight, blues(0))
	assert.Equal(t, blueMid, blues(0.5))
	assert.Equal(t, blueDark, blues(1))
	assert.Equal(t, blueLight, blues(-3))
	assert.Equal(t, blueDark, blues(7))
}

func TestNewLayout(t *testing.T) {
	small := markov.NewLabeled([]string{"a", "b"}, []float64{0, 0.4, 0, 0})
	hl := newLayout(small, HeatmapOptions{})
	assert.Equal(t, maxCell, hl.cell)
	assert.Equal(t, 0.4, hl.maxValue)

	states := make([]string, 100)
	for i := range states {
		states[i] = string(rune('A' + i%26))
	}
	big := markov.NewLabeled(states, make([]float64, 100*100))
	hl = newLayout(big, HeatmapOptions{MaxGrid: 500})
	assert.Equal(t, minCell, hl.cell)
	assert.Equal(t, 1.0, hl.maxValue)
}

func TestRenderHeatmap(t *testing.T) {
	l := markov.NewLabeled([]string{"END", "START", "x"}, []float64{
		0, 0, 0,
		0, 0, 1,
		1, 0, 0,
	})

	img, err := RenderHeatmap(l, TransitionTitle, HeatmapOptions{})
	require.NoError(t, err)

	hl := newLayout(l, HeatmapOptions{})
	b := img.Bounds()
	assert.Greater(t, b.Dx(), 3*hl.cell)
	assert.Greater(t, b.Dy(), 3*hl.cell)

	// Corners of a zero cell take the lightest shade, a full cell the darkest.
	white := color.RGBA{0xff, 0xff, 0xff, 0xff}
	assert.Equal(t, white, img.RGBAAt(0, 0))

	var zero, full bool
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			switch img.RGBAAt(x, y) {
			case blueLight:
				zero = true
			case blueDark:
				full = true
			}
		}
	}
	assert.True(t, zero, "no empty cell drawn")
	assert.True(t, full, "no saturated cell drawn")
}

func TestSaveHeatmap(t *testing.T) {
	m := markov.Estimate(scenarioAnalyses())
	path := filepath.Join(t.TempDir(), "transition.png")

	require.NoError(t, SaveHeatmap(path, m.Labeled(), TransitionTitle, HeatmapOptions{}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 6*minCell)
}

func TestSaveHeatmapEmptyMatrix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, SaveHeatmap(path, markov.NewLabeled(nil, nil), StationaryTitle, HeatmapOptions{}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
