package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/f3rmion/harakat/internal/fonts"
	"github.com/f3rmion/harakat/internal/markov"
)

// Heatmap titles for the two matrices.
const (
	TransitionTitle = "Transition Matrix (P)"
	StationaryTitle = "Stationary Matrix"
)

// HeatmapOptions tunes heatmap rendering.
type HeatmapOptions struct {
	FontPath string // Tried before the system font list
	MaxGrid  int    // Upper bound on the grid side in pixels, 0 means 3000
}

var (
	colorBackground = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorInk        = color.RGBA{0x00, 0x00, 0x00, 0xff}
	colorGridLine   = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}

	// Blues ramp: light, middle, dark.
	blueLight = color.RGBA{247, 251, 255, 0xff}
	blueMid   = color.RGBA{107, 174, 214, 0xff}
	blueDark  = color.RGBA{8, 48, 107, 0xff}
)

const (
	maxCell        = 56
	minCell        = 12
	annotateCell   = 40 // cells narrower than this get no numbers
	colorbarWidth  = 20
	margin         = 16
	defaultMaxGrid = 3000
)

// heatmapLayout holds the pixel geometry of a rendered heatmap.
type heatmapLayout struct {
	n        int
	cell     int
	gridX    int // left edge of the grid
	gridY    int // top edge of the grid
	width    int
	height   int
	barX     int
	maxValue float64
}

func (hl heatmapLayout) cellRect(i, j int) image.Rectangle {
	x := hl.gridX + j*hl.cell
	y := hl.gridY + i*hl.cell
	return image.Rect(x, y, x+hl.cell, y+hl.cell)
}

type heatmapFaces struct {
	title, label, value font.Face
}

func (f heatmapFaces) Close() {
	f.title.Close()
	f.label.Close()
	f.value.Close()
}

// RenderHeatmap draws the matrix as a grid of blue cells, labelled with the
// state names, with four-decimal annotations on non-zero cells.
func RenderHeatmap(l *markov.Labeled, title string, opts HeatmapOptions) (*image.RGBA, error) {
	fnt, err := fonts.Find(opts.FontPath)
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}

	hl := newLayout(l, opts)
	faces, err := buildFaces(fnt, hl.cell)
	if err != nil {
		return nil, fmt.Errorf("creating font face: %w", err)
	}
	defer faces.Close()

	labelWidth := 0
	for _, s := range l.States {
		if w := font.MeasureString(faces.label, s).Ceil(); w > labelWidth {
			labelWidth = w
		}
	}
	titleHeight := faces.title.Metrics().Height.Ceil()
	labelHeight := faces.label.Metrics().Height.Ceil()

	hl.gridX = margin + labelWidth + margin/2
	hl.gridY = margin + titleHeight + margin + labelHeight + margin/2
	hl.barX = hl.gridX + hl.n*hl.cell + margin
	hl.width = hl.barX + colorbarWidth + margin + font.MeasureString(faces.label, "0.0000").Ceil() + margin
	hl.height = hl.gridY + hl.n*hl.cell + margin + labelHeight + margin

	img := image.NewRGBA(image.Rect(0, 0, hl.width, hl.height))
	draw.Draw(img, img.Bounds(), &image.Uniform{colorBackground}, image.Point{}, draw.Src)

	// Title
	tw := font.MeasureString(faces.title, title).Ceil()
	drawText(img, faces.title, title, (hl.width-tw)/2, margin+faces.title.Metrics().Ascent.Ceil(), colorInk)

	labelAscent := faces.label.Metrics().Ascent.Ceil()
	for k, s := range l.States {
		w := font.MeasureString(faces.label, s).Ceil()
		// Column label above the grid, row label to its left.
		colX := hl.gridX + k*hl.cell + (hl.cell-w)/2
		drawText(img, faces.label, s, colX, hl.gridY-margin/2-labelHeight+labelAscent, colorInk)
		rowY := hl.gridY + k*hl.cell + (hl.cell-labelHeight)/2 + labelAscent
		drawText(img, faces.label, s, hl.gridX-margin/2-w, rowY, colorInk)
	}

	valueAscent := faces.value.Metrics().Ascent.Ceil()
	valueHeight := faces.value.Metrics().Height.Ceil()
	for i := 0; i < hl.n; i++ {
		for j := 0; j < hl.n; j++ {
			v := l.At(i, j)
			r := hl.cellRect(i, j)
			draw.Draw(img, r, &image.Uniform{blues(v / hl.maxValue)}, image.Point{}, draw.Src)
			outline(img, r, colorGridLine)

			if v > 0 && hl.cell >= annotateCell {
				text := fmt.Sprintf("%.4f", v)
				w := font.MeasureString(faces.value, text).Ceil()
				ink := colorInk
				if v >= 0.5 {
					ink = colorBackground
				}
				drawText(img, faces.value, text, r.Min.X+(hl.cell-w)/2, r.Min.Y+(hl.cell-valueHeight)/2+valueAscent, ink)
			}
		}
	}

	drawColorbar(img, hl, faces.label)

	caption := "rows: current state, columns: next state"
	drawText(img, faces.label, caption, hl.gridX, hl.gridY+hl.n*hl.cell+margin+labelAscent, colorInk)

	return img, nil
}

// SaveHeatmap renders the matrix and writes it as a PNG file.
func SaveHeatmap(path string, l *markov.Labeled, title string, opts HeatmapOptions) error {
	img, err := RenderHeatmap(l, title, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return f.Close()
}

func newLayout(l *markov.Labeled, opts HeatmapOptions) heatmapLayout {
	maxGrid := opts.MaxGrid
	if maxGrid <= 0 {
		maxGrid = defaultMaxGrid
	}

	hl := heatmapLayout{n: l.Size(), cell: maxCell, maxValue: 0}
	if hl.n > 0 {
		hl.cell = max(minCell, min(maxCell, maxGrid/hl.n))
	}
	for i := 0; i < hl.n; i++ {
		for _, v := range l.Row(i) {
			hl.maxValue = max(hl.maxValue, v)
		}
	}
	if hl.maxValue == 0 {
		hl.maxValue = 1
	}
	return hl
}

func buildFaces(fnt *opentype.Font, cell int) (heatmapFaces, error) {
	var faces heatmapFaces
	var err error

	if faces.title, err = fonts.NewFace(fnt, 20); err != nil {
		return faces, err
	}
	labelSize := max(8, min(14, float64(cell)/3.5))
	if faces.label, err = fonts.NewFace(fnt, labelSize); err != nil {
		faces.title.Close()
		return faces, err
	}
	valueSize := max(6, min(10, float64(cell)/5))
	if faces.value, err = fonts.NewFace(fnt, valueSize); err != nil {
		faces.title.Close()
		faces.label.Close()
		return faces, err
	}
	return faces, nil
}

func drawColorbar(img *image.RGBA, hl heatmapLayout, face font.Face) {
	height := max(hl.n*hl.cell, 2*minCell)
	for y := 0; y < height; y++ {
		// Top of the bar is the largest value.
		frac := 1 - float64(y)/float64(height-1)
		r := image.Rect(hl.barX, hl.gridY+y, hl.barX+colorbarWidth, hl.gridY+y+1)
		draw.Draw(img, r, &image.Uniform{blues(frac)}, image.Point{}, draw.Src)
	}
	outline(img, image.Rect(hl.barX, hl.gridY, hl.barX+colorbarWidth, hl.gridY+height), colorInk)

	ascent := face.Metrics().Ascent.Ceil()
	textX := hl.barX + colorbarWidth + margin/2
	drawText(img, face, fmt.Sprintf("%.4f", hl.maxValue), textX, hl.gridY+ascent, colorInk)
	drawText(img, face, "0", textX, hl.gridY+height, colorInk)
}

func drawText(img *image.RGBA, face font.Face, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func outline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}

// blues maps t in [0,1] onto the light-to-dark blue ramp.
func blues(t float64) color.RGBA {
	t = max(0, min(1, t))
	if t < 0.5 {
		return lerp(blueLight, blueMid, t*2)
	}
	return lerp(blueMid, blueDark, (t-0.5)*2)
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 0xff}
}
