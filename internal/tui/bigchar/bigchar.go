// Package bigchar renders a phonetic unit as large block art using half-block characters.
package bigchar

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/f3rmion/harakat/internal/fonts"
)

const (
	faceSize  = 64
	padding   = 4
	minSource = 64
	threshold = 40 // gray level above which a half cell is lit
)

// Renderer draws text with one font face. It caches what it renders and is
// safe for concurrent use.
type Renderer struct {
	face font.Face

	mu    sync.Mutex
	cache map[string]string
}

// New creates a renderer over f.
func New(f *opentype.Font) (*Renderer, error) {
	face, err := fonts.NewFace(f, faceSize)
	if err != nil {
		return nil, err
	}
	return &Renderer{face: face, cache: make(map[string]string)}, nil
}

var (
	defaultOnce     sync.Once
	defaultRenderer *Renderer
)

// Default returns a renderer over the first installed system font, nil when
// there is none. Go Regular is not used here since it lacks Arabic glyphs.
func Default() *Renderer {
	defaultOnce.Do(func() {
		f, err := fonts.System("")
		if err != nil {
			return
		}
		defaultRenderer, _ = New(f)
	})
	return defaultRenderer
}

// Render draws text scaled into cols x rows terminal cells. A nil renderer
// renders nothing.
func (r *Renderer) Render(text string, cols, rows int) string {
	if r == nil || text == "" || cols <= 0 || rows <= 0 {
		return ""
	}

	key := fmt.Sprintf("%s/%d/%d", text, cols, rows)
	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.cache[key]; ok {
		return cached
	}

	out := imageToHalfBlocks(scaleDown(r.draw(text), cols, rows*2), cols, rows)
	r.cache[key] = out
	return out
}

// draw renders text white on black, centred with some padding. Marks above
// and below the letter widen the bounds, so they are kept in frame.
func (r *Renderer) draw(text string) *image.Gray {
	bounds, _ := font.BoundString(r.face, text)
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()

	srcWidth := max(w+padding*2, minSource)
	srcHeight := max(h+padding*2, minSource)

	img := image.NewGray(image.Rect(0, 0, srcWidth, srcHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	x := (srcWidth-w)/2 - bounds.Min.X.Floor()
	y := (srcHeight-h)/2 - bounds.Min.Y.Floor()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
	return img
}

// scaleDown scales a grayscale image using area averaging
func scaleDown(src *image.Gray, dstWidth, dstHeight int) *image.Gray {
	srcWidth := src.Bounds().Dx()
	srcHeight := src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, dstWidth, dstHeight))

	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for dy := 0; dy < dstHeight; dy++ {
		for dx := 0; dx < dstWidth; dx++ {
			sx1 := int(float64(dx) * xRatio)
			sy1 := int(float64(dy) * yRatio)
			sx2 := min(int(float64(dx+1)*xRatio), srcWidth)
			sy2 := min(int(float64(dy+1)*yRatio), srcHeight)

			var sum, count int
			for sy := sy1; sy < sy2; sy++ {
				for sx := sx1; sx < sx2; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					count++
				}
			}
			if count > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / count)})
			}
		}
	}
	return dst
}

// imageToHalfBlocks maps each pair of vertical pixels to one of ▀▄█ or a space.
func imageToHalfBlocks(img *image.Gray, cols, rows int) string {
	lit := func(x, y int) bool {
		if x >= img.Bounds().Max.X || y >= img.Bounds().Max.Y {
			return false
		}
		return img.GrayAt(x, y).Y > threshold
	}

	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top, bottom := lit(col, row*2), lit(col, row*2+1)
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		if row < rows-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}
