// Package fonts locates a system font with Arabic coverage for rendering
// state labels, with Go Regular as the last resort.
package fonts

import (
	"errors"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// ErrNotFound is returned when no system font could be loaded.
var ErrNotFound = errors.New("no system font found")

// SystemPaths lists fonts that cover both Arabic and Latin, most preferred first.
var SystemPaths = []string{
	// Linux
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansArabic-Regular.ttf",
	"/usr/share/fonts/truetype/freefont/FreeSans.ttf",
	// macOS
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	"/System/Library/Fonts/Supplemental/Tahoma.ttf",
	"/System/Library/Fonts/GeezaPro.ttc",
	// Windows
	"C:\\Windows\\Fonts\\tahoma.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
}

// Load parses a font file. Collections yield their first font.
func Load(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		return coll.Font(0)
	}
	return opentype.Parse(data)
}

// System returns the first loadable font among override (when set) and
// SystemPaths.
func System(override string) (*opentype.Font, error) {
	paths := SystemPaths
	if override != "" {
		paths = append([]string{override}, SystemPaths...)
	}
	for _, path := range paths {
		if f, err := Load(path); err == nil {
			return f, nil
		}
	}
	return nil, ErrNotFound
}

// Fallback returns the embedded Go Regular font. It has no Arabic glyphs.
func Fallback() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
}

// Find is System with Fallback when nothing is installed.
func Find(override string) (*opentype.Font, error) {
	if f, err := System(override); err == nil {
		return f, nil
	}
	return Fallback()
}

// NewFace creates a face at size points for 72 DPI output.
func NewFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
