// Package phonetic segments diacritized Arabic words into phonetic units.
package phonetic

import (
	"fmt"
	"maps"
	"slices"
)

// Diacritic marks (tachkil) recognised by the default inventory.
const (
	Fatha           rune = '\u064E' // short a
	Fathatan        rune = '\u064B' // tanwin a
	Damma           rune = '\u064F' // short u
	Dammatan        rune = '\u064C' // tanwin u
	Kasra           rune = '\u0650' // short i
	Kasratan        rune = '\u064D' // tanwin i
	Sukun           rune = '\u0652' // no vowel
	Shadda          rune = '\u0651' // gemination
	SuperscriptAlef rune = '\u0670' // dagger alef
)

var markNames = map[rune]string{
	Fatha:           "fatha",
	Fathatan:        "fathatan",
	Damma:           "damma",
	Dammatan:        "dammatan",
	Kasra:           "kasra",
	Kasratan:        "kasratan",
	Sukun:           "sukun",
	Shadda:          "shadda",
	SuperscriptAlef: "superscript alef",
}

// MarkName returns the conventional name of a diacritic, or its code point
// for marks outside the default set.
func MarkName(r rune) string {
	if name, ok := markNames[r]; ok {
		return name
	}
	return fmt.Sprintf("%U", r)
}

// Sentinel units bounding every word.
const (
	Start = "START"
	End   = "END"
)

// DefaultLetters is the base letter inventory, hamza carriers included.
const DefaultLetters = "ابتةثجحخدذرزسشصضطظعغفقكلمنهويءآأؤإئ"

// DefaultDiacritics lists every mark of the default inventory, gemination included.
const DefaultDiacritics = "\u064E\u064B\u064F\u064C\u0650\u064D\u0652\u0651\u0670"

// Inventory is an immutable set of letters and diacritic marks.
type Inventory struct {
	letters    map[rune]struct{}
	diacritics map[rune]struct{}

	gemination   rune
	vowelless    rune
	defaultVowel rune
}

// NewInventory builds an inventory from letter and diacritic strings.
// The gemination, vowelless and default-vowel marks are Shadda, Sukun and Fatha.
func NewInventory(letters, diacritics string) *Inventory {
	return NewInventoryWithMarks(letters, diacritics, Shadda, Sukun, Fatha)
}

// NewInventoryWithMarks builds an inventory with explicit special marks.
func NewInventoryWithMarks(letters, diacritics string, gemination, vowelless, defaultVowel rune) *Inventory {
	inv := &Inventory{
		letters:      make(map[rune]struct{}),
		diacritics:   make(map[rune]struct{}),
		gemination:   gemination,
		vowelless:    vowelless,
		defaultVowel: defaultVowel,
	}
	for _, r := range letters {
		inv.letters[r] = struct{}{}
	}
	for _, r := range diacritics {
		inv.diacritics[r] = struct{}{}
	}
	return inv
}

// DefaultInventory returns the standard Arabic inventory.
func DefaultInventory() *Inventory {
	return NewInventory(DefaultLetters, DefaultDiacritics)
}

// IsLetter reports whether r is a recognised letter.
func (inv *Inventory) IsLetter(r rune) bool {
	_, ok := inv.letters[r]
	return ok
}

// IsDiacritic reports whether r is a recognised diacritic mark.
// The gemination mark counts as a diacritic.
func (inv *Inventory) IsDiacritic(r rune) bool {
	_, ok := inv.diacritics[r]
	return ok
}

// IsGemination reports whether r is the gemination mark.
func (inv *Inventory) IsGemination(r rune) bool {
	return r == inv.gemination
}

// Gemination returns the gemination mark.
func (inv *Inventory) Gemination() rune { return inv.gemination }

// Vowelless returns the mark emitted for the first half of a geminated letter.
func (inv *Inventory) Vowelless() rune { return inv.vowelless }

// DefaultVowel returns the vowel assumed when gemination has no following mark.
func (inv *Inventory) DefaultVowel() rune { return inv.defaultVowel }

// Letters returns the letters in code point order.
func (inv *Inventory) Letters() string {
	return sortedRunes(inv.letters)
}

// Diacritics returns the diacritic marks in code point order.
func (inv *Inventory) Diacritics() string {
	return sortedRunes(inv.diacritics)
}

func sortedRunes(set map[rune]struct{}) string {
	return string(slices.Sorted(maps.Keys(set)))
}
