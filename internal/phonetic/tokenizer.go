package phonetic

import "strings"

// Analysis is the segmentation of a single word.
type Analysis struct {
	Word       string   `json:"word"`
	Letters    []string `json:"letters"`    // Letters in reading order, marks excluded
	Diacritics []string `json:"diacritics"` // One mark per emitted unit, "" for a bare letter
	States     []string `json:"states"`     // START, units..., END
}

// Units returns the states without the sentinels.
func (a Analysis) Units() []string {
	if len(a.States) < 2 {
		return nil
	}
	return a.States[1 : len(a.States)-1]
}

// Tokenizer splits words into letter+mark units.
type Tokenizer struct {
	inv *Inventory
}

// NewTokenizer creates a tokenizer over the given inventory.
// A nil inventory selects DefaultInventory.
func NewTokenizer(inv *Inventory) *Tokenizer {
	if inv == nil {
		inv = DefaultInventory()
	}
	return &Tokenizer{inv: inv}
}

// Inventory returns the tokenizer's inventory.
func (t *Tokenizer) Inventory() *Inventory {
	return t.inv
}

// noRune marks a lookahead past the end of the word.
const noRune rune = -1

// Segment scans word left to right and emits one unit per letter, two for a
// geminated letter. Characters outside the inventory are skipped, which also
// drops any mark that has no letter to attach to.
func (t *Tokenizer) Segment(word string) Analysis {
	runes := []rune(word)
	a := Analysis{
		Word:       word,
		Letters:    []string{},
		Diacritics: []string{},
		States:     []string{Start},
	}

	emit := func(letter, mark rune) {
		if mark == noRune {
			a.States = append(a.States, string(letter))
			a.Diacritics = append(a.Diacritics, "")
			return
		}
		a.States = append(a.States, string(letter)+string(mark))
		a.Diacritics = append(a.Diacritics, string(mark))
	}

	lookahead := func(i int) rune {
		if i < len(runes) {
			return runes[i]
		}
		return noRune
	}

	for i := 0; i < len(runes); {
		r := runes[i]
		if !t.inv.IsLetter(r) {
			i++
			continue
		}
		a.Letters = append(a.Letters, string(r))

		next := lookahead(i + 1)
		switch {
		case t.inv.IsGemination(next):
			// A geminated letter is a vowelless copy followed by the voweled one.
			// Any diacritic counts as the vowel here, a second shadda included.
			vowel, step := t.inv.DefaultVowel(), 2
			if after := lookahead(i + 2); t.inv.IsDiacritic(after) {
				vowel, step = after, 3
			}
			emit(r, t.inv.Vowelless())
			emit(r, vowel)
			i += step
		case t.inv.IsDiacritic(next):
			emit(r, next)
			i += 2
		default:
			emit(r, noRune)
			i++
		}
	}

	a.States = append(a.States, End)
	return a
}

// SegmentAll segments every non-blank word, preserving order.
func (t *Tokenizer) SegmentAll(words []string) []Analysis {
	analyses := make([]Analysis, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w) == "" {
			continue
		}
		analyses = append(analyses, t.Segment(w))
	}
	return analyses
}
