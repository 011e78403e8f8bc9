package phonetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ba  = "ب"
	ta  = "ت"
	mim = "م"
)

func unit(letter string, mark rune) string {
	return letter + string(mark)
}

func TestSegment(t *testing.T) {
	tok := NewTokenizer(nil)

	tests := []struct {
		name       string
		word       string
		wantUnits  []string
		wantMarks  []string
		wantLetter []string
	}{
		{
			name:       "bare letter",
			word:       ba,
			wantUnits:  []string{ba},
			wantMarks:  []string{""},
			wantLetter: []string{ba},
		},
		{
			name:       "letter with vowel",
			word:       unit(ba, Kasra) + unit(ta, Sukun),
			wantUnits:  []string{unit(ba, Kasra), unit(ta, Sukun)},
			wantMarks:  []string{string(Kasra), string(Sukun)},
			wantLetter: []string{ba, ta},
		},
		{
			name:       "gemination then vowel",
			word:       ba + string(Shadda) + string(Fatha),
			wantUnits:  []string{unit(ba, Sukun), unit(ba, Fatha)},
			wantMarks:  []string{string(Sukun), string(Fatha)},
			wantLetter: []string{ba},
		},
		{
			name:       "gemination then damma",
			word:       ba + string(Shadda) + string(Damma),
			wantUnits:  []string{unit(ba, Sukun), unit(ba, Damma)},
			wantMarks:  []string{string(Sukun), string(Damma)},
			wantLetter: []string{ba},
		},
		{
			name:       "gemination without vowel defaults to fatha",
			word:       ba + string(Shadda),
			wantUnits:  []string{unit(ba, Sukun), unit(ba, Fatha)},
			wantMarks:  []string{string(Sukun), string(Fatha)},
			wantLetter: []string{ba},
		},
		{
			name:       "gemination followed by a letter",
			word:       ba + string(Shadda) + ta,
			wantUnits:  []string{unit(ba, Sukun), unit(ba, Fatha), ta},
			wantMarks:  []string{string(Sukun), string(Fatha), ""},
			wantLetter: []string{ba, ta},
		},
		{
			name:       "doubled gemination mark is taken as the vowel",
			word:       ba + string(Shadda) + string(Shadda),
			wantUnits:  []string{unit(ba, Sukun), unit(ba, Shadda)},
			wantMarks:  []string{string(Sukun), string(Shadda)},
			wantLetter: []string{ba},
		},
		{
			name:       "vowel before gemination attaches the vowel only",
			word:       ba + string(Fathatan) + string(Shadda),
			wantUnits:  []string{unit(ba, Fathatan)},
			wantMarks:  []string{string(Fathatan)},
			wantLetter: []string{ba},
		},
		{
			name:       "leading mark is dropped",
			word:       string(Fatha) + ba,
			wantUnits:  []string{ba},
			wantMarks:  []string{""},
			wantLetter: []string{ba},
		},
		{
			name:       "punctuation is skipped",
			word:       ba + "،" + ta + "!",
			wantUnits:  []string{ba, ta},
			wantMarks:  []string{"", ""},
			wantLetter: []string{ba, ta},
		},
		{
			name:       "latin only",
			word:       "abc",
			wantUnits:  []string{},
			wantMarks:  []string{},
			wantLetter: []string{},
		},
		{
			name:       "empty word",
			word:       "",
			wantUnits:  []string{},
			wantMarks:  []string{},
			wantLetter: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tok.Segment(tt.word)

			require.GreaterOrEqual(t, len(a.States), 2)
			assert.Equal(t, Start, a.States[0])
			assert.Equal(t, End, a.States[len(a.States)-1])
			assert.Equal(t, tt.wantUnits, append([]string{}, a.Units()...))
			assert.Equal(t, tt.wantMarks, a.Diacritics)
			assert.Equal(t, tt.wantLetter, a.Letters)
			assert.Len(t, a.States, len(a.Diacritics)+2)
		})
	}
}

func TestSegmentDoubledGemination(t *testing.T) {
	a := NewTokenizer(nil).Segment(ba + string(Shadda) + string(Shadda))
	assert.Equal(t, []string{Start, unit(ba, Sukun), unit(ba, Shadda), End}, a.States)
}

func TestSegmentIsDeterministic(t *testing.T) {
	tok := NewTokenizer(nil)
	word := unit(mim, Damma) + ba + string(Shadda) + string(Kasra) + unit(ta, Sukun)

	first := tok.Segment(word)
	second := tok.Segment(word)
	assert.Equal(t, first, second)
}

func TestSegmentAllSkipsBlankWords(t *testing.T) {
	tok := NewTokenizer(nil)

	analyses := tok.SegmentAll([]string{ba, "  ", "", unit(ta, Fatha)})
	require.Len(t, analyses, 2)
	assert.Equal(t, ba, analyses[0].Word)
	assert.Equal(t, []string{Start, unit(ta, Fatha), End}, analyses[1].States)
}

func TestCustomInventory(t *testing.T) {
	// Latin stand-ins: '*' geminates, '0' is vowelless, 'a' is the default vowel.
	inv := NewInventoryWithMarks("bt", "ai0*", '*', '0', 'a')
	tok := NewTokenizer(inv)

	a := tok.Segment("b*it")
	assert.Equal(t, []string{Start, "b0", "bi", "t", End}, a.States)

	a = tok.Segment("b*")
	assert.Equal(t, []string{Start, "b0", "ba", End}, a.States)
}

func TestInventoryMembership(t *testing.T) {
	inv := DefaultInventory()

	for _, r := range DefaultLetters {
		assert.True(t, inv.IsLetter(r), "letter %q", r)
		assert.False(t, inv.IsDiacritic(r), "letter %q", r)
	}
	for _, r := range DefaultDiacritics {
		assert.True(t, inv.IsDiacritic(r), "mark %U", r)
		assert.False(t, inv.IsLetter(r), "mark %U", r)
	}

	assert.True(t, inv.IsGemination(Shadda))
	assert.False(t, inv.IsGemination(Fatha))
	assert.Equal(t, Sukun, inv.Vowelless())
	assert.Equal(t, Fatha, inv.DefaultVowel())
	assert.False(t, inv.IsLetter('x'))
	assert.Len(t, []rune(inv.Diacritics()), 9)
	assert.Len(t, []rune(inv.Letters()), len([]rune(DefaultLetters)))
}

func TestMarkName(t *testing.T) {
	assert.Equal(t, "fatha", MarkName(Fatha))
	assert.Equal(t, "shadda", MarkName(Shadda))
	assert.Equal(t, "superscript alef", MarkName(SuperscriptAlef))
	assert.Equal(t, "U+0654", MarkName('\u0654'))
}
