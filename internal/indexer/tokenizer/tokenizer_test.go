package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeOffsets(t *testing.T) {
	text := "Sam works at Acme"
	got := Tokenize(text)

	assert.Equal(t, []Token{
		{Term: "sam", Offset: 0},
		{Term: "works", Offset: 4},
		{Term: "at", Offset: 10},
		{Term: "acme", Offset: 13},
	}, got)
}

func TestTokenizePunctuationAndDigits(t *testing.T) {
	got := Tokenize("  (v2.0) -- Hello,world!\n42")

	terms := make([]string, len(got))
	for i, tok := range got {
		terms[i] = tok.Term
	}
	assert.Equal(t, []string{"v2", "0", "hello", "world", "42"}, terms)
	assert.Equal(t, 3, got[0].Offset)
}

func TestTokenizeMultiByte(t *testing.T) {
	text := "café Über naïve"
	got := Tokenize(text)

	if assert.Len(t, got, 3) {
		assert.Equal(t, "café", got[0].Term)
		assert.Equal(t, "über", got[1].Term)
		assert.Equal(t, len("café "), got[1].Offset)
		assert.Equal(t, len("café Über "), got[2].Offset)
	}
	for _, tok := range got {
		assert.Equal(t, tok.Term, Normalize(text[tok.Offset:WordEnd(text, tok.Offset)]))
	}
}

func TestTokenizeEmpty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize(" \n\t.,;"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "sam", Normalize("  SAM\n"))
	assert.Equal(t, "", Normalize("   "))
}

func TestWordEnd(t *testing.T) {
	text := "Sam works at Acme"
	assert.Equal(t, 3, WordEnd(text, 0))
	assert.Equal(t, 17, WordEnd(text, 13))
	assert.Equal(t, 17, WordEnd(text, 14))
	assert.Equal(t, 9, WordEnd(text, 4))
	assert.Equal(t, 3, WordEnd(text, 3), "no word starts at a space")
	assert.Equal(t, len(text), WordEnd(text, 40))
	assert.Equal(t, 0, WordEnd(text, -2))
}

func TestCombiningMarksStayInWord(t *testing.T) {
	decomposed := "cafe\u0301 au lait"
	got := Tokenize(decomposed)

	if assert.Len(t, got, 3) {
		assert.Equal(t, "café", got[0].Term)
		assert.Equal(t, len("cafe\u0301"), WordEnd(decomposed, 0))
	}
	assert.Empty(t, Tokenize("\u0301\u0301"), "a mark alone is not a word")
	assert.Equal(t, "\u0301", decomposed[4:6], "decomposed accent stays in the source text")
}
