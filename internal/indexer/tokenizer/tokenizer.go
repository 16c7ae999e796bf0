// Package tokenizer splits extracted page text into words. A word is a maximal
// run of Unicode letters and digits, plus any combining marks that follow
// them; every word is reported with the byte
// offset at which it starts in the original text so offsets stay valid slice
// boundaries for multi-byte input.
package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Token is a single normalised word and the byte offset of its first byte in
// the source text.
type Token struct {
	Term   string
	Offset int
}

// Tokenize returns every word in text in order of appearance.
func Tokenize(text string) []Token {
	tokens := make([]Token, 0, len(text)/6)
	start := -1
	for i, r := range text {
		if isWordRune(r) || (start >= 0 && isMark(r)) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = appendToken(tokens, text[start:i], start)
			start = -1
		}
	}
	if start >= 0 {
		tokens = appendToken(tokens, text[start:], start)
	}
	return tokens
}

// Normalize applies the same normalisation used at indexing time: surrounding
// whitespace is trimmed, the word is lower-cased and composed to NFC so that
// precomposed and decomposed accents index under one term.
func Normalize(word string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(word)))
}

// WordEnd returns the byte offset just past the word that starts at offset,
// using the same word rule as Tokenize. It returns offset when no word starts
// there and len(text) when offset is past the end.
func WordEnd(text string, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset >= len(text) {
		return len(text)
	}
	end := offset
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(r) && (end == offset || !isMark(r)) {
			break
		}
		end += size
	}
	return end
}

func appendToken(tokens []Token, word string, offset int) []Token {
	term := Normalize(word)
	if term == "" {
		return tokens
	}
	return append(tokens, Token{Term: term, Offset: offset})
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
