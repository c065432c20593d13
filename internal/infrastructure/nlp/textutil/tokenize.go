// Package textutil holds the tokenizer and stopword list shared by the
// summarizers and keyword extractors.
package textutil

import (
	"strings"
	"unicode"
)

// Token is a word-like run of letters and digits.
type Token struct {
	Text     string // original casing
	Lower    string
	Sentence int // index of the enclosing sentence, counted on terminal punctuation
	Offset   int // token index within the whole text
}

// Tokenize splits s into alphanumeric tokens and tracks sentence boundaries
// on '.', '!' and '?' so callers do not depend on a separate segmenter.
func Tokenize(s string) []Token {
	if s == "" {
		return nil
	}

	out := make([]Token, 0, len(s)/6+1)
	var b strings.Builder
	sentence := 0
	pendingBoundary := false

	emit := func() {
		if b.Len() == 0 {
			return
		}
		if pendingBoundary {
			sentence++
			pendingBoundary = false
		}
		text := b.String()
		out = append(out, Token{
			Text:     text,
			Lower:    strings.ToLower(text),
			Sentence: sentence,
			Offset:   len(out),
		})
		b.Reset()
	}

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		emit()
		if (r == '.' || r == '!' || r == '?') && len(out) > 0 {
			pendingBoundary = true
		}
	}
	emit()
	return out
}

// Words returns the lowercase tokens of s.
func Words(s string) []string {
	tokens := Tokenize(s)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Lower)
	}
	return out
}

// ContentWords returns the lowercase tokens of s that are not stopwords.
func ContentWords(s string) []string {
	tokens := Tokenize(s)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if IsStopword(tok.Lower) {
			continue
		}
		out = append(out, tok.Lower)
	}
	return out
}

// IsNumeric reports whether the token consists of digits only.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
