package segment

import (
	"strings"
	"unicode"

	"github.com/kirillkom/docdigest/internal/core/domain"
)

// Splitter cuts text after '.', '!' or '?' when the next rune is whitespace.
// Abbreviations, decimals and quoted punctuation are not special-cased, so
// "Dr. Smith" yields two sentences.
type Splitter struct{}

func NewSplitter() *Splitter {
	return &Splitter{}
}

func (s *Splitter) Segment(text string) []domain.Sentence {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	out := make([]domain.Sentence, 0, len(runes)/60+1)
	appendFragment := func(fragment []rune) {
		sentence := strings.TrimSpace(string(fragment))
		if sentence == "" {
			return
		}
		out = append(out, domain.Sentence{Position: len(out), Text: sentence})
	}

	start := 0
	for i := 0; i < len(runes)-1; i++ {
		if !isTerminal(runes[i]) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		appendFragment(runes[start : i+1])
		start = i + 1
	}
	appendFragment(runes[start:])
	return out
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
