// Package frequency implements the lexical-frequency strategies: sentences
// and keywords scored by plain word counts over the document.
package frequency

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/infrastructure/nlp/ranking"
	"github.com/kirillkom/docdigest/internal/infrastructure/nlp/textutil"
)

type Summarizer struct{}

func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// Summarize scores each sentence by the mean normalised frequency of its
// content words, where frequencies are divided by the document maximum.
func (s *Summarizer) Summarize(sentences []domain.Sentence, k int) (domain.SummarySelection, error) {
	if k <= 0 {
		return domain.SummarySelection{}, domain.WrapError(domain.ErrInvalidInput, "summarize", fmt.Errorf("summary length must be positive, got %d", k))
	}
	if len(sentences) == 0 {
		return domain.SummarySelection{}, domain.Degenerate(domain.ErrSegmentationDegenerate, "summarize", "no sentences")
	}
	if len(sentences) <= k {
		return ranking.All(sentences), nil
	}

	words := make([][]string, len(sentences))
	freq := make(map[string]int)
	maxFreq := 0
	for i, sentence := range sentences {
		words[i] = textutil.ContentWords(sentence.Text)
		for _, w := range words[i] {
			freq[w]++
			maxFreq = max(maxFreq, freq[w])
		}
	}
	if maxFreq == 0 {
		return domain.SummarySelection{}, domain.Degenerate(domain.ErrSummarizationFailure, "score sentences", "empty vocabulary")
	}

	scores := make([]float64, len(sentences))
	for i, ws := range words {
		if len(ws) == 0 {
			continue
		}
		total := 0.0
		for _, w := range ws {
			total += float64(freq[w]) / float64(maxFreq)
		}
		scores[i] = total / float64(len(ws))
	}
	return ranking.TopK(sentences, scores, k), nil
}

type KeywordExtractor struct{}

func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

// Extract ranks candidate words by raw count; ties go to the earlier word.
func (e *KeywordExtractor) Extract(text string, topN int) ([]domain.Keyword, error) {
	if topN <= 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract keywords", fmt.Errorf("top keywords must be positive, got %d", topN))
	}

	type candidate struct {
		term  string
		count int
		first int
	}
	byTerm := make(map[string]*candidate)
	for _, tok := range textutil.Tokenize(text) {
		if !textutil.IsCandidate(tok.Lower) {
			continue
		}
		c, ok := byTerm[tok.Lower]
		if !ok {
			c = &candidate{term: tok.Lower, first: tok.Offset}
			byTerm[tok.Lower] = c
		}
		c.count++
	}
	if len(byTerm) == 0 {
		return nil, domain.Degenerate(domain.ErrKeywordFailure, "extract keywords", "no qualifying candidates")
	}

	ranked := make([]*candidate, 0, len(byTerm))
	for _, c := range byTerm {
		ranked = append(ranked, c)
	}
	slices.SortFunc(ranked, func(a, b *candidate) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.first, b.first)
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	out := make([]domain.Keyword, 0, len(ranked))
	for i, c := range ranked {
		out = append(out, domain.Keyword{Term: c.term, Score: float64(c.count), Rank: i + 1})
	}
	return out, nil
}
