// Package yake scores single-word keywords from statistical features of one
// document, in the spirit of YAKE!, with higher scores meaning more salient.
package yake

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/infrastructure/nlp/textutil"
)

const (
	defaultWindow = 2
	casingWeight  = 0.5
)

type Extractor struct {
	window int
}

func NewExtractor() *Extractor {
	return &Extractor{window: defaultWindow}
}

type termStats struct {
	term          string
	count         int
	firstOffset   int
	firstSentence int
	capitalized   int
	contexts      map[string]struct{}
}

// Extract computes for every candidate term:
//
//	frequency  1 + ln(tf)
//	position   1 / (1 + ln(1 + first sentence index))
//	diversity  1 + ln(1 + distinct neighbours within the window)
//	casing     1 + 0.5 * share of capitalised, non sentence-initial occurrences
//
// and ranks by their product, ties by first occurrence then term.
func (e *Extractor) Extract(text string, topN int) ([]domain.Keyword, error) {
	if topN <= 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract keywords", fmt.Errorf("top keywords must be positive, got %d", topN))
	}

	tokens := textutil.Tokenize(text)
	stats := make(map[string]*termStats)
	for i, tok := range tokens {
		if !textutil.IsCandidate(tok.Lower) {
			continue
		}
		st, ok := stats[tok.Lower]
		if !ok {
			st = &termStats{
				term:          tok.Lower,
				firstOffset:   tok.Offset,
				firstSentence: tok.Sentence,
				contexts:      make(map[string]struct{}),
			}
			stats[tok.Lower] = st
		}
		st.count++
		if isCapitalized(tok.Text) && !sentenceInitial(tokens, i) {
			st.capitalized++
		}
		e.collectContexts(st, tokens, i)
	}
	if len(stats) == 0 {
		return nil, domain.Degenerate(domain.ErrKeywordFailure, "extract keywords", "no qualifying candidates")
	}

	ranked := make([]domain.Keyword, 0, len(stats))
	first := make(map[string]int, len(stats))
	for term, st := range stats {
		ranked = append(ranked, domain.Keyword{Term: term, Score: score(st)})
		first[term] = st.firstOffset
	}
	slices.SortFunc(ranked, func(a, b domain.Keyword) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(first[a.Term], first[b.Term]); c != 0 {
			return c
		}
		return cmp.Compare(a.Term, b.Term)
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// collectContexts records the non-stopword neighbours of tokens[i] that share its sentence.
func (e *Extractor) collectContexts(st *termStats, tokens []textutil.Token, i int) {
	lo := max(0, i-e.window)
	hi := min(len(tokens)-1, i+e.window)
	for j := lo; j <= hi; j++ {
		if j == i || tokens[j].Sentence != tokens[i].Sentence {
			continue
		}
		neighbour := tokens[j].Lower
		if neighbour == st.term || textutil.IsStopword(neighbour) {
			continue
		}
		st.contexts[neighbour] = struct{}{}
	}
}

func score(st *termStats) float64 {
	frequency := 1 + math.Log(float64(st.count))
	position := 1 / (1 + math.Log(1+float64(st.firstSentence)))
	diversity := 1 + math.Log(1+float64(len(st.contexts)))
	casing := 1 + casingWeight*float64(st.capitalized)/float64(st.count)
	return frequency * position * diversity * casing
}

func isCapitalized(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func sentenceInitial(tokens []textutil.Token, i int) bool {
	return i == 0 || tokens[i-1].Sentence != tokens[i].Sentence
}
