// Package ranking selects summary sentences from per-sentence scores.
package ranking

import (
	"cmp"
	"slices"

	"github.com/kirillkom/docdigest/internal/core/domain"
)

// All returns every sentence unscored, in original order.
func All(sentences []domain.Sentence) domain.SummarySelection {
	members := make([]domain.ScoredSentence, 0, len(sentences))
	for _, s := range sentences {
		members = append(members, domain.ScoredSentence{Sentence: s})
	}
	return domain.SummarySelection{Members: members}
}

// TopK keeps the k best-scored sentences, ties broken by lower position, and
// returns them in original document order. scores[i] belongs to sentences[i].
func TopK(sentences []domain.Sentence, scores []float64, k int) domain.SummarySelection {
	ranked := make([]domain.ScoredSentence, len(sentences))
	for i, s := range sentences {
		ranked[i] = domain.ScoredSentence{Sentence: s, Score: scores[i]}
	}

	slices.SortStableFunc(ranked, func(a, b domain.ScoredSentence) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Position, b.Position)
	})
	if k < len(ranked) {
		ranked = ranked[:k]
	}

	slices.SortFunc(ranked, func(a, b domain.ScoredSentence) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return domain.SummarySelection{Members: ranked, Scored: true}
}
