// Package nlp selects the summarization and keyword strategies by name.
package nlp

import (
	"fmt"
	"strings"

	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/core/ports"
	"github.com/kirillkom/docdigest/internal/infrastructure/nlp/frequency"
	"github.com/kirillkom/docdigest/internal/infrastructure/nlp/lexrank"
	"github.com/kirillkom/docdigest/internal/infrastructure/nlp/yake"
)

const (
	SummaryLexRank   = "lexrank"
	SummaryFrequency = "frequency"
	KeywordYAKE      = "yake"
	KeywordFrequency = "frequency"
)

// NewSummarizer validates both names up front, so a bad centrality is
// reported even when the selected strategy does not use it.
func NewSummarizer(strategy, centrality string) (ports.Summarizer, error) {
	c, err := parseCentrality(centrality)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", SummaryLexRank:
		return lexrank.NewSummarizer(c), nil
	case SummaryFrequency:
		return frequency.NewSummarizer(), nil
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "select summarizer", fmt.Errorf("unknown strategy %q", strategy))
	}
}

func parseCentrality(name string) (lexrank.Centrality, error) {
	switch c := lexrank.Centrality(strings.ToLower(strings.TrimSpace(name))); c {
	case "", lexrank.CentralityDegree, lexrank.CentralityEigenvector:
		return c, nil
	default:
		return "", domain.WrapError(domain.ErrInvalidInput, "select summarizer", fmt.Errorf("unknown centrality %q", name))
	}
}

func NewKeywordExtractor(strategy string) (ports.KeywordExtractor, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", KeywordYAKE:
		return yake.NewExtractor(), nil
	case KeywordFrequency:
		return frequency.NewKeywordExtractor(), nil
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "select keyword extractor", fmt.Errorf("unknown strategy %q", strategy))
	}
}
