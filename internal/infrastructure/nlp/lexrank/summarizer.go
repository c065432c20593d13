// Package lexrank ranks sentences by their centrality in a TF-IDF cosine
// similarity graph built from the document's own sentences.
package lexrank

import (
	"fmt"
	"math"

	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/infrastructure/nlp/ranking"
)

type Centrality string

const (
	// CentralityDegree scores a sentence by the sum of its similarity row.
	CentralityDegree Centrality = "degree"
	// CentralityEigenvector runs damped power iteration to convergence.
	CentralityEigenvector Centrality = "eigenvector"
)

const (
	defaultDamping       = 0.85
	defaultMaxIterations = 100
	defaultTolerance     = 1e-6
)

type Summarizer struct {
	centrality    Centrality
	damping       float64
	maxIterations int
	tolerance     float64
}

func NewSummarizer(centrality Centrality) *Summarizer {
	if centrality != CentralityEigenvector {
		centrality = CentralityDegree
	}
	return &Summarizer{
		centrality:    centrality,
		damping:       defaultDamping,
		maxIterations: defaultMaxIterations,
		tolerance:     defaultTolerance,
	}
}

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

	graph, err := BuildGraph(sentences)
	if err != nil {
		return domain.SummarySelection{}, err
	}

	var scores []float64
	switch s.centrality {
	case CentralityEigenvector:
		scores = s.eigenvectorScores(graph)
	default:
		scores = DegreeScores(graph)
	}
	return ranking.TopK(sentences, scores, k), nil
}

// BuildGraph computes the pairwise cosine similarity of the sentences'
// TF-IDF vectors. The diagonal is 1.0 regardless of vector content.
func BuildGraph(sentences []domain.Sentence) (domain.SimilarityGraph, error) {
	vectors, vocabSize := vectorize(sentences)
	if vocabSize == 0 {
		return domain.SimilarityGraph{}, domain.Degenerate(domain.ErrSummarizationFailure, "build similarity graph", "empty vocabulary")
	}

	graph := domain.NewSimilarityGraph(len(sentences))
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			sim := cosine(vectors[i], vectors[j])
			graph.Weights[i][j] = sim
			graph.Weights[j][i] = sim
		}
	}
	return graph, nil
}

// DegreeScores is the single-pass centrality: each sentence's row sum.
func DegreeScores(graph domain.SimilarityGraph) []float64 {
	scores := make([]float64, graph.Size())
	for i := range scores {
		scores[i] = graph.RowSum(i)
	}
	return scores
}

func (s *Summarizer) eigenvectorScores(graph domain.SimilarityGraph) []float64 {
	n := graph.Size()
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}

	outgoing := make([]float64, n)
	for i := range n {
		outgoing[i] = graph.RowSum(i) - graph.Weights[i][i]
	}

	teleport := (1.0 - s.damping) / float64(n)
	for range s.maxIterations {
		next := make([]float64, n)
		change := 0.0
		for i := range n {
			link := 0.0
			for j := range n {
				if i == j || outgoing[j] <= 0 {
					continue
				}
				link += scores[j] * graph.Weights[j][i] / outgoing[j]
			}
			next[i] = teleport + s.damping*link
			change += math.Abs(next[i] - scores[i])
		}
		scores = next
		if change < s.tolerance {
			break
		}
	}
	return scores
}
