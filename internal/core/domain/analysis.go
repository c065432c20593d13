package domain

import "strings"

type Sentence struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
}

// SimilarityGraph is a symmetric sentence-by-sentence weight matrix.
type SimilarityGraph struct {
	Weights [][]float64
}

func NewSimilarityGraph(n int) SimilarityGraph {
	weights := make([][]float64, n)
	for i := range weights {
		weights[i] = make([]float64, n)
		weights[i][i] = 1.0
	}
	return SimilarityGraph{Weights: weights}
}

func (g SimilarityGraph) Size() int { return len(g.Weights) }

func (g SimilarityGraph) RowSum(i int) float64 {
	sum := 0.0
	for _, w := range g.Weights[i] {
		sum += w
	}
	return sum
}

type ScoredSentence struct {
	Sentence
	Score float64 `json:"score"`
}

// SummarySelection references original sentences in document order.
// Scored is false when the short-document fast path skipped scoring.
type SummarySelection struct {
	Members []ScoredSentence `json:"members"`
	Scored  bool             `json:"scored"`
}

func (s SummarySelection) Texts() []string {
	out := make([]string, 0, len(s.Members))
	for _, m := range s.Members {
		out = append(out, m.Text)
	}
	return out
}

type Keyword struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

type AnalysisOptions struct {
	SummaryLength int  `json:"summary_length"`
	TopKeywords   int  `json:"top_keywords"`
	WantSummary   bool `json:"want_summary"`
	WantKeywords  bool `json:"want_keywords"`
}

// Normalize fills non-positive sizes from defaults.
func (o AnalysisOptions) Normalize(defaults AnalysisOptions) AnalysisOptions {
	out := o
	if out.SummaryLength <= 0 {
		out.SummaryLength = defaults.SummaryLength
	}
	if out.TopKeywords <= 0 {
		out.TopKeywords = defaults.TopKeywords
	}
	return out
}

type StageStatus string

const (
	StageOK           StageStatus = "ok"
	StageNotRequested StageStatus = "not_requested"
	StageEmpty        StageStatus = "empty"
	StageFailed       StageStatus = "failed"
)

// Outcome is the tagged result of one pipeline stage.
type Outcome[T any] struct {
	Status StageStatus
	Value  T
	Err    error
}

func NewOutcome[T any](value T, err error) Outcome[T] {
	switch {
	case err == nil:
		return Outcome[T]{Status: StageOK, Value: value}
	case IsKind(err, ErrDegenerate):
		return Outcome[T]{Status: StageEmpty, Err: err}
	default:
		return Outcome[T]{Status: StageFailed, Err: err}
	}
}

func NotRequested[T any]() Outcome[T] {
	return Outcome[T]{Status: StageNotRequested}
}

func (o Outcome[T]) OK() bool { return o.Status == StageOK }

const (
	SentinelNoContent    = "No readable text found in document."
	SentinelNoSummary    = "No summary generated."
	SentinelNoKeywords   = "No keywords found."
	SentinelNotRequested = "Not requested."
)

type Analysis struct {
	Pages    []Page
	Text     Outcome[TaggedText]
	Summary  Outcome[SummarySelection]
	Keywords Outcome[[]Keyword]
}

// Rendered is the stable three-field display shape.
type Rendered struct {
	Text             string   `json:"text"`
	Summary          string   `json:"summary"`
	SummarySentences []string `json:"summary_sentences"`
	Keywords         []string `json:"keywords"`
}

func (a Analysis) Render() Rendered {
	var out Rendered

	switch a.Text.Status {
	case StageOK:
		out.Text = string(a.Text.Value)
	case StageFailed:
		out.Text = "Error extracting text: " + errText(a.Text.Err)
	default:
		out.Text = SentinelNoContent
	}

	switch a.Summary.Status {
	case StageOK:
		out.SummarySentences = a.Summary.Value.Texts()
		out.Summary = strings.Join(out.SummarySentences, " ")
	case StageNotRequested:
		out.Summary = SentinelNotRequested
	case StageFailed:
		out.Summary = "Summary error: " + errText(a.Summary.Err)
	default:
		out.Summary = SentinelNoSummary
	}
	if out.SummarySentences == nil {
		out.SummarySentences = []string{}
	}

	switch a.Keywords.Status {
	case StageOK:
		out.Keywords = make([]string, 0, len(a.Keywords.Value))
		for _, kw := range a.Keywords.Value {
			out.Keywords = append(out.Keywords, kw.Term)
		}
	case StageNotRequested:
		out.Keywords = []string{SentinelNotRequested}
	case StageFailed:
		out.Keywords = []string{"Keyword error: " + errText(a.Keywords.Err)}
	default:
		out.Keywords = []string{SentinelNoKeywords}
	}

	return out
}

func (a Analysis) Report() StageReport {
	return StageReport{
		Text:     a.Text.Status,
		Summary:  a.Summary.Status,
		Keywords: a.Keywords.Status,
	}
}

func (a Analysis) PageMethods() []ExtractionMethod {
	out := make([]ExtractionMethod, 0, len(a.Pages))
	for _, page := range a.Pages {
		out = append(out, page.Method)
	}
	return out
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
