package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/core/ports"
)

const (
	StageText     = "text"
	StageSummary  = "summary"
	StageKeywords = "keywords"
)

type AnalyzeDocumentUseCase struct {
	loader     ports.PageLoader
	segmenter  ports.SentenceSegmenter
	summarizer ports.Summarizer
	keywords   ports.KeywordExtractor
	observer   ports.PipelineObserver
	defaults   domain.AnalysisOptions
}

func NewAnalyzeDocumentUseCase(
	loader ports.PageLoader,
	segmenter ports.SentenceSegmenter,
	summarizer ports.Summarizer,
	keywords ports.KeywordExtractor,
	observer ports.PipelineObserver,
	defaults domain.AnalysisOptions,
) *AnalyzeDocumentUseCase {
	if observer == nil {
		observer = noopObserver{}
	}
	return &AnalyzeDocumentUseCase{
		loader:     loader,
		segmenter:  segmenter,
		summarizer: summarizer,
		keywords:   keywords,
		observer:   observer,
		defaults:   defaults,
	}
}

// Analyze runs the whole pipeline for one document. It never returns an
// error: every stage reports through its outcome slot.
func (uc *AnalyzeDocumentUseCase) Analyze(ctx context.Context, handle string, opts domain.AnalysisOptions) domain.Analysis {
	opts = opts.Normalize(uc.defaults)

	var analysis domain.Analysis
	analysis.Text = runStage(uc.observer, StageText, domain.ErrExtractionFailure, func() (domain.TaggedText, error) {
		pages, err := uc.loader.Load(ctx, handle)
		if err != nil {
			return "", err
		}
		analysis.Pages = pages
		if !domain.HasContent(pages) {
			return "", domain.Degenerate(domain.ErrExtractionFailure, "load document", "no readable text on any page")
		}
		return domain.NewTaggedText(pages), nil
	})

	body := ""
	if analysis.Text.OK() {
		body = domain.PagesBody(analysis.Pages)
	}

	var wg sync.WaitGroup
	if opts.WantSummary {
		wg.Add(1)
		go func() {
			defer wg.Done()
			analysis.Summary = runStage(uc.observer, StageSummary, domain.ErrSummarizationFailure, func() (domain.SummarySelection, error) {
				return uc.summarize(body, opts.SummaryLength)
			})
		}()
	} else {
		analysis.Summary = domain.NotRequested[domain.SummarySelection]()
	}
	if opts.WantKeywords {
		wg.Add(1)
		go func() {
			defer wg.Done()
			analysis.Keywords = runStage(uc.observer, StageKeywords, domain.ErrKeywordFailure, func() ([]domain.Keyword, error) {
				return uc.extractKeywords(body, opts.TopKeywords)
			})
		}()
	} else {
		analysis.Keywords = domain.NotRequested[[]domain.Keyword]()
	}
	wg.Wait()

	slog.Info("document_analyzed",
		"handle", handle,
		"pages", len(analysis.Pages),
		"text", analysis.Text.Status,
		"summary", analysis.Summary.Status,
		"keywords", analysis.Keywords.Status,
	)
	return analysis
}

func (uc *AnalyzeDocumentUseCase) summarize(body string, length int) (domain.SummarySelection, error) {
	if body == "" {
		return domain.SummarySelection{}, domain.Degenerate(domain.ErrSegmentationDegenerate, "summarize", "no text to segment")
	}
	sentences := uc.segmenter.Segment(body)
	if len(sentences) == 0 {
		return domain.SummarySelection{}, domain.Degenerate(domain.ErrSegmentationDegenerate, "summarize", "no sentences")
	}
	return uc.summarizer.Summarize(sentences, length)
}

func (uc *AnalyzeDocumentUseCase) extractKeywords(body string, topN int) ([]domain.Keyword, error) {
	if body == "" {
		return nil, domain.Degenerate(domain.ErrKeywordFailure, "extract keywords", "no text to score")
	}
	return uc.keywords.Extract(body, topN)
}

// runStage converts a stage result into a tagged outcome, turning panics into
// failed outcomes of the given kind.
func runStage[T any](observer ports.PipelineObserver, stage string, kind error, fn func() (T, error)) (out domain.Outcome[T]) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = domain.Outcome[T]{
				Status: domain.StageFailed,
				Err:    domain.WrapError(kind, stage, fmt.Errorf("panic: %v", r)),
			}
		}
		elapsed := time.Since(start)
		observer.ObserveStage(stage, out.Status, elapsed)
		if out.Status == domain.StageFailed {
			slog.Warn("stage_done", "stage", stage, "status", out.Status, "duration_ms", elapsed.Milliseconds(), "error", out.Err)
			return
		}
		slog.Debug("stage_done", "stage", stage, "status", out.Status, "duration_ms", elapsed.Milliseconds())
	}()

	value, err := fn()
	return domain.NewOutcome(value, err)
}
