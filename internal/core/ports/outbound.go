package ports

import (
	"context"
	"image"
	"io"
	"time"

	"github.com/kirillkom/docdigest/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveAnalysis(ctx context.Context, doc *domain.Document) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// PageSource exposes the pages of one opened document. Page indexes are 1-based.
type PageSource interface {
	PageCount() int
	NativeText(ctx context.Context, index int) (string, error)
	Rasterize(ctx context.Context, index int, dpi float64) (image.Image, error)
	Close() error
}

// PageSourceOpener resolves a document handle into a PageSource.
type PageSourceOpener interface {
	Open(ctx context.Context, handle string) (PageSource, error)
}

// OpticalRecognizer turns a rasterized page into text. Deadlines are enforced
// by the caller; implementations may ignore ctx.
type OpticalRecognizer interface {
	Recognize(ctx context.Context, img image.Image, languageHint string) (string, error)
}

// Initializer performs one-time, idempotent start-up work for a backend.
type Initializer interface {
	Init(ctx context.Context) error
}

// SentenceSegmenter splits text into ordered sentences.
type SentenceSegmenter interface {
	Segment(text string) []domain.Sentence
}

// Summarizer selects at most k representative sentences.
type Summarizer interface {
	Summarize(sentences []domain.Sentence, k int) (domain.SummarySelection, error)
}

// KeywordExtractor ranks at most topN single-word keywords of a text.
type KeywordExtractor interface {
	Extract(text string, topN int) ([]domain.Keyword, error)
}

// PipelineObserver receives pipeline telemetry.
type PipelineObserver interface {
	ObservePage(method domain.ExtractionMethod)
	ObserveRecognition(duration time.Duration, err error)
	ObserveStage(stage string, status domain.StageStatus, duration time.Duration)
}

// PageLoader turns a document handle into ordered, method-tagged pages.
type PageLoader interface {
	Load(ctx context.Context, handle string) ([]domain.Page, error)
}
