package ports

import (
	"context"
	"io"

	"github.com/kirillkom/docdigest/internal/core/domain"
)

// DocumentAnalyzer is the pipeline entry point. It never fails: every stage
// reports through the tagged outcomes of the returned analysis.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, handle string, opts domain.AnalysisOptions) domain.Analysis
}

// DocumentIngestor is the inbound contract for asynchronous document upload.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, opts domain.AnalysisOptions, body io.Reader) (*domain.Document, error)
}

// DocumentReader is the inbound read model for document state and results.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// UploadAnalyzer analyses a document supplied inline, without persisting a record.
type UploadAnalyzer interface {
	AnalyzeUpload(ctx context.Context, filename string, opts domain.AnalysisOptions, body io.Reader) (domain.Analysis, error)
}
