package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/core/ports"
)

// AnalyzeUploadUseCase stages an upload in object storage for the duration
// of one synchronous analysis.
type AnalyzeUploadUseCase struct {
	storage  ports.ObjectStorage
	analyzer ports.DocumentAnalyzer
}

func NewAnalyzeUploadUseCase(storage ports.ObjectStorage, analyzer ports.DocumentAnalyzer) *AnalyzeUploadUseCase {
	return &AnalyzeUploadUseCase{storage: storage, analyzer: analyzer}
}

func (uc *AnalyzeUploadUseCase) AnalyzeUpload(
	ctx context.Context,
	filename string,
	opts domain.AnalysisOptions,
	body io.Reader,
) (domain.Analysis, error) {
	if strings.TrimSpace(filename) == "" {
		return domain.Analysis{}, domain.WrapError(domain.ErrInvalidInput, "analyze upload", fmt.Errorf("filename is required"))
	}

	key := StorageKey(uuid.NewString(), filename)
	if err := uc.storage.Save(ctx, key, body); err != nil {
		return domain.Analysis{}, fmt.Errorf("stage upload: %w", err)
	}
	defer func() {
		// The request context may already be done here.
		if err := uc.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
			slog.Warn("staged_upload_delete_failed", "key", key, "error", err)
		}
	}()

	return uc.analyzer.Analyze(ctx, key, opts), nil
}
