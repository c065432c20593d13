package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/kirillkom/docdigest/internal/core/domain"
)

type stagingStorageFake struct {
	saved   map[string]string
	deleted []string
	saveErr error
}

func (f *stagingStorageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if f.saved == nil {
		f.saved = map[string]string{}
	}
	f.saved[key] = string(raw)
	return nil
}

func (f *stagingStorageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (f *stagingStorageFake) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func TestAnalyzeUploadStagesAndCleansUp(t *testing.T) {
	storage := &stagingStorageFake{}
	analyzer := &analyzerFake{analysis: okAnalysis()}
	uc := NewAnalyzeUploadUseCase(storage, analyzer)

	opts := domain.AnalysisOptions{SummaryLength: 1, WantSummary: true}
	analysis, err := uc.AnalyzeUpload(context.Background(), "pets notes.txt", opts, bytes.NewBufferString("Cats are mammals."))
	if err != nil {
		t.Fatalf("AnalyzeUpload() error = %v", err)
	}
	if !analysis.Text.OK() {
		t.Fatalf("expected analysis to be returned, got %+v", analysis.Text)
	}
	if !strings.HasSuffix(analyzer.gotHandle, "_pets_notes.txt") {
		t.Fatalf("expected extension-preserving key, got %q", analyzer.gotHandle)
	}
	if storage.saved[analyzer.gotHandle] != "Cats are mammals." {
		t.Fatalf("expected upload to be staged under the analysed key")
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != analyzer.gotHandle {
		t.Fatalf("expected staged upload to be deleted, got %v", storage.deleted)
	}
	if analyzer.gotOptions != opts {
		t.Fatalf("expected options to pass through, got %+v", analyzer.gotOptions)
	}
}

func TestAnalyzeUploadStorageFailure(t *testing.T) {
	storage := &stagingStorageFake{saveErr: errBoom}
	analyzer := &analyzerFake{}

	_, err := NewAnalyzeUploadUseCase(storage, analyzer).AnalyzeUpload(context.Background(), "a.txt", domain.AnalysisOptions{}, strings.NewReader("x"))
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if analyzer.gotHandle != "" {
		t.Fatalf("analyzer must not run when staging fails")
	}
}
