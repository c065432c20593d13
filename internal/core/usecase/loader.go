package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/core/ports"
)

type LoaderConfig struct {
	Language       string
	DPI            float64
	PageTimeout    time.Duration
	PageWorkers    int
	OCRConcurrency int
}

func (c LoaderConfig) normalize() LoaderConfig {
	out := c
	if strings.TrimSpace(out.Language) == "" {
		out.Language = "eng"
	}
	if out.DPI <= 0 {
		out.DPI = 300
	}
	if out.PageTimeout <= 0 {
		out.PageTimeout = 60 * time.Second
	}
	if out.PageWorkers <= 0 {
		out.PageWorkers = runtime.NumCPU()
	}
	if out.OCRConcurrency <= 0 {
		out.OCRConcurrency = 1
	}
	return out
}

// DocumentLoader turns a document handle into pages, reading the native text
// layer and falling back to optical recognition for pages without one.
type DocumentLoader struct {
	opener     ports.PageSourceOpener
	recognizer ports.OpticalRecognizer
	observer   ports.PipelineObserver
	cfg        LoaderConfig
	ocrSlots   *semaphore.Weighted
}

func NewDocumentLoader(
	opener ports.PageSourceOpener,
	recognizer ports.OpticalRecognizer,
	observer ports.PipelineObserver,
	cfg LoaderConfig,
) *DocumentLoader {
	cfg = cfg.normalize()
	if observer == nil {
		observer = noopObserver{}
	}
	return &DocumentLoader{
		opener:     opener,
		recognizer: recognizer,
		observer:   observer,
		cfg:        cfg,
		ocrSlots:   semaphore.NewWeighted(int64(cfg.OCRConcurrency)),
	}
}

// Load returns every page in index order. Pages are processed concurrently;
// each goroutine owns exactly one slot of the result slice. If ctx is
// cancelled the partial result is dropped and the context error returned.
func (l *DocumentLoader) Load(ctx context.Context, handle string) ([]domain.Page, error) {
	src, err := l.opener.Open(ctx, handle)
	if err != nil {
		return nil, domain.WrapError(domain.ErrExtractionFailure, "open document", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			slog.Warn("page_source_close_failed", "handle", handle, "error", err)
		}
	}()

	pages := make([]domain.Page, src.PageCount())
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(l.cfg.PageWorkers)
	for i := range pages {
		group.Go(func() error {
			page, err := l.loadPage(groupCtx, src, i+1)
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, domain.WrapError(domain.ErrExtractionFailure, "load pages", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrExtractionFailure, "load pages", err)
	}
	return pages, nil
}

// loadPage only returns an error when ctx itself is done; every other
// failure degrades the page.
func (l *DocumentLoader) loadPage(ctx context.Context, src ports.PageSource, index int) (domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return domain.Page{}, err
	}

	native, err := src.NativeText(ctx, index)
	if err != nil {
		slog.Warn("native_text_failed", "page", index, "error", err)
	}
	if text := strings.TrimSpace(native); err == nil && text != "" {
		l.observer.ObservePage(domain.MethodNative)
		return domain.Page{Index: index, Text: text, Method: domain.MethodNative}, nil
	}

	text, err := l.recognize(ctx, src, index)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Page{}, ctxErr
		}
		slog.Warn("ocr_failed", "page", index, "error", err)
		l.observer.ObservePage(domain.MethodFailed)
		return domain.Page{Index: index, Method: domain.MethodFailed}, nil
	}

	l.observer.ObservePage(domain.MethodOCR)
	return domain.Page{Index: index, Text: strings.TrimSpace(text), Method: domain.MethodOCR}, nil
}

type recognition struct {
	text string
	err  error
}

// recognize rasterizes and recognizes one page within the per-page deadline.
// Both steps run in a goroutine bounded by the deadline, so a renderer or a
// recognizer that ignores ctx cannot stall the document. An abandoned
// goroutine finishes on its own and its result is dropped.
func (l *DocumentLoader) recognize(ctx context.Context, src ports.PageSource, index int) (string, error) {
	if err := l.ocrSlots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer l.ocrSlots.Release(1)

	pageCtx, cancel := context.WithTimeout(ctx, l.cfg.PageTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan recognition, 1)
	go func() {
		img, err := src.Rasterize(pageCtx, index, l.cfg.DPI)
		if err != nil {
			done <- recognition{err: fmt.Errorf("rasterize page %d: %w", index, err)}
			return
		}
		text, err := l.recognizer.Recognize(pageCtx, img, l.cfg.Language)
		if err != nil {
			err = fmt.Errorf("recognize page %d: %w", index, err)
		}
		done <- recognition{text: text, err: err}
	}()

	select {
	case res := <-done:
		l.observer.ObserveRecognition(time.Since(start), res.err)
		if res.err != nil {
			return "", res.err
		}
		return res.text, nil
	case <-pageCtx.Done():
		err := pageCtx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("page exceeded %s: %w", l.cfg.PageTimeout, err)
		}
		l.observer.ObserveRecognition(time.Since(start), err)
		return "", fmt.Errorf("recognize page %d: %w", index, err)
	}
}

type noopObserver struct{}

func (noopObserver) ObservePage(domain.ExtractionMethod)                      {}
func (noopObserver) ObserveRecognition(time.Duration, error)                  {}
func (noopObserver) ObserveStage(string, domain.StageStatus, time.Duration) {}
