// Package tesseract recognizes page images with the Tesseract engine.
package tesseract

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/infrastructure/pagesource/raster"
)

type Recognizer struct {
	language string

	once    sync.Once
	initErr error
}

func New(language string) *Recognizer {
	if strings.TrimSpace(language) == "" {
		language = "eng"
	}
	return &Recognizer{language: language}
}

// Init runs one blank-page recognition so missing language data fails at
// start-up instead of on the first document. Safe to call repeatedly.
func (r *Recognizer) Init(_ context.Context) error {
	r.once.Do(func() {
		client := gosseract.NewClient()
		defer client.Close()

		blank := image.NewGray(image.Rect(0, 0, 64, 64))
		draw.Draw(blank, blank.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
		if _, err := recognize(client, blank, r.language); err != nil {
			r.initErr = domain.WrapError(domain.ErrExtractionFailure, "init tesseract", err)
			return
		}
		slog.Info("ocr_backend_ready", "backend", "tesseract", "version", client.Version(), "language", r.language)
	})
	return r.initErr
}

// Recognize uses a fresh client per call: gosseract clients are not safe for
// concurrent use.
func (r *Recognizer) Recognize(_ context.Context, img image.Image, languageHint string) (string, error) {
	lang := languageHint
	if strings.TrimSpace(lang) == "" {
		lang = r.language
	}

	client := gosseract.NewClient()
	defer client.Close()
	return recognize(client, img, lang)
}

func recognize(client *gosseract.Client, img image.Image, lang string) (string, error) {
	encoded, err := raster.EncodePNG(img)
	if err != nil {
		return "", err
	}
	if err := client.SetLanguage(lang); err != nil {
		return "", fmt.Errorf("tesseract set language %q: %w", lang, err)
	}
	if err := client.SetImageFromBytes(encoded); err != nil {
		return "", fmt.Errorf("tesseract set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}
