// Package plaintext exposes a UTF-8 text file as a single-page document.
package plaintext

import (
	"context"
	"fmt"
	"image"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/docdigest/internal/infrastructure/pagesource/raster"
)

type Source struct {
	text string
}

func Open(data []byte) (*Source, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("unsupported binary content")
	}
	return &Source{text: strings.TrimSpace(string(data))}, nil
}

func (s *Source) PageCount() int { return 1 }

func (s *Source) NativeText(_ context.Context, index int) (string, error) {
	if index != 1 {
		return "", fmt.Errorf("page %d out of range 1..1", index)
	}
	return s.text, nil
}

func (s *Source) Rasterize(context.Context, int, float64) (image.Image, error) {
	return nil, raster.ErrUnsupported
}

func (s *Source) Close() error { return nil }
