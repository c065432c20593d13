// Package pdf exposes PDF pages: the native text layer through
// ledongthuc/pdf and rasterisation through MuPDF (go-fitz).
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

type Source struct {
	data   []byte
	reader *pdf.Reader

	// textMu guards the text parser and renderMu the renderer, so a slow
	// render never blocks reading the text layer of other pages.
	textMu   sync.Mutex
	renderMu sync.Mutex
	raster   *fitz.Document
	closed   bool
}

func Open(data []byte) (src *Source, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}
	return &Source{data: data, reader: reader}, nil
}

func (s *Source) PageCount() int {
	return s.reader.NumPage()
}

// NativeText returns the text layer of the page. The underlying parser is
// not safe for concurrent use and may panic on malformed content streams.
func (s *Source) NativeText(_ context.Context, index int) (text string, err error) {
	if index < 1 || index > s.PageCount() {
		return "", fmt.Errorf("page %d out of range 1..%d", index, s.PageCount())
	}

	s.textMu.Lock()
	defer s.textMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read text layer of page %d: %v", index, r)
		}
	}()

	page := s.reader.Page(index)
	if page.V.IsNull() {
		return "", nil
	}
	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("read text layer of page %d: %w", index, err)
	}
	return text, nil
}

// Rasterize renders the page with MuPDF. The renderer is opened on first use,
// so documents with a complete text layer never load it.
func (s *Source) Rasterize(_ context.Context, index int, dpi float64) (image.Image, error) {
	if index < 1 || index > s.PageCount() {
		return nil, fmt.Errorf("page %d out of range 1..%d", index, s.PageCount())
	}

	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("rasterize page %d: source closed", index)
	}
	if s.raster == nil {
		doc, err := fitz.NewFromMemory(s.data)
		if err != nil {
			return nil, fmt.Errorf("open renderer: %w", err)
		}
		s.raster = doc
	}

	img, err := s.raster.ImageDPI(index-1, dpi)
	if err != nil {
		return nil, fmt.Errorf("rasterize page %d: %w", index, err)
	}
	return img, nil
}

// Close releases the renderer. When a render is still in flight (its caller
// gave up on it) the renderer is released once that render returns.
func (s *Source) Close() error {
	if !s.renderMu.TryLock() {
		go func() {
			s.renderMu.Lock()
			defer s.renderMu.Unlock()
			_ = s.closeRenderer()
		}()
		return nil
	}
	defer s.renderMu.Unlock()
	return s.closeRenderer()
}

func (s *Source) closeRenderer() error {
	s.closed = true
	if s.raster == nil {
		return nil
	}
	err := s.raster.Close()
	s.raster = nil
	return err
}
