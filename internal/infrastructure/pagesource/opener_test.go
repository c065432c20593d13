package pagesource

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/infrastructure/pagesource/raster"
)

type storageFake struct {
	files map[string][]byte
}

func (f *storageFake) Save(context.Context, string, io.Reader) error { return nil }
func (f *storageFake) Delete(context.Context, string) error          { return nil }

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.files[key]
	if !ok {
		return nil, errors.New("missing")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		handle string
		data   []byte
		want   Format
	}{
		{"report.PDF", nil, FormatPDF},
		{"book.xlsx", nil, FormatSheet},
		{"notes.md", nil, FormatPlainText},
		{"upload", []byte("%PDF-1.7\n..."), FormatPDF},
		{"upload", []byte("PK\x03\x04rest"), FormatSheet},
		{"upload", []byte("hello"), FormatPlainText},
		{"upload", []byte{0x00, 0x01}, ""},
	}
	for _, tc := range cases {
		if got := DetectFormat(tc.handle, tc.data); got != tc.want {
			t.Fatalf("DetectFormat(%q) = %q, want %q", tc.handle, got, tc.want)
		}
	}
}

func TestOpenPlainTextSinglePage(t *testing.T) {
	opener := NewOpener(&storageFake{files: map[string][]byte{"a.txt": []byte("  Hello world.  ")}})

	src, err := opener.Open(context.Background(), "a.txt")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	if src.PageCount() != 1 {
		t.Fatalf("expected 1 page, got %d", src.PageCount())
	}
	text, err := src.NativeText(context.Background(), 1)
	if err != nil || text != "Hello world." {
		t.Fatalf("unexpected text %q err=%v", text, err)
	}
	if _, err := src.Rasterize(context.Background(), 1, 300); !errors.Is(err, raster.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestOpenUnknownFormatIsInvalidInput(t *testing.T) {
	opener := NewOpener(&storageFake{files: map[string][]byte{"blob": {0x00, 0x02}}})

	_, err := opener.Open(context.Background(), "blob")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestOpenMissingDocument(t *testing.T) {
	opener := NewOpener(&storageFake{files: map[string][]byte{}})
	if _, err := opener.Open(context.Background(), "nope.pdf"); err == nil {
		t.Fatalf("expected error")
	}
}
