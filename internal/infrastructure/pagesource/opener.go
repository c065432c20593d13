// Package pagesource resolves stored documents into page sources by format.
package pagesource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/core/ports"
	"github.com/kirillkom/docdigest/internal/infrastructure/pagesource/pdf"
	"github.com/kirillkom/docdigest/internal/infrastructure/pagesource/plaintext"
	"github.com/kirillkom/docdigest/internal/infrastructure/pagesource/sheet"
)

type Format string

const (
	FormatPDF       Format = "pdf"
	FormatSheet     Format = "xlsx"
	FormatPlainText Format = "text"
)

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

type Opener struct {
	storage ports.ObjectStorage
}

func NewOpener(storage ports.ObjectStorage) *Opener {
	return &Opener{storage: storage}
}

// Open reads the handle from storage and picks a page source from the file
// extension, falling back to content sniffing.
func (o *Opener) Open(ctx context.Context, handle string) (ports.PageSource, error) {
	reader, err := o.storage.Open(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}

	var src ports.PageSource
	switch DetectFormat(handle, data) {
	case FormatPDF:
		src, err = asSource(pdf.Open(data))
	case FormatSheet:
		src, err = asSource(sheet.Open(data))
	case FormatPlainText:
		src, err = asSource(plaintext.Open(data))
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "open source document", fmt.Errorf("unsupported format: %s", filepath.Base(handle)))
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(handle), err)
	}
	return src, nil
}

func asSource[S ports.PageSource](src S, err error) (ports.PageSource, error) {
	if err != nil {
		return nil, err
	}
	return src, nil
}

func DetectFormat(handle string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(handle)) {
	case ".pdf":
		return FormatPDF
	case ".xlsx", ".xlsm":
		return FormatSheet
	case ".txt", ".md", ".text", ".csv":
		return FormatPlainText
	}

	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return FormatPDF
	case bytes.HasPrefix(data, zipMagic):
		return FormatSheet
	case len(data) > 0 && !bytes.ContainsRune(data, 0):
		return FormatPlainText
	default:
		return ""
	}
}
