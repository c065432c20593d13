// Package sheet exposes spreadsheet workbooks as documents with one page per sheet.
package sheet

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/docdigest/internal/infrastructure/pagesource/raster"
)

type Source struct {
	file   *excelize.File
	sheets []string
}

func Open(data []byte) (*Source, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Source{file: file, sheets: file.GetSheetList()}, nil
}

func (s *Source) PageCount() int {
	return len(s.sheets)
}

// NativeText renders the sheet row by row, cells separated by tabs.
func (s *Source) NativeText(_ context.Context, index int) (string, error) {
	if index < 1 || index > len(s.sheets) {
		return "", fmt.Errorf("sheet %d out of range 1..%d", index, len(s.sheets))
	}
	rows, err := s.file.GetRows(s.sheets[index-1])
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", s.sheets[index-1], err)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		line := strings.TrimRight(strings.Join(row, "\t"), "\t ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Source) Rasterize(context.Context, int, float64) (image.Image, error) {
	return nil, raster.ErrUnsupported
}

func (s *Source) Close() error {
	return s.file.Close()
}
