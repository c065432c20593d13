// Package raster holds helpers shared by page sources and recognizers for
// handling rendered page images.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
)

// ErrUnsupported is returned by page sources that have no visual representation.
var ErrUnsupported = errors.New("rasterization not supported for this document format")

// EncodePNG serialises a rendered page for recognizers that take encoded images.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New("nil page image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page png: %w", err)
	}
	return buf.Bytes(), nil
}
