package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrTemporary        = errors.New("temporary failure")

	ErrExtractionFailure      = errors.New("extraction failure")
	ErrSegmentationDegenerate = errors.New("segmentation degenerate")
	ErrSummarizationFailure   = errors.New("summarization failure")
	ErrKeywordFailure         = errors.New("keyword failure")

	// ErrDegenerate marks a stage that ran correctly but had nothing to produce.
	ErrDegenerate = errors.New("degenerate input")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

// Degenerate builds an error carrying both the stage kind and ErrDegenerate.
func Degenerate(kind error, operation, detail string) error {
	return fmt.Errorf("%s: %w: %w: %s", operation, kind, ErrDegenerate, detail)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
