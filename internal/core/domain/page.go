package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type ExtractionMethod string

const (
	MethodNative ExtractionMethod = "native"
	MethodOCR    ExtractionMethod = "ocr"
	MethodFailed ExtractionMethod = "failed"
)

// Page is one extracted page. Index is 1-based; Text is already trimmed.
type Page struct {
	Index  int              `json:"index"`
	Text   string           `json:"text"`
	Method ExtractionMethod `json:"method"`
}

// Marker returns the human-readable header line for the page.
func (p Page) Marker() string {
	switch p.Method {
	case MethodOCR:
		return fmt.Sprintf("--- Page %d (OCR) ---", p.Index)
	case MethodFailed:
		return fmt.Sprintf("--- Page %d (OCR failed) ---", p.Index)
	default:
		return fmt.Sprintf("--- Page %d ---", p.Index)
	}
}

// TaggedText is the page-tagged concatenation of all pages of a document.
type TaggedText string

const blockSeparator = "\n\n"

var markerPattern = regexp.MustCompile(`^--- Page (\d+)(?: \((OCR|OCR failed)\))? ---$`)

// NewTaggedText renders pages in the order given; callers pass them sorted by index.
func NewTaggedText(pages []Page) TaggedText {
	blocks := make([]string, 0, len(pages))
	for _, page := range pages {
		blocks = append(blocks, page.Marker()+"\n"+page.Text)
	}
	return TaggedText(strings.Join(blocks, blockSeparator))
}

// ParseTaggedText recovers the pages from a rendered TaggedText. A marker
// line only opens a page at a block boundary (start of text or after a
// blank line) and only when it carries the next page index, so page text
// that quotes a marker stays inside its page.
func ParseTaggedText(text TaggedText) []Page {
	var (
		pages   []Page
		current *Page
		body    []string
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimSpace(strings.Join(body, "\n"))
		pages = append(pages, *current)
	}

	lines := strings.Split(string(text), "\n")
	for i, line := range lines {
		page, ok := parseMarker(line)
		if ok && current != nil && (lines[i-1] != "" || page.Index != current.Index+1) {
			ok = false
		}
		if ok && current == nil && i != 0 {
			ok = false
		}
		if !ok {
			if current != nil {
				body = append(body, line)
			}
			continue
		}
		flush()
		current = &page
		body = body[:0]
	}
	flush()
	return pages
}

func parseMarker(line string) (Page, bool) {
	match := markerPattern.FindStringSubmatch(line)
	if match == nil {
		return Page{}, false
	}
	index, err := strconv.Atoi(match[1])
	if err != nil {
		return Page{}, false
	}
	method := MethodNative
	switch match[2] {
	case "OCR":
		method = MethodOCR
	case "OCR failed":
		method = MethodFailed
	}
	return Page{Index: index, Method: method}, true
}

// Body returns the page texts without markers, one paragraph per non-empty page.
func (t TaggedText) Body() string {
	return PagesBody(ParseTaggedText(t))
}

// PagesBody joins the non-empty page texts with blank lines.
func PagesBody(pages []Page) string {
	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		if page.Text != "" {
			parts = append(parts, page.Text)
		}
	}
	return strings.Join(parts, blockSeparator)
}

// HasContent reports whether at least one page carries non-whitespace text.
func HasContent(pages []Page) bool {
	for _, page := range pages {
		if strings.TrimSpace(page.Text) != "" {
			return true
		}
	}
	return false
}
