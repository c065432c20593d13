package usecase

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/core/ports"
)

var testDefaults = domain.AnalysisOptions{
	SummaryLength: 3,
	TopKeywords:   10,
	WantSummary:   true,
	WantKeywords:  true,
}

// sourceFake serves native text per page; an empty string forces OCR.
type sourceFake struct {
	native      []string
	nativeErr   map[int]error
	rasterErr   map[int]error
	// rasterBlock makes rendering of a page hang until closed, ignoring ctx.
	rasterBlock map[int]chan struct{}
	closed      bool
}

func (f *sourceFake) PageCount() int { return len(f.native) }

func (f *sourceFake) NativeText(_ context.Context, index int) (string, error) {
	if err := f.nativeErr[index]; err != nil {
		return "", err
	}
	return f.native[index-1], nil
}

func (f *sourceFake) Rasterize(_ context.Context, index int, _ float64) (image.Image, error) {
	if block := f.rasterBlock[index]; block != nil {
		<-block
	}
	if err := f.rasterErr[index]; err != nil {
		return nil, err
	}
	// The page index is smuggled through the image width.
	return image.NewGray(image.Rect(0, 0, index, 1)), nil
}

func (f *sourceFake) Close() error {
	f.closed = true
	return nil
}

type openerFake struct {
	source ports.PageSource
	err    error
}

func (f *openerFake) Open(context.Context, string) (ports.PageSource, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.source, nil
}

type recognizerFake struct {
	mu    sync.Mutex
	calls map[int]int
	texts map[int]string
	errs  map[int]error
	delay map[int]time.Duration
	// block makes a page hang until the test ends, ignoring ctx.
	block map[int]chan struct{}
}

func newRecognizerFake() *recognizerFake {
	return &recognizerFake{
		calls: map[int]int{},
		texts: map[int]string{},
		errs:  map[int]error{},
		delay: map[int]time.Duration{},
		block: map[int]chan struct{}{},
	}
}

func (f *recognizerFake) Recognize(_ context.Context, img image.Image, _ string) (string, error) {
	index := img.Bounds().Dx()
	f.mu.Lock()
	f.calls[index]++
	text, err, delay, block := f.texts[index], f.errs[index], f.delay[index], f.block[index]
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	return text, err
}

func (f *recognizerFake) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *recognizerFake) callsFor(index int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[index]
}

type observerFake struct {
	mu     sync.Mutex
	pages  map[domain.ExtractionMethod]int
	stages map[string]domain.StageStatus
}

func newObserverFake() *observerFake {
	return &observerFake{
		pages:  map[domain.ExtractionMethod]int{},
		stages: map[string]domain.StageStatus{},
	}
}

func (f *observerFake) ObservePage(method domain.ExtractionMethod) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[method]++
}

func (f *observerFake) ObserveRecognition(time.Duration, error) {}

func (f *observerFake) ObserveStage(stage string, status domain.StageStatus, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stages[stage] = status
}

var errBoom = errors.New("boom")
