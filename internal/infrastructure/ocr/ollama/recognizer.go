package ollama

import (
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/infrastructure/pagesource/raster"
	"github.com/kirillkom/docdigest/internal/infrastructure/resilience"
)

type Recognizer struct {
	client   *Client
	executor *resilience.Executor

	once    sync.Once
	initErr error
}

func NewRecognizer(client *Client, executor *resilience.Executor) *Recognizer {
	return &Recognizer{client: client, executor: executor}
}

// Init checks once that the vision model is available on the server.
func (r *Recognizer) Init(ctx context.Context) error {
	r.once.Do(func() {
		err := r.client.postJSON(ctx, "/api/show", map[string]any{"model": r.client.visionModel}, nil, "show")
		if err != nil {
			r.initErr = domain.WrapError(domain.ErrExtractionFailure, "init ollama vision model", err)
			return
		}
		slog.Info("ocr_backend_ready", "backend", "ollama", "model", r.client.visionModel)
	})
	return r.initErr
}

func (r *Recognizer) Recognize(ctx context.Context, img image.Image, languageHint string) (string, error) {
	encoded, err := raster.EncodePNG(img)
	if err != nil {
		return "", err
	}
	reqBody := map[string]any{
		"model":  r.client.visionModel,
		"prompt": buildTranscriptionPrompt(languageHint),
		"images": []string{base64.StdEncoding.EncodeToString(encoded)},
		"stream": false,
		"options": map[string]any{
			"temperature": 0,
		},
	}

	text, err := resilience.Call(ctx, r.executor, "ollama.recognize", func(callCtx context.Context) (string, error) {
		return r.client.generate(callCtx, reqBody)
	}, classifyOllamaError)
	if err != nil {
		return "", wrapTemporaryIfNeeded("ollama recognize", fmt.Errorf("recognize page: %w", err))
	}
	return text, nil
}
