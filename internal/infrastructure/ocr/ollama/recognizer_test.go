package ollama

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/infrastructure/resilience"
)

func TestRecognizeSendsImageAndLanguage(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"response":"  Scanned invoice total 42.  "}`))
	}))
	defer server.Close()

	rec := NewRecognizer(New(server.URL, "llava"), nil)
	text, err := rec.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 8, 8)), "deu")
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if text != "Scanned invoice total 42." {
		t.Fatalf("unexpected text %q", text)
	}
	if captured["model"] != "llava" {
		t.Fatalf("unexpected model %v", captured["model"])
	}
	images, _ := captured["images"].([]any)
	if len(images) != 1 || images[0] == "" {
		t.Fatalf("expected one encoded image, got %v", captured["images"])
	}
	prompt, _ := captured["prompt"].(string)
	if !strings.Contains(prompt, "German") {
		t.Fatalf("expected language in prompt, got %q", prompt)
	}
}

func TestRecognizeRetriesAndMarksTemporary(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	exec := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     1,
		BreakerEnabled:      false,
	})
	rec := NewRecognizer(New(server.URL, "llava"), exec)
	_, err := rec.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 4, 4)), "eng")
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
	if !strings.Contains(err.Error(), "model loading") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/api/show" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	rec := NewRecognizer(New(server.URL, "llava"), nil)
	for i := 0; i < 3; i++ {
		if err := rec.Init(context.Background()); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single model check, got %d", calls)
	}
}
