package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/docdigest/internal/config"
	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/observability/metrics"
)

type analyzerFake struct {
	err      error
	gotName  string
	gotOpts  domain.AnalysisOptions
	gotBody  string
	analysis domain.Analysis
}

func (f *analyzerFake) AnalyzeUpload(_ context.Context, filename string, opts domain.AnalysisOptions, body io.Reader) (domain.Analysis, error) {
	if f.err != nil {
		return domain.Analysis{}, f.err
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return domain.Analysis{}, err
	}
	f.gotName, f.gotOpts, f.gotBody = filename, opts, string(raw)
	return f.analysis, nil
}

type ingestFake struct {
	err     error
	gotOpts domain.AnalysisOptions
}

func (f *ingestFake) Upload(_ context.Context, filename, mimeType string, opts domain.AnalysisOptions, body io.Reader) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", io.EOF)
	}
	f.gotOpts = opts
	now := time.Now().UTC()
	return &domain.Document{
		ID:          "doc-1",
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: "doc-1_" + filename,
		Options:     opts,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type docsFake struct {
	err error
}

func (f docsFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Document{ID: "doc-1", Filename: "a.txt", MimeType: "text/plain", StoragePath: "a", Status: domain.StatusReady}, nil
}

func emptyAnalysis() domain.Analysis {
	return domain.Analysis{
		Pages:    []domain.Page{{Index: 1, Method: domain.MethodFailed}},
		Text:     domain.NewOutcome[domain.TaggedText]("", domain.Degenerate(domain.ErrExtractionFailure, "load", "blank")),
		Summary:  domain.NewOutcome(domain.SummarySelection{}, domain.Degenerate(domain.ErrSegmentationDegenerate, "summarize", "blank")),
		Keywords: domain.NewOutcome[[]domain.Keyword](nil, domain.Degenerate(domain.ErrKeywordFailure, "keywords", "blank")),
	}
}

func multipartRequest(t *testing.T, path, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = part.Write([]byte(content))
	}
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newTestHandler(cfg config.Config, analyzer *analyzerFake, ingest *ingestFake, docs docsFake) http.Handler {
	if analyzer == nil {
		analyzer = &analyzerFake{analysis: emptyAnalysis()}
	}
	if ingest == nil {
		ingest = &ingestFake{}
	}
	return NewRouter(cfg, analyzer, ingest, docs).Handler()
}

func TestHealthzEndpoint(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil, docsFake{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

type breakersFake map[string]string

func (f breakersFake) BreakerStates() map[string]string { return f }

func TestHealthzReportsOpenBreaker(t *testing.T) {
	handler := NewRouter(config.Config{}, &analyzerFake{}, &ingestFake{}, docsFake{}).
		WithBreakers(breakersFake{"ollama.recognize": "open", "nats.publish": "closed"}).
		Handler()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var body healthResponse
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode healthz: %v", err)
	}
	if body.Status != "degraded" || body.Breakers["ollama.recognize"] != "open" {
		t.Fatalf("unexpected healthz body %+v", body)
	}
}

func TestAnalyzeReturnsSentinelsForEmptyDocument(t *testing.T) {
	analyzer := &analyzerFake{analysis: emptyAnalysis()}
	handler := newTestHandler(config.Config{}, analyzer, nil, docsFake{})

	req := multipartRequest(t, "/v1/analyze", "blank.pdf", "%PDF-1.7", map[string]string{"summary_length": "2"})
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var resp analysisResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Text != domain.SentinelNoContent || resp.Summary != domain.SentinelNoSummary {
		t.Fatalf("unexpected rendering: %+v", resp)
	}
	if len(resp.Keywords) != 1 || resp.Keywords[0] != domain.SentinelNoKeywords {
		t.Fatalf("unexpected keywords: %v", resp.Keywords)
	}
	if len(resp.PageMethods) != 1 || resp.PageMethods[0] != domain.MethodFailed {
		t.Fatalf("unexpected page methods: %v", resp.PageMethods)
	}
	if resp.Stages.Text != domain.StageEmpty {
		t.Fatalf("unexpected stages: %+v", resp.Stages)
	}
	if analyzer.gotName != "blank.pdf" || analyzer.gotBody != "%PDF-1.7" {
		t.Fatalf("unexpected upload passed to analyzer: %q %q", analyzer.gotName, analyzer.gotBody)
	}
	if analyzer.gotOpts.SummaryLength != 2 || !analyzer.gotOpts.WantSummary || !analyzer.gotOpts.WantKeywords {
		t.Fatalf("unexpected options: %+v", analyzer.gotOpts)
	}
}

func TestAnalyzeParsesDisabledArtifacts(t *testing.T) {
	analyzer := &analyzerFake{analysis: emptyAnalysis()}
	handler := newTestHandler(config.Config{}, analyzer, nil, docsFake{})

	req := multipartRequest(t, "/v1/analyze", "a.txt", "x", map[string]string{"want_keywords": "false"})
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if analyzer.gotOpts.WantKeywords || !analyzer.gotOpts.WantSummary {
		t.Fatalf("unexpected options: %+v", analyzer.gotOpts)
	}
}

func TestAnalyzeRejectsInvalidOptions(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil, docsFake{})

	for _, fields := range []map[string]string{
		{"summary_length": "0"},
		{"top_keywords": "many"},
		{"want_summary": "maybe"},
	} {
		req := multipartRequest(t, "/v1/analyze", "a.txt", "x", fields)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		if res.Code != http.StatusBadRequest {
			t.Fatalf("fields %v: expected 400, got %d", fields, res.Code)
		}
	}
}

func TestAnalyzeRequiresFile(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil, docsFake{})
	req := multipartRequest(t, "/v1/analyze", "", "", map[string]string{"summary_length": "1"})
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestAnalyzeRejectsOversizedUpload(t *testing.T) {
	handler := newTestHandler(config.Config{APIMaxUploadMB: 1}, nil, nil, docsFake{})
	req := multipartRequest(t, "/v1/analyze", "big.txt", strings.Repeat("a", 2<<20), nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", res.Code)
	}
}

func TestAnalyzeMapsTemporaryErrorTo503(t *testing.T) {
	analyzer := &analyzerFake{err: domain.WrapError(domain.ErrTemporary, "stage upload", errors.New("disk busy"))}
	handler := newTestHandler(config.Config{}, analyzer, nil, docsFake{})

	req := multipartRequest(t, "/v1/analyze", "a.txt", "x", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}
}

func TestUploadDocumentAccepted(t *testing.T) {
	ingest := &ingestFake{}
	handler := newTestHandler(config.Config{}, nil, ingest, docsFake{})

	req := multipartRequest(t, "/v1/documents", "notes.txt", "hello", map[string]string{"top_keywords": "4"})
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}
	var doc domain.Document
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if doc.ID != "doc-1" || doc.Status != domain.StatusUploaded {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if ingest.gotOpts.TopKeywords != 4 {
		t.Fatalf("expected options to reach ingestor, got %+v", ingest.gotOpts)
	}
}

func TestUploadDocumentEmptyBodyIs400(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil, docsFake{})
	req := multipartRequest(t, "/v1/documents", "empty.txt", "", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestGetDocumentByIDReturns404ForNotFound(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil,
		docsFake{err: domain.WrapError(domain.ErrDocumentNotFound, "get", errors.New("id=missing"))})

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil, docsFake{})
	req := httptest.NewRequest(http.MethodGet, "/v1/analyze", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}

func TestMetricsEndpointExposesRequestCounters(t *testing.T) {
	handler := NewRouter(config.Config{}, &analyzerFake{analysis: emptyAnalysis()}, &ingestFake{}, docsFake{}).
		WithMetrics(metrics.NewHTTPServerMetrics(serviceName)).
		Handler()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/documents/doc-1", nil))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), `docdigest_http_requests_total{method="GET",path="/v1/documents/{document_id}"`) {
		t.Fatalf("expected normalized request counter, got:\n%s", res.Body.String())
	}
}
