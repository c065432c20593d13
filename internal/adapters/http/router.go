package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/kirillkom/docdigest/internal/config"
	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/core/ports"
	"github.com/kirillkom/docdigest/internal/observability/metrics"
)

const (
	serviceName        = "api"
	multipartMemory    = 8 << 20
	defaultMaxUploadMB = 50
)

type Router struct {
	cfg      config.Config
	analyzer ports.UploadAnalyzer
	ingestor ports.DocumentIngestor
	docs     ports.DocumentReader
	metrics  *metrics.HTTPServerMetrics
	breakers metrics.BreakerStateSource
}

func NewRouter(
	cfg config.Config,
	analyzer ports.UploadAnalyzer,
	ingestor ports.DocumentIngestor,
	docs ports.DocumentReader,
) *Router {
	return &Router{
		cfg:      cfg,
		analyzer: analyzer,
		ingestor: ingestor,
		docs:     docs,
	}
}

// WithBreakers adds circuit breaker states to /healthz.
func (rt *Router) WithBreakers(source metrics.BreakerStateSource) *Router {
	rt.breakers = source
	return rt
}

// WithMetrics enables /metrics and request instrumentation.
func (rt *Router) WithMetrics(m *metrics.HTTPServerMetrics) *Router {
	rt.metrics = m
	return rt
}

func (rt *Router) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/v1/analyze", rt.analyzeDocument)
	api.HandleFunc("/v1/documents", rt.uploadDocument)
	api.HandleFunc("/v1/documents/", rt.getDocumentByID)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.Handle("/v1/", rt.trafficControl(api))
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) trafficControl(next http.Handler) http.Handler {
	handler := backpressureWithReject(next, rt.cfg.APIMaxInFlight, rt.cfg.APIBackpressureWait, rt.rejected("backpressure"))
	return rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, rt.rejected("rate_limit"))
}

func (rt *Router) rejected(reason string) func() {
	return func() {
		if rt.metrics != nil {
			rt.metrics.RecordRejected(serviceName, reason)
		}
	}
}

type healthResponse struct {
	Status   string            `json:"status"`
	Breakers map[string]string `json:"breakers,omitempty"`
}

// healthz stays 200 while a breaker is open: the API can still serve
// native-text documents, so the instance should not be taken out of rotation.
func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok"}
	if rt.breakers != nil {
		resp.Breakers = rt.breakers.BreakerStates()
		for _, state := range resp.Breakers {
			if state == "open" {
				resp.Status = "degraded"
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type analysisResponse struct {
	Filename string `json:"filename"`
	domain.Rendered
	PageMethods []domain.ExtractionMethod `json:"page_methods"`
	Stages      domain.StageReport        `json:"stages"`
}

func (rt *Router) analyzeDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	upload, ok := rt.readUpload(w, r, "/v1/analyze")
	if !ok {
		return
	}
	defer upload.Close()

	ctx := r.Context()
	if rt.cfg.APIAnalyzeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.cfg.APIAnalyzeTimeout)
		defer cancel()
	}

	analysis, err := rt.analyzer.AnalyzeUpload(ctx, upload.filename, upload.options, upload.file)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analysisResponse{
		Filename:    upload.filename,
		Rendered:    analysis.Render(),
		PageMethods: analysis.PageMethods(),
		Stages:      analysis.Report(),
	})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	upload, ok := rt.readUpload(w, r, "/v1/documents")
	if !ok {
		return
	}
	defer upload.Close()

	doc, err := rt.ingestor.Upload(r.Context(), upload.filename, upload.mimeType, upload.options, upload.file)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}

	doc, err := rt.docs.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type multipartUpload struct {
	file     multipart.File
	filename string
	mimeType string
	options  domain.AnalysisOptions
}

func (u multipartUpload) Close() {
	_ = u.file.Close()
}

// readUpload parses the multipart body and writes the error response itself
// when it returns false.
func (rt *Router) readUpload(w http.ResponseWriter, r *http.Request, endpoint string) (multipartUpload, bool) {
	maxMB := rt.cfg.APIMaxUploadMB
	if maxMB <= 0 {
		maxMB = defaultMaxUploadMB
	}
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxMB)<<20)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d MB", maxMB))
			return multipartUpload{}, false
		}
		writeError(w, http.StatusBadRequest, "multipart form is required")
		return multipartUpload{}, false
	}

	opts, err := parseAnalysisOptions(r)
	if err != nil {
		writeDomainError(w, err)
		return multipartUpload{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return multipartUpload{}, false
	}
	if rt.metrics != nil {
		rt.metrics.RecordUpload(serviceName, endpoint, header.Size)
	}

	return multipartUpload{
		file:     file,
		filename: header.Filename,
		mimeType: header.Header.Get("Content-Type"),
		options:  opts,
	}, true
}

// parseAnalysisOptions reads optional form fields. Both artifacts are wanted
// unless a flag says otherwise; zero sizes fall back to configured defaults.
func parseAnalysisOptions(r *http.Request) (domain.AnalysisOptions, error) {
	opts := domain.AnalysisOptions{WantSummary: true, WantKeywords: true}

	var err error
	if opts.SummaryLength, err = formInt(r, "summary_length"); err != nil {
		return domain.AnalysisOptions{}, err
	}
	if opts.TopKeywords, err = formInt(r, "top_keywords"); err != nil {
		return domain.AnalysisOptions{}, err
	}
	if opts.WantSummary, err = formBool(r, "want_summary", true); err != nil {
		return domain.AnalysisOptions{}, err
	}
	if opts.WantKeywords, err = formBool(r, "want_keywords", true); err != nil {
		return domain.AnalysisOptions{}, err
	}
	return opts, nil
}

func formInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, domain.WrapError(domain.ErrInvalidInput, "parse options", fmt.Errorf("%s must be a positive integer", key))
	}
	return n, nil
}

func formBool(r *http.Request, key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.WrapError(domain.ErrInvalidInput, "parse options", fmt.Errorf("%s must be a boolean", key))
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, mapErrorToHTTPStatus(err), err.Error())
}
