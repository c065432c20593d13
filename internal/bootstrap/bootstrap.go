package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/kirillkom/docdigest/internal/config"
	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/core/ports"
	"github.com/kirillkom/docdigest/internal/core/usecase"
	"github.com/kirillkom/docdigest/internal/infrastructure/nlp"
	"github.com/kirillkom/docdigest/internal/infrastructure/nlp/segment"
	"github.com/kirillkom/docdigest/internal/infrastructure/ocr/ollama"
	"github.com/kirillkom/docdigest/internal/infrastructure/ocr/tesseract"
	"github.com/kirillkom/docdigest/internal/infrastructure/pagesource"
	"github.com/kirillkom/docdigest/internal/infrastructure/queue/nats"
	"github.com/kirillkom/docdigest/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/docdigest/internal/infrastructure/resilience"
	"github.com/kirillkom/docdigest/internal/infrastructure/storage/localfs"
)

const (
	OCRBackendTesseract = "tesseract"
	OCRBackendOllama    = "ollama"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	Analyzer  ports.DocumentAnalyzer
	UploadUC  ports.UploadAnalyzer
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor

	executors []*resilience.Executor
	closeFn   func()
}

// Pipeline is the storage-backed analysis core shared by every binary.
type Pipeline struct {
	Storage  ports.ObjectStorage
	Analyzer *usecase.AnalyzeDocumentUseCase
	UploadUC *usecase.AnalyzeUploadUseCase
	Defaults domain.AnalysisOptions

	// executors guarding remote calls; empty for local OCR.
	executors []*resilience.Executor
}

type recognizerBackend interface {
	ports.OpticalRecognizer
	ports.Initializer
}

// NewPipeline builds the analysis pipeline and runs the recognizer's
// start-up check once.
func NewPipeline(ctx context.Context, cfg config.Config, observer ports.PipelineObserver) (*Pipeline, error) {
	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	recognizer, executor, err := newRecognizer(cfg)
	if err != nil {
		return nil, err
	}
	if err := recognizer.Init(ctx); err != nil {
		return nil, fmt.Errorf("init ocr backend %s: %w", cfg.Pipeline.OCRBackend, err)
	}

	summarizer, err := nlp.NewSummarizer(cfg.Pipeline.SummaryStrategy, cfg.Pipeline.SummaryCentrality)
	if err != nil {
		return nil, err
	}
	keywords, err := nlp.NewKeywordExtractor(cfg.Pipeline.KeywordStrategy)
	if err != nil {
		return nil, err
	}

	loader := usecase.NewDocumentLoader(pagesource.NewOpener(storage), recognizer, observer, usecase.LoaderConfig{
		Language:       cfg.Pipeline.OCRLanguage,
		DPI:            cfg.Pipeline.OCRDPI,
		PageTimeout:    cfg.Pipeline.OCRPageTimeout,
		PageWorkers:    cfg.Pipeline.PageWorkers,
		OCRConcurrency: cfg.Pipeline.OCRConcurrency,
	})

	defaults := cfg.Pipeline.AnalysisDefaults()
	analyzer := usecase.NewAnalyzeDocumentUseCase(loader, segment.NewSplitter(), summarizer, keywords, observer, defaults)

	slog.Info("pipeline_ready",
		"ocr_backend", cfg.Pipeline.OCRBackend,
		"summary_strategy", cfg.Pipeline.SummaryStrategy,
		"summary_centrality", cfg.Pipeline.SummaryCentrality,
		"keyword_strategy", cfg.Pipeline.KeywordStrategy,
	)

	p := &Pipeline{
		Storage:  storage,
		Analyzer: analyzer,
		UploadUC: usecase.NewAnalyzeUploadUseCase(storage, analyzer),
		Defaults: defaults,
	}
	if executor != nil {
		p.executors = append(p.executors, executor)
	}
	return p, nil
}

// BreakerStates reports the circuit state of every remote operation the
// pipeline has called so far.
func (p *Pipeline) BreakerStates() map[string]string {
	return mergeBreakerStates(p.executors)
}

func newRecognizer(cfg config.Config) (recognizerBackend, *resilience.Executor, error) {
	switch cfg.Pipeline.OCRBackend {
	case "", OCRBackendTesseract:
		return tesseract.New(cfg.Pipeline.OCRLanguage), nil, nil
	case OCRBackendOllama:
		client := ollama.New(cfg.Pipeline.OllamaURL, cfg.Pipeline.OllamaVisionModel)
		executor := resilience.NewExecutor(cfg.Resilience())
		return ollama.NewRecognizer(client, executor), executor, nil
	default:
		return nil, nil, domain.WrapError(domain.ErrInvalidInput, "select ocr backend", fmt.Errorf("unknown backend %q", cfg.Pipeline.OCRBackend))
	}
}

// New wires the full service: pipeline, PostgreSQL, NATS and use cases.
func New(ctx context.Context, cfg config.Config, observer ports.PipelineObserver) (*App, error) {
	pipeline, err := NewPipeline(ctx, cfg, observer)
	if err != nil {
		return nil, err
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	publishExecutor := resilience.NewExecutor(resilience.PublishConfig())
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		HandlerTimeout:     cfg.WorkerProcessTimeout,
		ResilienceExecutor: publishExecutor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ingestUC := usecase.NewIngestDocumentUseCase(repo, pipeline.Storage, queue, pipeline.Defaults)
	processUC := usecase.NewProcessDocumentUseCase(repo, pipeline.Analyzer)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		Analyzer:  pipeline.Analyzer,
		UploadUC:  pipeline.UploadUC,
		IngestUC:  ingestUC,
		ProcessUC: processUC,

		executors: append(slices.Clone(pipeline.executors), publishExecutor),
		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// BreakerStates reports the circuit state of OCR and publish operations.
func (a *App) BreakerStates() map[string]string {
	return mergeBreakerStates(a.executors)
}

func mergeBreakerStates(executors []*resilience.Executor) map[string]string {
	out := make(map[string]string)
	for _, executor := range executors {
		maps.Copy(out, executor.BreakerStates())
	}
	return out
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
