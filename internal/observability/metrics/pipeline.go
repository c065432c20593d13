package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/docdigest/internal/core/domain"
)

// PipelineMetrics implements ports.PipelineObserver on top of Prometheus.
type PipelineMetrics struct {
	service string

	pagesTotal         *prometheus.CounterVec
	recognitionSeconds *prometheus.HistogramVec
	stageTotal         *prometheus.CounterVec
	stageSeconds       *prometheus.HistogramVec
}

// NewPipelineMetrics registers the pipeline collectors on registerer, which
// is usually the registry of the process's HTTP or worker metrics.
func NewPipelineMetrics(service string, registerer prometheus.Registerer) *PipelineMetrics {
	pagesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docdigest",
			Subsystem: "pipeline",
			Name:      "pages_total",
			Help:      "Loaded pages by extraction method.",
		},
		[]string{"service", "method"},
	)
	recognitionSeconds := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docdigest",
			Subsystem: "pipeline",
			Name:      "recognition_duration_seconds",
			Help:      "Optical recognition latency per page by result.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"service", "result"},
	)
	stageTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docdigest",
			Subsystem: "pipeline",
			Name:      "stage_total",
			Help:      "Pipeline stage outcomes by stage and status.",
		},
		[]string{"service", "stage", "status"},
	)
	stageSeconds := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docdigest",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "stage"},
	)

	registerer.MustRegister(pagesTotal, recognitionSeconds, stageTotal, stageSeconds)

	return &PipelineMetrics{
		service:            service,
		pagesTotal:         pagesTotal,
		recognitionSeconds: recognitionSeconds,
		stageTotal:         stageTotal,
		stageSeconds:       stageSeconds,
	}
}

func (m *PipelineMetrics) ObservePage(method domain.ExtractionMethod) {
	m.pagesTotal.WithLabelValues(m.service, string(method)).Inc()
}

func (m *PipelineMetrics) ObserveRecognition(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.recognitionSeconds.WithLabelValues(m.service, result).Observe(duration.Seconds())
}

func (m *PipelineMetrics) ObserveStage(stage string, status domain.StageStatus, duration time.Duration) {
	m.stageTotal.WithLabelValues(m.service, stage, string(status)).Inc()
	if status == domain.StageNotRequested {
		return
	}
	m.stageSeconds.WithLabelValues(m.service, stage).Observe(duration.Seconds())
}
