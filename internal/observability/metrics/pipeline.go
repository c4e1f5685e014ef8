package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics covers the evaluation pipeline behind the HTTP surface:
// whole evaluation runs, research-type distribution, and the individual
// embedding/generation round trips.
type PipelineMetrics struct {
	evaluationsTotal    *prometheus.CounterVec
	evaluationDuration  *prometheus.HistogramVec
	documentChunks      *prometheus.HistogramVec
	classificationTotal *prometheus.CounterVec
	capabilityTotal     *prometheus.CounterVec
	capabilityDuration  *prometheus.HistogramVec
}

// NewPipelineMetrics registers the pipeline collectors into an existing
// registry so they share the server's /metrics endpoint.
func NewPipelineMetrics(registry prometheus.Registerer) *PipelineMetrics {
	evaluationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paperlens",
			Subsystem: "pipeline",
			Name:      "evaluations_total",
			Help:      "Total evaluation runs by kind and status.",
		},
		[]string{"service", "kind", "status"},
	)
	evaluationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "paperlens",
			Subsystem: "pipeline",
			Name:      "evaluation_duration_seconds",
			Help:      "End-to-end evaluation duration in seconds by kind.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 1800},
		},
		[]string{"service", "kind"},
	)
	documentChunks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "paperlens",
			Subsystem: "pipeline",
			Name:      "document_chunks",
			Help:      "Distribution of chunks per evaluated document.",
			Buckets:   []float64{5, 10, 20, 40, 80, 160, 320},
		},
		[]string{"service"},
	)
	classificationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paperlens",
			Subsystem: "pipeline",
			Name:      "classifications_total",
			Help:      "Total classified documents by research type and confidence.",
		},
		[]string{"service", "research_type", "confidence"},
	)
	capabilityTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paperlens",
			Subsystem: "llm",
			Name:      "capability_calls_total",
			Help:      "Total embedding and generation calls by status.",
		},
		[]string{"service", "operation", "status"},
	)
	capabilityDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "paperlens",
			Subsystem: "llm",
			Name:      "capability_call_duration_seconds",
			Help:      "Embedding and generation call duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"service", "operation"},
	)

	registry.MustRegister(
		evaluationsTotal,
		evaluationDuration,
		documentChunks,
		classificationTotal,
		capabilityTotal,
		capabilityDuration,
	)

	return &PipelineMetrics{
		evaluationsTotal:    evaluationsTotal,
		evaluationDuration:  evaluationDuration,
		documentChunks:      documentChunks,
		classificationTotal: classificationTotal,
		capabilityTotal:     capabilityTotal,
		capabilityDuration:  capabilityDuration,
	}
}

func (m *PipelineMetrics) RecordEvaluation(service, kind string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.evaluationsTotal.WithLabelValues(service, kind, status).Inc()
	m.evaluationDuration.WithLabelValues(service, kind).Observe(duration.Seconds())
}

func (m *PipelineMetrics) RecordDocument(service string, chunkCount int) {
	m.documentChunks.WithLabelValues(service).Observe(float64(chunkCount))
}

func (m *PipelineMetrics) RecordClassification(service, researchType, confidence string) {
	if researchType == "" {
		researchType = "unknown"
	}
	if confidence == "" {
		confidence = "unknown"
	}
	m.classificationTotal.WithLabelValues(service, researchType, confidence).Inc()
}

func (m *PipelineMetrics) RecordCapabilityCall(service, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.capabilityTotal.WithLabelValues(service, operation, status).Inc()
	m.capabilityDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}
