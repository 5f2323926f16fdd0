// Package metrics provides Prometheus metrics for the analyst service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every collector of the service on its own registry.
// A nil *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	chatRequests   *prometheus.CounterVec
	llmLatency     *prometheus.HistogramVec
	llmErrors      *prometheus.CounterVec
	fetchResults   *prometheus.CounterVec
	vocabularySize *prometheus.GaugeVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	ingestedRows *prometheus.CounterVec
}

// NewManager creates a metrics manager. Without WithRegistry a fresh
// registry is used so tests can create managers freely.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "mleague",
		subsystem:        "analyst",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.chatRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "chat_requests_total",
		Help:      "Chat questions answered, by intent and outcome",
	}, []string{"intent", "outcome"})

	m.llmLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "llm_call_duration_seconds",
		Help:      "Upstream LLM call latency by pipeline stage",
		Buckets:   m.histogramBuckets,
	}, []string{"stage"})

	m.llmErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "llm_errors_total",
		Help:      "Upstream LLM failures by stage and error type",
	}, []string{"stage", "type"})

	m.fetchResults = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_results_total",
		Help:      "Cache queries by template and status",
	}, []string{"template", "status"})

	m.vocabularySize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "vocabulary_size",
		Help:      "Known names in the current vocabulary snapshot",
	}, []string{"kind"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.ingestedRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "rows_total",
		Help:      "Rows written to the cache by table",
	}, []string{"table"})
}

// Registry returns the underlying registry.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler exposes the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordChat counts one answered question.
func (m *Manager) RecordChat(intent, outcome string) {
	if m == nil {
		return
	}
	m.chatRequests.WithLabelValues(intent, outcome).Inc()
}

// ObserveLLM records one upstream call. errType is empty on success.
func (m *Manager) ObserveLLM(stage string, d time.Duration, errType string) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(stage).Observe(d.Seconds())
	if errType != "" {
		m.llmErrors.WithLabelValues(stage, errType).Inc()
	}
}

// RecordFetch counts one cache query outcome.
func (m *Manager) RecordFetch(template, status string) {
	if m == nil {
		return
	}
	m.fetchResults.WithLabelValues(template, status).Inc()
}

// SetVocabularySize publishes the size of the current vocabulary.
func (m *Manager) SetVocabularySize(teams, players int) {
	if m == nil {
		return
	}
	m.vocabularySize.WithLabelValues("team").Set(float64(teams))
	m.vocabularySize.WithLabelValues("player").Set(float64(players))
}

// ObserveHTTP records one served HTTP request.
func (m *Manager) ObserveHTTP(endpoint, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, code).Observe(d.Seconds())
}

// AddIngestedRows counts rows written by the ingestion job.
func (m *Manager) AddIngestedRows(table string, n int) {
	if m == nil {
		return
	}
	m.ingestedRows.WithLabelValues(table).Add(float64(n))
}
