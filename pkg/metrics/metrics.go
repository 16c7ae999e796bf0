// Package metrics defines the Prometheus metric collectors used by the search
// engine and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the engine. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	DocsDiscoveredTotal  prometheus.Counter
	DocsIndexedTotal     *prometheus.CounterVec
	PagesExtractedTotal  prometheus.Counter
	SearchQueriesTotal   *prometheus.CounterVec
	SearchLatency        prometheus.Histogram
	SnippetRequestsTotal *prometheus.CounterVec
	SnapshotOpsTotal     *prometheus.CounterVec
	IndexedTerms         prometheus.Gauge
}

// New creates all collectors and registers them with reg. Passing nil uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		DocsDiscoveredTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pdfsearch_docs_discovered_total",
				Help: "Total PDF files discovered by the crawler.",
			},
		),
		DocsIndexedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pdfsearch_docs_indexed_total",
				Help: "Documents processed by the indexer by status (success, failed).",
			},
			[]string{"status"},
		),
		PagesExtractedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pdfsearch_pages_extracted_total",
				Help: "Total pages of text extracted during indexing.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pdfsearch_search_queries_total",
				Help: "Total search queries by result type (hit, zero_result).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pdfsearch_search_latency_seconds",
				Help:    "Search lookup latency in seconds.",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),
		SnippetRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pdfsearch_snippet_requests_total",
				Help: "Snippet requests by status (ok, stale, error).",
			},
			[]string{"status"},
		),
		SnapshotOpsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pdfsearch_snapshot_operations_total",
				Help: "Snapshot save/load operations by op and status.",
			},
			[]string{"op", "status"},
		),
		IndexedTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pdfsearch_indexed_terms",
				Help: "Number of distinct words in the inverted index.",
			},
		),
	}

	reg.MustRegister(
		m.DocsDiscoveredTotal,
		m.DocsIndexedTotal,
		m.PagesExtractedTotal,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SnippetRequestsTotal,
		m.SnapshotOpsTotal,
		m.IndexedTerms,
	)

	return m
}

func (m *Metrics) DocumentDiscovered() {
	if m == nil {
		return
	}
	m.DocsDiscoveredTotal.Inc()
}

func (m *Metrics) DocumentIndexed(ok bool, pages int) {
	if m == nil {
		return
	}
	if !ok {
		m.DocsIndexedTotal.WithLabelValues("failed").Inc()
		return
	}
	m.DocsIndexedTotal.WithLabelValues("success").Inc()
	m.PagesExtractedTotal.Add(float64(pages))
}

func (m *Metrics) SearchServed(results int, elapsed time.Duration) {
	if m == nil {
		return
	}
	resultType := "hit"
	if results == 0 {
		resultType = "zero_result"
	}
	m.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	m.SearchLatency.Observe(elapsed.Seconds())
}

func (m *Metrics) SnippetServed(status string) {
	if m == nil {
		return
	}
	m.SnippetRequestsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) SnapshotOp(op string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.SnapshotOpsTotal.WithLabelValues(op, status).Inc()
}

func (m *Metrics) SetTerms(n int) {
	if m == nil {
		return
	}
	m.IndexedTerms.Set(float64(n))
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
