// Package health aggregates degraded-path diagnostics and search metrics.
package health

import (
	"maps"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rubiojr/docsearch/pkg/core"
	"github.com/rubiojr/docsearch/pkg/log"
	"github.com/rubiojr/docsearch/pkg/realtime"
)

// MaxRecent is the number of diagnostics kept for status reports.
const MaxRecent = 20

var (
	diagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docsearch_diagnostics_total",
		Help: "Absorbed failures by component and operation",
	}, []string{"component", "op"})

	searchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docsearch_searches_total",
		Help: "Total tracked searches",
	})

	noResultSearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docsearch_no_result_searches_total",
		Help: "Total tracked searches that returned no results",
	})

	clicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docsearch_clicks_total",
		Help: "Total tracked result clicks",
	})

	resultsPerSearch = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "docsearch_results_per_search",
		Help:    "Number of results returned per search",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})

	indexDocuments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "docsearch_index_documents",
		Help: "Documents in the loaded index",
	})
)

// ObserveSearch records a tracked search returning count results.
func ObserveSearch(count int) {
	searchesTotal.Inc()
	if count == 0 {
		noResultSearchesTotal.Inc()
	}
	resultsPerSearch.Observe(float64(count))
}

// ObserveClick records a tracked click.
func ObserveClick() {
	clicksTotal.Inc()
}

// SetIndexDocuments records the size of the loaded index.
func SetIndexDocuments(n int) {
	indexDocuments.Set(float64(n))
}

// Status is a snapshot of the diagnostics seen by a Monitor.
type Status struct {
	Healthy     bool              `json:"healthy"`
	Counts      map[string]int    `json:"counts"`
	Recent      []core.Diagnostic `json:"recent"`
	Diagnostics int               `json:"diagnostics"`
}

// Monitor implements core.Reporter. Every diagnostic is logged, counted and,
// when a publisher is set, forwarded as a realtime event.
type Monitor struct {
	mu        sync.Mutex
	counts    map[string]int
	recent    []core.Diagnostic
	total     int
	publisher realtime.Publisher
	logger    *log.Logger
}

// NewMonitor returns a Monitor. publisher may be nil.
func NewMonitor(publisher realtime.Publisher) *Monitor {
	return &Monitor{
		counts:    make(map[string]int),
		publisher: publisher,
		logger:    log.ForService("health"),
	}
}

// Report records d.
func (m *Monitor) Report(d core.Diagnostic) {
	m.logger.Warnf("%s: %s failed: %s", d.Component, d.Op, d.Err)
	diagnosticsTotal.WithLabelValues(d.Component, d.Op).Inc()

	m.mu.Lock()
	m.counts[d.Component]++
	m.total++
	m.recent = append(m.recent, d)
	if len(m.recent) > MaxRecent {
		m.recent = m.recent[len(m.recent)-MaxRecent:]
	}
	publisher := m.publisher
	m.mu.Unlock()

	if publisher != nil {
		publisher.Publish(realtime.NewDiagnosticEvent(d))
	}
}

// Status returns a copy of the current state. The service is healthy while
// no diagnostic has been reported.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	recent := make([]core.Diagnostic, len(m.recent))
	copy(recent, m.recent)
	return Status{
		Healthy:     m.total == 0,
		Counts:      maps.Clone(m.counts),
		Recent:      recent,
		Diagnostics: m.total,
	}
}
