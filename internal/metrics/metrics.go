// file: internal/metrics/metrics.go
// version: 1.1.0
// guid: 2f3a4b5c-6d7e-8f9a-0b1c-2d3e4f5a6b7c

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	searchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gazetteer",
		Name:      "searches_total",
		Help:      "Total number of search calls handled",
	})
	searchEmpty = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gazetteer",
		Name:      "searches_empty_query_total",
		Help:      "Total number of search calls short-circuited on an empty query",
	})
	lookupFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gazetteer",
		Name:      "store_lookup_failures_total",
		Help:      "Name-match lookups that failed, by entity type (fail-soft)",
	}, []string{"type"})
	searchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gazetteer",
		Name:      "search_duration_seconds",
		Help:      "Histogram of end-to-end search durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms up to ~4s
	})
	variantCount = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gazetteer",
		Name:      "search_variants",
		Help:      "Histogram of candidate variant counts per search",
		Buckets:   prometheus.LinearBuckets(1, 2, 10),
	})

	placesGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gazetteer",
		Name:      "places_total",
		Help:      "Current number of place records, by entity type",
	}, []string{"type"})
	importedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gazetteer",
		Name:      "import_rows_total",
		Help:      "CSV import rows processed, by outcome",
	}, []string{"outcome"})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(searchesTotal, searchEmpty, lookupFailed,
			searchDuration, variantCount, placesGauge, importedTotal)
	})
}

// Search lifecycle helpers
func IncSearch()                        { searchesTotal.Inc() }
func IncSearchEmptyQuery()              { searchEmpty.Inc() }
func IncLookupFailed(entityType string) { lookupFailed.WithLabelValues(entityType).Inc() }
func ObserveSearchDuration(d time.Duration) {
	searchDuration.Observe(d.Seconds())
}
func ObserveVariantCount(n int) { variantCount.Observe(float64(n)) }

// Gauges and import counters
func SetPlaces(entityType string, n int) { placesGauge.WithLabelValues(entityType).Set(float64(n)) }
func IncImported(outcome string)         { importedTotal.WithLabelValues(outcome).Inc() }
