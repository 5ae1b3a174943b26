package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Record store metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of record store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_query_errors_total",
			Help: "Total number of record store query errors",
		},
		[]string{"operation", "table"},
	)

	StoreRowsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_rows_fetched_total",
			Help: "Total number of rows read from the record store",
		},
		[]string{"table"},
	)

	// Analytics metrics
	AnalyticsQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_query_duration_seconds",
			Help:    "Duration of analytics aggregations in seconds, store time included",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	AnalyticsQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_query_errors_total",
			Help: "Total number of failed analytics queries by error kind",
		},
		[]string{"operation", "kind"},
	)

	DefaultEntranceFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_default_entrance_missing_total",
			Help: "Area statistics computed with an entry shortfall but no default entrance area",
		},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordStoreQuery records the outcome of one record store query.
func RecordStoreQuery(operation, table string, start time.Time, rows int, err error) {
	StoreQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(operation, table).Inc()
		return
	}
	StoreRowsFetched.WithLabelValues(table).Add(float64(rows))
}

// RecordAnalyticsQuery records the outcome of one analytics operation.
// kind is empty on success.
func RecordAnalyticsQuery(operation string, start time.Time, kind string) {
	AnalyticsQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if kind != "" {
		AnalyticsQueryErrors.WithLabelValues(operation, kind).Inc()
	}
}

// RecordAPIRequest records API request metrics.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
