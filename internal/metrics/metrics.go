package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Transactions
	TransactionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transactions_created_total",
			Help: "Transactions inserted.",
		},
	)
	TransactionsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transactions_deleted_total",
			Help: "Transactions deleted.",
		},
	)
	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Failed store operations by operation.",
		},
		[]string{"op"}, // list|create|delete|summary
	)

	// Rate limit gate
	RateLimitDenied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limit_denied_total",
			Help: "Requests rejected with 429.",
		},
	)
	RateLimitErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limit_errors_total",
			Help: "Limiter calls that failed without a decision.",
		},
	)

	initOnce sync.Once
)

// Handler serves /metrics.
var Handler = promhttp.Handler

// Init registers the collectors on the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			HTTPLatency,
			TransactionsCreated,
			TransactionsDeleted,
			StoreErrors,
			RateLimitDenied,
			RateLimitErrors,
		)
	})
}
