package middleware

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitledger_http_requests_total",
			Help: "Total HTTP requests by method, route pattern and status.",
		},
		[]string{"method", "route", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "splitledger_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ExpensesRecorded counts successfully recorded expenses.
	ExpensesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitledger_expenses_recorded_total",
		Help: "Total expenses appended to the ledger.",
	})
)

// Metrics records a request counter and latency histogram per route.
// Labels use the mux route pattern, not the raw path, to keep cardinality
// bounded.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			requestDuration.WithLabelValues(r.Method, route).Observe(v)
			requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		}))
		defer timer.ObserveDuration()

		next.ServeHTTP(rec, r)
	})
}
