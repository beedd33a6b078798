package http

import (
	"net/http"
	"strconv"
	"time"

	"community-feed/internal/handler/http/pathutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labels)
}

func gauge(name, help string) prometheus.Gauge {
	return promauto.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
}

func histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(
		prometheus.HistogramOpts{Name: name, Help: help, Buckets: buckets},
		labels,
	)
}

var (
	httpRequestsTotal = counterVec("http_requests_total",
		"Total number of HTTP requests",
		"method", "path", "status")

	// Buckets span 5ms to 10s so p95/p99 stay readable for both cached
	// listings and cold aggregate queries.
	httpRequestDuration = histogramVec("http_request_duration_seconds",
		"HTTP request duration in seconds",
		[]float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		"method", "path", "status")

	httpRequestsInFlight = gauge("http_requests_in_flight",
		"Current number of HTTP requests being served")

	httpRequestSize = histogramVec("http_request_size_bytes",
		"HTTP request size in bytes",
		prometheus.ExponentialBuckets(100, 10, 8),
		"method", "path")

	httpResponseSize = histogramVec("http_response_size_bytes",
		"HTTP response size in bytes",
		prometheus.ExponentialBuckets(100, 10, 8),
		"method", "path")

	activeConnections = gauge("http_active_connections",
		"Number of active HTTP connections")

	// Collection sizes, refreshed by the stats poller.
	postsTotal = gauge("posts_total",
		"Total number of posts in the database")

	topicsTotal = gauge("topics_total",
		"Total number of topics in the database")

	engagementEventsTotal = counterVec("engagement_events_total",
		"Total number of engagement write events",
		"kind")

	dbQueryDuration = histogramVec("db_query_duration_seconds",
		"Database query duration in seconds",
		prometheus.ExponentialBuckets(0.001, 2, 10),
		"operation")
)

// responseWriter captures the status code and byte count so the
// middleware can label its observations after the handler returns.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// MetricsMiddleware observes every request: in-flight gauge, duration
// histogram, request/response sizes, and a counter by status. Paths are
// normalized (/posts/123 becomes /posts/:id) before labeling so IDs do
// not blow up metric cardinality.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()
		activeConnections.Inc()
		defer activeConnections.Dec()

		path := pathutil.NormalizePath(r.URL.Path)
		if r.ContentLength > 0 {
			httpRequestSize.WithLabelValues(r.Method, path).Observe(float64(r.ContentLength))
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(rw, r)
		elapsed := time.Since(start).Seconds()

		status := strconv.Itoa(rw.statusCode)
		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(elapsed)
		httpResponseSize.WithLabelValues(r.Method, path).Observe(float64(rw.size))
	})
}

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordEngagementEvent counts an engagement write (like, view, comment,
// reply, follow) by kind.
func RecordEngagementEvent(kind string) {
	engagementEventsTotal.WithLabelValues(kind).Inc()
}

// RecordDBQuery observes the duration of one store query by operation.
func RecordDBQuery(operation string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdatePostsTotal sets the posts_total gauge.
func UpdatePostsTotal(count int) {
	postsTotal.Set(float64(count))
}

// UpdateTopicsTotal sets the topics_total gauge.
func UpdateTopicsTotal(count int) {
	topicsTotal.Set(float64(count))
}
