// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	custom_errors "github-story/internal/errors"
)

const namespace = "github_story"

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	gatherer prometheus.Gatherer

	upstreamCalls     *prometheus.CounterVec
	languageFailures  prometheus.Counter
	stories           *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpRequestLength *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		upstreamCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_calls_total",
			Help:      "GitHub API calls by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		languageFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "language_fetch_failures_total",
			Help:      "Repository language fetches that failed and were skipped.",
		}),
		stories: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stories_total",
			Help:      "Story requests by result kind.",
		}, []string{"result"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpRequestLength: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// ObserveUpstream records the outcome of one GitHub API call.
func (m *Metrics) ObserveUpstream(endpoint string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = custom_errors.KindOf(err).String()
	}
	m.upstreamCalls.WithLabelValues(endpoint, outcome).Inc()
}

func (m *Metrics) LanguageFetchFailed() {
	m.languageFailures.Inc()
}

// ObserveStory records the result of a story request.
func (m *Metrics) ObserveStory(err error) {
	result := "ok"
	if err != nil {
		result = custom_errors.KindOf(err).String()
	}
	m.stories.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency keyed by the chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.httpRequestLength.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
