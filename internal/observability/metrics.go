package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cmsblog"

// Metrics holds the server's Prometheus collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	fallbacks        *prometheus.CounterVec
	commentStrategy  *prometheus.CounterVec
	submissions      *prometheus.CounterVec
	widgetFailures   *prometheus.CounterVec
}

// NewMetrics registers every collector on reg. A nil reg gets a fresh registry with the
// Go runtime and process collectors.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		upstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "GraphQL operations sent to the CMS, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		upstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Latency of GraphQL operations sent to the CMS.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "fallbacks_total",
			Help:      "Reads that failed and were served as an empty result.",
		}, []string{"op"}),
		commentStrategy: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "comments",
			Name:      "strategy_total",
			Help:      "Comment reads by the strategy that produced the result.",
		}, []string{"strategy"}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "comments",
			Name:      "submissions_total",
			Help:      "Comment submissions by outcome.",
		}, []string{"outcome"}),
		widgetFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pages",
			Name:      "widget_failures_total",
			Help:      "Page widgets that failed to load.",
		}, []string{"widget"}),
	}
}

// ObserveUpstream implements graphql.Observer.
func (m *Metrics) ObserveUpstream(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(operation, outcome).Inc()
	m.upstreamLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveFallback(op string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(op).Inc()
}

func (m *Metrics) ObserveCommentStrategy(strategy string) {
	if m == nil {
		return
	}
	m.commentStrategy.WithLabelValues(strategy).Inc()
}

func (m *Metrics) ObserveCommentSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveWidgetFailure(widget string) {
	if m == nil {
		return
	}
	m.widgetFailures.WithLabelValues(widget).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
