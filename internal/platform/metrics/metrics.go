// Package metrics exposes Prometheus instruments for selection runs and
// HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultNamespace = "team_roster"

	resultSuccess = "success"
	resultError   = "error"
)

// Recorder owns a registry and the instruments registered on it. A nil
// *Recorder drops every observation.
type Recorder struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	selectionRuns      *prometheus.CounterVec
	selectionDuration  *prometheus.HistogramVec
	selectionAssigned  *prometheus.CounterVec
	selectionCandidate prometheus.Histogram

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	breakerOpen *prometheus.GaugeVec
}

type Option func(*Recorder)

func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

func WithHistogramBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.buckets = buckets
		}
	}
}

// WithRegistry registers instruments on registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: defaultNamespace,
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(r.registry)
	r.selectionRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "selection",
		Name:      "runs_total",
		Help:      "Selection runs by mode and result.",
	}, []string{"mode", "result"})
	r.selectionDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "selection",
		Name:      "duration_seconds",
		Help:      "Time spent per selection run, storage included.",
		Buckets:   r.buckets,
	}, []string{"mode"})
	r.selectionAssigned = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "selection",
		Name:      "assigned_players_total",
		Help:      "Players placed on a roster by selection runs.",
	}, []string{"mode"})
	r.selectionCandidate = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "selection",
		Name:      "candidates",
		Help:      "Candidate pool size seen by the engine.",
		Buckets:   prometheus.LinearBuckets(0, 5, 10),
	})
	r.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})
	r.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   r.buckets,
	}, []string{"method", "route"})
	r.breakerOpen = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: "dependency",
		Name:      "breaker_open",
		Help:      "1 while the named circuit breaker rejects calls.",
	}, []string{"name"})

	return r
}

// ObserveSelection records one selection run. Candidate counts are only
// tracked for engine runs (preview and auto).
func (r *Recorder) ObserveSelection(mode string, candidates, assigned int, duration time.Duration, err error) {
	if r == nil {
		return
	}

	result := resultSuccess
	if err != nil {
		result = resultError
	}
	r.selectionRuns.WithLabelValues(mode, result).Inc()
	r.selectionDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if err != nil {
		return
	}
	if assigned > 0 {
		r.selectionAssigned.WithLabelValues(mode).Add(float64(assigned))
	}
	if candidates > 0 {
		r.selectionCandidate.Observe(float64(candidates))
	}
}

func (r *Recorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}

	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveBreakerState treats half-open as open until a probe succeeds.
func (r *Recorder) ObserveBreakerState(name, state string) {
	if r == nil {
		return
	}

	value := 1.0
	if state == "closed" {
		value = 0
	}
	r.breakerOpen.WithLabelValues(name).Set(value)
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
