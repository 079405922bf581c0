// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dtroode/chirp-server/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is used by services, middleware and workers.
type Recorder interface {
	RecordAuthEvent(event string, err error)
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	RecordSessionsPruned(count int64)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	authEvents     *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
	sessionsPruned prometheus.Counter
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chirp_auth_events_total",
			Help: "Authentication flow outcomes by event and result.",
		}, []string{"event", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chirp_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chirp_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		sessionsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chirp_sessions_pruned_total",
			Help: "Expired sessions removed by the pruner.",
		}),
	}

	reg.MustRegister(
		c.authEvents,
		c.httpRequests,
		c.httpLatency,
		c.sessionsPruned,
	)

	return c
}

// RecordAuthEvent counts an auth flow outcome. The result label is "ok" or
// the error kind.
func (c *Collector) RecordAuthEvent(event string, err error) {
	c.authEvents.WithLabelValues(event, result(err)).Inc()
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordSessionsPruned adds count to the pruned sessions counter.
func (c *Collector) RecordSessionsPruned(count int64) {
	c.sessionsPruned.Add(float64(count))
}

func result(err error) string {
	if err == nil {
		return "ok"
	}
	if kind, ok := model.KindOf(err); ok {
		return string(kind)
	}
	return "internal"
}

// Handler returns the HTTP handler for Prometheus scraping.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordAuthEvent(string, error) {}

func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}

func (Nop) RecordSessionsPruned(int64) {}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)
