// Package metrics exposes Prometheus counters for identity operations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and middleware report to.
type Recorder interface {
	RecordAuth(op, outcome string)
	RecordUserOp(op, outcome string)
	RecordHTTPRequest(route string, status int, d time.Duration)
}

// Collector records to Prometheus metrics.
type Collector struct {
	authTotal   *prometheus.CounterVec
	userOpTotal *prometheus.CounterVec
	httpStatus  *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
}

// NewCollector registers the identity metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "identity_auth_total",
			Help: "Sign-up, verification and login attempts by outcome.",
		}, []string{"op", "outcome"}),
		userOpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "identity_user_ops_total",
			Help: "User profile operations by outcome.",
		}, []string{"op", "outcome"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "identity_http_requests_total",
			Help: "HTTP responses by route and status code.",
		}, []string{"route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "identity_http_request_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(c.authTotal, c.userOpTotal, c.httpStatus, c.httpLatency)
	return c
}

func (c *Collector) RecordAuth(op, outcome string) {
	c.authTotal.WithLabelValues(op, outcome).Inc()
}

func (c *Collector) RecordUserOp(op, outcome string) {
	c.userOpTotal.WithLabelValues(op, outcome).Inc()
}

func (c *Collector) RecordHTTPRequest(route string, status int, d time.Duration) {
	c.httpStatus.WithLabelValues(route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(route).Observe(d.Seconds())
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordAuth(string, string)                    {}
func (Nop) RecordUserOp(string, string)                  {}
func (Nop) RecordHTTPRequest(string, int, time.Duration) {}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
