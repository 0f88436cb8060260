// Package metrics records what the API client does on the wire.
package metrics

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const namespace = "medscribe"

// Refresh outcomes.
const (
	RefreshOK       = "ok"
	RefreshFailed   = "failed"
	RefreshNoToken  = "no_token"
	RefreshRejected = "rejected"
)

// Collector holds the client metrics. A nil *Collector records nothing.
type Collector struct {
	reg prometheus.Gatherer

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
	RefreshTotal    *prometheus.CounterVec
	ExportsTotal    *prometheus.CounterVec
}

// NewCollector registers the client metrics on reg.
func NewCollector(reg *prometheus.Registry) *Collector {
	f := promauto.With(reg)
	return &Collector{
		reg: reg,

		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "API requests by method and status code. Status 0 is a transport failure.",
		}, []string{"method", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"method"}),

		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight API requests.",
		}),

		RefreshTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "refresh_total",
			Help:      "Access token refresh attempts by outcome.",
		}, []string{"outcome"}),

		ExportsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "artifacts_total",
			Help:      "Binary artifacts written by sink kind.",
		}, []string{"sink", "kind"}),
	}
}

// ObserveRequest records one finished round trip.
func (c *Collector) ObserveRequest(method string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// ObserveRefresh counts one refresh attempt by outcome.
func (c *Collector) ObserveRefresh(outcome string) {
	if c == nil {
		return
	}
	c.RefreshTotal.WithLabelValues(outcome).Inc()
}

// ObserveExport counts one stored artifact.
func (c *Collector) ObserveExport(sink, kind string) {
	if c == nil {
		return
	}
	c.ExportsTotal.WithLabelValues(sink, kind).Inc()
}

// Track marks a request in flight and returns the function that ends it.
func (c *Collector) Track() func() {
	if c == nil {
		return func() {}
	}
	c.InFlight.Inc()
	return c.InFlight.Dec
}

// WriteText dumps every registered metric in the Prometheus text format.
func (c *Collector) WriteText(w io.Writer) error {
	mfs, err := c.reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
