// Package metrics exposes Prometheus metrics for HTTP requests and provider
// calls.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/meme-api/internal/generation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Provider call outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeTransient = "transient"
	OutcomePermanent = "permanent"
)

// Collector owns a registry and the metrics recorded into it.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	providerCallsTotal   *prometheus.CounterVec
	providerCallDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector with its own registry, so several
// collectors can coexist in one process.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"method", "route"},
		),
		providerCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_calls_total",
				Help:      "Total number of generation provider calls",
			},
			[]string{"provider", "outcome"},
		),
		providerCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_call_duration_seconds",
				Help:      "Generation provider call duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),
	}
}

// Registry returns the registry metrics are recorded into.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collected metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordProviderCall records one provider call and classifies its outcome.
func (c *Collector) RecordProviderCall(provider string, duration time.Duration, err error) {
	c.providerCallsTotal.WithLabelValues(provider, outcome(err)).Inc()
	c.providerCallDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case generation.IsTransient(err):
		return OutcomeTransient
	default:
		return OutcomePermanent
	}
}

// Middleware records every request passing through it. The route label is
// the matched chi route pattern, falling back to the raw path.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.RecordHTTPRequest(r.Method, route, status, time.Since(start))
	})
}

// instrumentedProvider records every Generate call of the wrapped provider.
type instrumentedProvider struct {
	next      generation.Provider
	collector *Collector
}

// InstrumentProvider wraps p so each call is recorded in c. Retries show up
// as separate calls.
func (c *Collector) InstrumentProvider(p generation.Provider) generation.Provider {
	if p == nil {
		return nil
	}
	return &instrumentedProvider{next: p, collector: c}
}

func (p *instrumentedProvider) Name() string { return p.next.Name() }

func (p *instrumentedProvider) Generate(ctx context.Context, prompt string) (*generation.Output, error) {
	start := time.Now()
	out, err := p.next.Generate(ctx, prompt)
	if errors.Is(err, context.Canceled) {
		// The caller went away; not a provider outcome.
		return out, err
	}
	p.collector.RecordProviderCall(p.next.Name(), time.Since(start), err)
	return out, err
}
