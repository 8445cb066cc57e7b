// Package metrics exports pipeline, cache and HTTP events as Prometheus
// metrics. A [Registry] implements the hook interfaces of
// pkg/observability and serves its metrics with [Registry.Handler].
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/linkboard/pkg/observability"
)

const namespace = "linkboard"

// Registry holds all metrics for the application.
type Registry struct {
	// Pipeline Metrics
	BoardsParsedTotal      *prometheus.CounterVec
	DecompositionsTotal    *prometheus.CounterVec
	DecompositionDuration  prometheus.Histogram
	DecompositionThickness prometheus.Histogram
	LayersExtractedTotal   prometheus.Counter
	LayerEdges             prometheus.Histogram
	LayoutsTotal           *prometheus.CounterVec
	LayoutDuration         *prometheus.HistogramVec

	// Cache Metrics
	CacheRequestsTotal *prometheus.CounterVec
	CacheWriteBytes    *prometheus.HistogramVec

	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

var (
	_ observability.PipelineHooks = (*Registry)(nil)
	_ observability.CacheHooks    = (*Registry)(nil)
	_ observability.HTTPHooks     = (*Registry)(nil)
)

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with all metrics and the Go runtime
// collectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{registry: reg}
	r.initPipelineMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	return r
}

// Install registers r as the global pipeline, cache and HTTP hooks.
func (r *Registry) Install() {
	observability.SetPipelineHooks(r)
	observability.SetCacheHooks(r)
	observability.SetHTTPHooks(r)
}

// Handler serves the metrics in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Registry) initPipelineMetrics() {
	f := promauto.With(r.registry)

	r.BoardsParsedTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "boards_parsed_total",
		Help:      "Total number of parsed board files",
	}, []string{"status"})

	r.DecompositionsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decompositions_total",
		Help:      "Total number of thickness decompositions",
	}, []string{"status"})

	r.DecompositionDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "decomposition_duration_seconds",
		Help:      "Duration of thickness decompositions in seconds",
		Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
	})

	r.DecompositionThickness = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "decomposition_layers",
		Help:      "Number of planar layers per decomposition",
		Buckets:   []float64{1, 2, 3, 4, 6, 8},
	})

	r.LayersExtractedTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "layers_extracted_total",
		Help:      "Total number of extracted planar layers",
	})

	r.LayerEdges = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "layer_edges",
		Help:      "Edges per extracted planar layer",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	r.LayoutsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "layouts_total",
		Help:      "Total number of layouts",
	}, []string{"engine", "status"})

	r.LayoutDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "layout_duration_seconds",
		Help:      "Duration of layouts in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"engine"})
}

func (r *Registry) initCacheMetrics() {
	f := promauto.With(r.registry)

	r.CacheRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Cache lookups by key type and result",
	}, []string{"key_type", "result"})

	r.CacheWriteBytes = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cache_write_bytes",
		Help:      "Size of cache writes in bytes",
		Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
	}, []string{"key_type"})
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)

	r.HTTPRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	r.HTTPRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// =============================================================================
// observability.PipelineHooks
// =============================================================================

func (r *Registry) OnParseStart(context.Context, string) {}

func (r *Registry) OnParseComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	r.BoardsParsedTotal.WithLabelValues(status(err)).Inc()
}

func (r *Registry) OnDecomposeStart(context.Context, int, int) {}

func (r *Registry) OnLayer(_ context.Context, _, edges, _ int) {
	r.LayersExtractedTotal.Inc()
	r.LayerEdges.Observe(float64(edges))
}

func (r *Registry) OnDecomposeComplete(_ context.Context, layers int, d time.Duration, err error) {
	r.DecompositionsTotal.WithLabelValues(status(err)).Inc()
	r.DecompositionDuration.Observe(d.Seconds())
	if err == nil {
		r.DecompositionThickness.Observe(float64(layers))
	}
}

func (r *Registry) OnLayoutStart(context.Context, string, int) {}

func (r *Registry) OnLayoutComplete(_ context.Context, engine string, d time.Duration, err error) {
	r.LayoutsTotal.WithLabelValues(engine, status(err)).Inc()
	r.LayoutDuration.WithLabelValues(engine).Observe(d.Seconds())
}

// =============================================================================
// observability.CacheHooks
// =============================================================================

func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheWriteBytes.WithLabelValues(keyType).Observe(float64(size))
}

// =============================================================================
// observability.HTTPHooks
// =============================================================================

func (r *Registry) OnRequest(_ context.Context, method, route string, code int, d time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
