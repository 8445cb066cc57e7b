package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/matzehuels/linkboard/pkg/observability"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return m.Counter.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.DecompositionsTotal == nil || r.CacheRequestsTotal == nil || r.HTTPRequestsTotal == nil {
		t.Fatal("metrics not initialized")
	}
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestPipelineHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnLayer(ctx, 0, 30, 10)
	r.OnLayer(ctx, 1, 10, 0)
	r.OnDecomposeComplete(ctx, 2, time.Millisecond, nil)
	r.OnDecomposeComplete(ctx, 0, time.Millisecond, errors.New("boom"))
	r.OnLayoutComplete(ctx, "neato", time.Second, nil)
	r.OnParseComplete(ctx, "a.kicad_pcb", 3, time.Millisecond, nil)

	if got := counterValue(t, r.LayersExtractedTotal); got != 2 {
		t.Errorf("layers = %v, want 2", got)
	}
	if got := counterValue(t, r.DecompositionsTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("successful decompositions = %v, want 1", got)
	}
	if got := counterValue(t, r.DecompositionsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("failed decompositions = %v, want 1", got)
	}
	if got := counterValue(t, r.LayoutsTotal.WithLabelValues("neato", "success")); got != 1 {
		t.Errorf("layouts = %v, want 1", got)
	}
	if got := counterValue(t, r.BoardsParsedTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("boards = %v, want 1", got)
	}
}

func TestCacheHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()
	r.OnCacheHit(ctx, "decompose")
	r.OnCacheHit(ctx, "decompose")
	r.OnCacheMiss(ctx, "decompose")
	r.OnCacheSet(ctx, "decompose", 512)

	if got := counterValue(t, r.CacheRequestsTotal.WithLabelValues("decompose", "hit")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := counterValue(t, r.CacheRequestsTotal.WithLabelValues("decompose", "miss")); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
}

func TestInstall(t *testing.T) {
	defer observability.Reset()
	r := NewRegistry()
	r.Install()

	observability.HTTP().OnRequest(context.Background(), "POST", "/v1/layout", 200, time.Millisecond)
	if got := counterValue(t, r.HTTPRequestsTotal.WithLabelValues("POST", "/v1/layout", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.OnCacheMiss(context.Background(), "layout")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `linkboard_cache_requests_total{key_type="layout",result="miss"} 1`) {
		t.Errorf("metrics output missing cache counter:\n%s", body)
	}
}
