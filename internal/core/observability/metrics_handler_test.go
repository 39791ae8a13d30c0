package observability

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestMetricsHandler_Smoke(t *testing.T) {
	ExposeBuildInfo("test")
	ObserveHTTP("GET", "/v1/query/radius", 200, 0.001)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "geoindex_build_info") || !strings.Contains(body, "http_requests_total") {
		t.Fatalf("metrics payload did not contain expected metric names; got:\n%s", body)
	}
}

func TestInit_CustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	Init(reg, true)
	Init(reg, true) // idempotent

	ObserveStoreOp("memory", "query", nil, 0.0001)
	ObserveStoreOp("memory", "query", errors.New("boom"), 0.0001)
	ObserveQuery("h3", "fanout", 7, 12, nil, 0.004)
	ObserveCovering("h3", "radius", 7, 0.0002)
	IncCoveringCache(true)
	IncKafkaConsumerError("decode")
	ObserveIngest(3, nil)

	srv := httptest.NewServer(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("metrics scrape: %v", err)
	}
	t.Cleanup(func() {
		if cerr := resp.Body.Close(); cerr != nil {
			t.Fatalf("close body: %v", cerr)
		}
	})
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	out := string(b)

	for _, want := range []string{
		`store_op_total{driver="memory",op="query",result="error"}`,
		`store_op_total{driver="memory",op="query",result="ok"}`,
		`store_operation_duration_seconds_bucket{driver="memory",op="query"`,
		`spatial_queries_total{kind="h3",result="ok",strategy="fanout"}`,
		`spatial_query_store_calls_bucket{kind="h3"`,
		`covering_cells_bucket{kind="h3",op="radius"`,
		`covering_cache_results_total{outcome="hit"}`,
		`kafka_consumer_errors_total{kind="decode"}`,
		`ingest_rows_written_total`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in metrics; got:\n%s", want, out)
		}
	}
}

func TestInit_DisabledIsNoop(t *testing.T) {
	t.Cleanup(func() { enabled.Store(true) })
	Init(nil, false)

	reg := prometheus.NewRegistry()
	reg.MustRegister(kafkaConsumerErrors)
	before := countSamples(t, reg, "kafka_consumer_errors_total", `kind="disabled"`)
	IncKafkaConsumerError("disabled")
	if after := countSamples(t, reg, "kafka_consumer_errors_total", `kind="disabled"`); after != before {
		t.Fatalf("recording while disabled: %d -> %d", before, after)
	}
}

func countSamples(t *testing.T, g prometheus.Gatherer, name, label string) int {
	t.Helper()
	mfs, err := g.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	n := 0
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if strings.Contains(label, lp.GetValue()) {
					n++
				}
			}
		}
	}
	return n
}
