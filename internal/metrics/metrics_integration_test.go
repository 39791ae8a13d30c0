package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mohammed-shakir/spatial-index/internal/core/observability"
)

func assertHasMetricLine(t *testing.T, body, metric string, wantLabels ...string) {
	t.Helper()
	for ln := range strings.SplitSeq(body, "\n") {
		if !strings.HasPrefix(ln, metric+"{") {
			continue
		}
		ok := true
		for _, s := range wantLabels {
			if !strings.Contains(ln, s) {
				ok = false
				break
			}
		}
		if ok && (len(ln) > 0 && ln[len(ln)-1] >= '0' && ln[len(ln)-1] <= '9') {
			return
		}
	}
	t.Fatalf("expected a %s line with labels %v; got:\n%s", metric, wantLabels, body)
}

func Test_AppMetrics_CustomRegistry_Smoke(t *testing.T) {
	p := Init(Config{Build: BuildInfo{Version: "test"}})
	observability.Init(p.Registerer(), true)
	observability.ExposeBuildInfo("test")

	start := time.Now()
	observability.ObserveQuery("geohash", "range", 1, 4, nil, time.Since(start).Seconds())
	observability.ObserveQuery("h3", "fanout", 19, 0, nil, 0.010)
	observability.ObserveStoreOp("redis", "zrangebylex", nil, 0.002)
	observability.IncCoveringCache(false)
	observability.IncKafkaConsumerError("decode")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	p.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	mustContain := []string{
		`spatial_query_duration_seconds_bucket`,
		`store_operation_duration_seconds_count`,
		`covering_cache_results_total{outcome="miss"} `,
		`kafka_consumer_errors_total{kind="decode"} `,
		`geoindex_build_info{version="test"} 1`,
	}
	for _, s := range mustContain {
		if !strings.Contains(body, s) {
			t.Fatalf("expected metrics to contain %q;\n---\n%s", s, body)
		}
	}

	assertHasMetricLine(t, body, "spatial_queries_total",
		`kind="geohash"`, `strategy="range"`, `result="ok"`)
	assertHasMetricLine(t, body, "spatial_queries_total",
		`kind="h3"`, `strategy="fanout"`)
	assertHasMetricLine(t, body, "app_build_info",
		`version="test"`)
}
