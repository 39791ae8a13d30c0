// Package observability holds the process-wide Prometheus collectors for
// HTTP traffic, store operations, coverings, queries and ingest.
package observability

import (
	"errors"
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

var enabled atomic.Bool

func init() {
	enabled.Store(true)
	for _, c := range collectors() {
		_ = prometheus.DefaultRegisterer.Register(c)
	}
}

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	storeOpTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_op_total",
			Help: "Store operations by driver, op and result.",
		},
		[]string{"driver", "op", "result"},
	)

	storeOpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Latency of store operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		},
		[]string{"driver", "op"},
	)

	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spatial_queries_total",
			Help: "Spatial queries by index kind, strategy and result.",
		},
		[]string{"kind", "strategy", "result"},
	)

	queryDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spatial_query_duration_seconds",
			Help:    "End to end latency of one spatial query page.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"kind", "strategy"},
	)

	queryStoreCalls = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spatial_query_store_calls",
			Help:    "Store queries issued per spatial query page.",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
		},
		[]string{"kind"},
	)

	queryItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spatial_query_items_total",
			Help: "Items returned by spatial queries.",
		},
		[]string{"kind"},
	)

	coveringCells = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "covering_cells",
			Help:    "Cells per computed covering.",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512},
		},
		[]string{"kind", "op"},
	)

	coveringDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "covering_duration_seconds",
			Help:    "Time to compute a covering.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 16),
		},
		[]string{"kind", "op"},
	)

	coveringCacheResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "covering_cache_results_total",
			Help: "Covering cache lookups by outcome.",
		},
		[]string{"outcome"},
	)

	ingestEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_events_total",
			Help: "Location events by outcome.",
		},
		[]string{"result"},
	)

	ingestRowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_rows_written_total",
			Help: "Index rows written by the indexer.",
		},
	)

	kafkaConsumerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_consumer_errors_total",
			Help: "Kafka consumer errors by kind.",
		},
		[]string{"kind"},
	)

	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "geoindex_build_info",
			Help: "Build information for the binary.",
		},
		[]string{"version"},
	)
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		httpRequestsTotal, httpRequestDurationSeconds,
		storeOpTotal, storeOpDurationSeconds,
		queriesTotal, queryDurationSeconds, queryStoreCalls, queryItemsTotal,
		coveringCells, coveringDurationSeconds, coveringCacheResults,
		ingestEventsTotal, ingestRowsTotal, kafkaConsumerErrors,
		buildInfo,
	}
}

// Init registers every collector on reg and switches recording on or off.
// Collectors stay registered on the default registry as well.
func Init(reg prometheus.Registerer, on bool) {
	enabled.Store(on)
	if reg == nil || !on {
		return
	}
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				panic(err)
			}
		}
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	if !enabled.Load() {
		return
	}
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

func ObserveStoreOp(driver, op string, err error, durationSeconds float64) {
	if !enabled.Load() {
		return
	}
	storeOpTotal.WithLabelValues(driver, op, result(err)).Inc()
	storeOpDurationSeconds.WithLabelValues(driver, op).Observe(durationSeconds)
}

func ObserveQuery(kind, strategy string, storeCalls, items int, err error, durationSeconds float64) {
	if !enabled.Load() {
		return
	}
	queriesTotal.WithLabelValues(kind, strategy, result(err)).Inc()
	if err != nil {
		return
	}
	queryDurationSeconds.WithLabelValues(kind, strategy).Observe(durationSeconds)
	queryStoreCalls.WithLabelValues(kind).Observe(float64(storeCalls))
	queryItemsTotal.WithLabelValues(kind).Add(float64(items))
}

func ObserveCovering(kind, op string, cells int, durationSeconds float64) {
	if !enabled.Load() {
		return
	}
	coveringCells.WithLabelValues(kind, op).Observe(float64(cells))
	coveringDurationSeconds.WithLabelValues(kind, op).Observe(durationSeconds)
}

func IncCoveringCache(hit bool) {
	if !enabled.Load() {
		return
	}
	if hit {
		coveringCacheResults.WithLabelValues("hit").Inc()
		return
	}
	coveringCacheResults.WithLabelValues("miss").Inc()
}

func ObserveIngest(rows int, err error) {
	if !enabled.Load() {
		return
	}
	ingestEventsTotal.WithLabelValues(result(err)).Inc()
	if err == nil {
		ingestRowsTotal.Add(float64(rows))
	}
}

func IncKafkaConsumerError(kind string) {
	if !enabled.Load() {
		return
	}
	kafkaConsumerErrors.WithLabelValues(kind).Inc()
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}
