package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/mohammed-shakir/spatial-index/internal/geo"
	"github.com/mohammed-shakir/spatial-index/internal/ingest"
	"github.com/mohammed-shakir/spatial-index/internal/ingest/kafkaconsumer"
)

type Config struct {
	TargetURL      string
	Points         int
	SeedVia        string
	Brokers        string
	Topic          string
	Concurrency    int
	Duration       time.Duration
	ZipfS          float64
	ZipfV          float64
	Centers        int
	RadiusKm       float64
	Limit          int
	MaxPages       int
	Kind           string
	OutputPrefix   string
	RequestTimeout time.Duration
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.TargetURL, "target", "http://localhost:8090", "geoindexd base URL")
	flag.IntVar(&cfg.Points, "points", 10000, "Random points to index before querying (0 skips seeding)")
	flag.StringVar(&cfg.SeedVia, "seed-via", "http", "Seeding transport: http|kafka")
	flag.StringVar(&cfg.Brokers, "brokers", "localhost:9092", "Kafka brokers for -seed-via=kafka")
	flag.StringVar(&cfg.Topic, "topic", "location-updates", "Kafka topic for -seed-via=kafka")
	flag.IntVar(&cfg.Concurrency, "concurrency", 16, "Concurrent workers")
	flag.DurationVar(&cfg.Duration, "duration", 30*time.Second, "Query phase duration")
	flag.Float64Var(&cfg.ZipfS, "zipf-s", 1.3, "Zipf parameter s (>1)")
	flag.Float64Var(&cfg.ZipfV, "zipf-v", 1.0, "Zipf parameter v (>=1)")
	flag.IntVar(&cfg.Centers, "centers", 128, "Distinct query centers in pool")
	flag.Float64Var(&cfg.RadiusKm, "radius", 2, "Query radius in km")
	flag.IntVar(&cfg.Limit, "limit", 50, "Page size")
	flag.IntVar(&cfg.MaxPages, "pages", 3, "Cursor pages to follow per query")
	flag.StringVar(&cfg.Kind, "kind", "", "Index kind to query (empty uses the server default)")
	flag.StringVar(&cfg.OutputPrefix, "out", "results/loadgen", "Summary file prefix")
	flag.DurationVar(&cfg.RequestTimeout, "timeout", 10*time.Second, "Per-request timeout")
	flag.Parse()
	return cfg
}

var cities = []geo.Location{
	{Lat: 59.3293, Lon: 18.0686}, // Stockholm
	{Lat: 57.7089, Lon: 11.9746}, // Göteborg
	{Lat: 55.6050, Lon: 13.0038}, // Malmö
	{Lat: 65.5848, Lon: 22.1547}, // Luleå
}

// randomPoint scatters points around the cities, with a uniform background
// over Sweden.
func randomPoint(r *rand.Rand) geo.Location {
	if r.Float64() < 0.8 {
		c := cities[r.Intn(len(cities))]
		return geo.Destination(c, r.Float64()*360, r.ExpFloat64()*3)
	}
	return geo.Location{Lat: 55 + r.Float64()*11, Lon: 11 + r.Float64()*13}
}

func makeCenters(count int, r *rand.Rand) []geo.Location {
	out := make([]geo.Location, 0, count)
	for len(out) < count {
		out = append(out, randomPoint(r))
	}
	return out
}

func event(id string, loc geo.Location) ingest.LocationEvent {
	return ingest.LocationEvent{
		Version:  1,
		Op:       ingest.OpUpsert,
		ID:       id,
		TS:       time.Now().UTC(),
		Location: &loc,
		Data:     json.RawMessage(fmt.Sprintf(`{"seq":%s}`, strings.TrimPrefix(id, "p-"))),
	}
}

func seedHTTP(ctx context.Context, c *http.Client, cfg Config, r *rand.Rand) error {
	base := strings.TrimRight(cfg.TargetURL, "/")
	for i := range cfg.Points {
		id := "p-" + strconv.Itoa(i)
		ev := event(id, randomPoint(r))
		body, _ := json.Marshal(map[string]any{"lat": ev.Location.Lat, "lon": ev.Location.Lon, "data": ev.Data})
		req, _ := http.NewRequestWithContext(ctx, http.MethodPut, base+"/v1/items/"+id, strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.Do(req)
		if err != nil {
			return fmt.Errorf("put %s: %w", id, err)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("put %s: status %d", id, resp.StatusCode)
		}
	}
	return nil
}

func seedKafka(cfg Config, r *rand.Rand) error {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Version = sarama.V2_1_0_0
	prod, err := sarama.NewSyncProducer(kafkaconsumer.SplitCSV(cfg.Brokers), sc)
	if err != nil {
		return fmt.Errorf("producer create: %w", err)
	}
	defer func() { _ = prod.Close() }()

	const batch = 500
	msgs := make([]*sarama.ProducerMessage, 0, batch)
	flush := func() error {
		if len(msgs) == 0 {
			return nil
		}
		if err := prod.SendMessages(msgs); err != nil {
			return fmt.Errorf("send messages: %w", err)
		}
		msgs = msgs[:0]
		return nil
	}
	for i := range cfg.Points {
		id := "p-" + strconv.Itoa(i)
		b, _ := json.Marshal(event(id, randomPoint(r)))
		// keyed by id so one item's updates stay ordered on a partition
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: cfg.Topic, Key: sarama.StringEncoder(id), Value: sarama.ByteEncoder(b),
		})
		if len(msgs) == batch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// request result (one sample per radius query, all pages included)
type sample struct {
	Latency time.Duration
	Pages   int
	Items   int
	Err     string
}

type summary struct {
	StartTime     time.Time `json:"start"`
	EndTime       time.Time `json:"end"`
	DurationSec   float64   `json:"duration_sec"`
	TotalQueries  int64     `json:"total"`
	SuccessCount  int64     `json:"success"`
	ErrorCount    int64     `json:"errors"`
	ThroughputQPS float64   `json:"throughput_qps"`
	P50Ms         float64   `json:"p50_ms"`
	P95Ms         float64   `json:"p95_ms"`
	P99Ms         float64   `json:"p99_ms"`
	MeanPages     float64   `json:"mean_pages"`
	MeanItems     float64   `json:"mean_items"`
	Concurrency   int       `json:"concurrency"`
	RadiusKm      float64   `json:"radius_km"`
	Limit         int       `json:"limit"`
	TargetURL     string    `json:"target"`
	Kind          string    `json:"kind,omitempty"`
}

type page struct {
	Items  []json.RawMessage `json:"items"`
	Cursor string            `json:"cursor"`
}

// radiusQuery follows cursors until exhaustion or maxPages.
func radiusQuery(ctx context.Context, c *http.Client, cfg Config, center geo.Location) sample {
	start := time.Now()
	s := sample{}
	cursor := ""
	for s.Pages < cfg.MaxPages {
		q := url.Values{}
		q.Set("lat", strconv.FormatFloat(center.Lat, 'f', 6, 64))
		q.Set("lon", strconv.FormatFloat(center.Lon, 'f', 6, 64))
		q.Set("radius_km", strconv.FormatFloat(cfg.RadiusKm, 'f', -1, 64))
		q.Set("limit", strconv.Itoa(cfg.Limit))
		if cfg.Kind != "" {
			q.Set("kind", cfg.Kind)
		}
		if cursor != "" {
			q.Set("cursor", cursor)
		}
		u := strings.TrimRight(cfg.TargetURL, "/") + "/v1/query/radius?" + q.Encode()
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		resp, err := c.Do(req)
		if err != nil {
			s.Err = err.Error()
			break
		}
		var p page
		err = json.NewDecoder(resp.Body).Decode(&p)
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			s.Err = fmt.Sprintf("status=%d", resp.StatusCode)
			break
		}
		if err != nil {
			s.Err = err.Error()
			break
		}
		s.Pages++
		s.Items += len(p.Items)
		if p.Cursor == "" {
			break
		}
		cursor = p.Cursor
	}
	s.Latency = time.Since(start)
	return s
}

func main() {
	cfg := loadConfig()
	if err := os.MkdirAll(filepath.Dir(cfg.OutputPrefix), 0o750); err != nil {
		log.Fatalf("mkdir results: %v", err)
	}
	prefix := fmt.Sprintf("%s_%s", cfg.OutputPrefix, time.Now().UTC().Format("20060102_150405Z"))

	seed := time.Now().UnixNano()
	r := rand.New(rand.NewSource(seed))

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: 4 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
			MaxIdleConns:          1024,
			MaxIdleConnsPerHost:   256,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   4 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
		Timeout: cfg.RequestTimeout,
	}

	if cfg.Points > 0 {
		seedStart := time.Now()
		var err error
		switch cfg.SeedVia {
		case "kafka":
			err = seedKafka(cfg, r)
		default:
			err = seedHTTP(context.Background(), httpClient, cfg, r)
		}
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Printf("seeded %d points via %s in %s", cfg.Points, cfg.SeedVia, time.Since(seedStart).Round(time.Millisecond))
	}

	centers := makeCenters(max(cfg.Centers, 1), r)
	imax := uint64(len(centers)) - 1

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	samplesChan := make(chan sample, 4096)
	var wg sync.WaitGroup
	startTime := time.Now()
	log.Printf("loadgen start target=%s dur=%s conc=%d zipf(s=%.2f,v=%.2f) centers=%d radius=%.1fkm limit=%d",
		cfg.TargetURL, cfg.Duration, cfg.Concurrency, cfg.ZipfS, cfg.ZipfV, len(centers), cfg.RadiusKm, cfg.Limit)

	for workerID := range cfg.Concurrency {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			rWorker := rand.New(rand.NewSource(seed + int64(id) + 1))
			zipfDist := rand.NewZipf(rWorker, cfg.ZipfS, cfg.ZipfV, imax)
			for ctx.Err() == nil {
				s := radiusQuery(ctx, httpClient, cfg, centers[zipfDist.Uint64()])
				if ctx.Err() != nil {
					return
				}
				samplesChan <- s
			}
		}(workerID)
	}
	go func() {
		wg.Wait()
		close(samplesChan)
	}()

	agg := collect(samplesChan)
	endTime := time.Now()
	elapsed := endTime.Sub(startTime).Seconds()

	sort.Float64s(agg.latMs)
	runSummary := summary{
		StartTime:     startTime.UTC(),
		EndTime:       endTime.UTC(),
		DurationSec:   elapsed,
		TotalQueries:  agg.total,
		SuccessCount:  agg.success,
		ErrorCount:    agg.errors,
		ThroughputQPS: float64(agg.total) / elapsed,
		P50Ms:         percentile(agg.latMs, 50),
		P95Ms:         percentile(agg.latMs, 95),
		P99Ms:         percentile(agg.latMs, 99),
		MeanPages:     mean(agg.pages, agg.success),
		MeanItems:     mean(agg.items, agg.success),
		Concurrency:   cfg.Concurrency,
		RadiusKm:      cfg.RadiusKm,
		Limit:         cfg.Limit,
		TargetURL:     cfg.TargetURL,
		Kind:          cfg.Kind,
	}

	jsonPath := prefix + "_summary.json"
	if f, err := os.Create(filepath.Clean(jsonPath)); err == nil {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		_ = enc.Encode(runSummary)
		_ = f.Close()
	}

	log.Printf("done: total=%d succ=%d err=%d thr=%.2f qps p50=%.1fms p95=%.1fms p99=%.1fms pages=%.2f items=%.1f",
		agg.total, agg.success, agg.errors, runSummary.ThroughputQPS,
		runSummary.P50Ms, runSummary.P95Ms, runSummary.P99Ms, runSummary.MeanPages, runSummary.MeanItems)
	log.Printf("wrote %s", jsonPath)
}

type aggregatedResult struct {
	total   int64
	success int64
	errors  int64
	pages   int64
	items   int64
	latMs   []float64
}

func collect(samples <-chan sample) aggregatedResult {
	var a aggregatedResult
	for s := range samples {
		a.total++
		if s.Err != "" {
			a.errors++
			continue
		}
		a.success++
		a.pages += int64(s.Pages)
		a.items += int64(s.Items)
		a.latMs = append(a.latMs, float64(s.Latency.Microseconds())/1000.0)
	}
	return a
}

func mean(sum, n int64) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func percentile(sortedValues []float64, p float64) float64 {
	if len(sortedValues) == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sortedValues[0]
	}
	if p >= 100 {
		return sortedValues[len(sortedValues)-1]
	}
	k := (p / 100.0) * float64(len(sortedValues)-1)
	f := math.Floor(k)
	i := int(f)
	if i >= len(sortedValues)-1 {
		return sortedValues[len(sortedValues)-1]
	}
	d := k - f
	return sortedValues[i]*(1-d) + sortedValues[i+1]*d
}
