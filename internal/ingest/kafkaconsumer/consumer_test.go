package kafkaconsumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IBM/sarama"

	"github.com/mohammed-shakir/spatial-index/internal/geo"
	"github.com/mohammed-shakir/spatial-index/internal/ingest"
	h3mapper "github.com/mohammed-shakir/spatial-index/internal/mapper/h3"
	"github.com/mohammed-shakir/spatial-index/internal/store"
	"github.com/mohammed-shakir/spatial-index/internal/store/memstore"
)

// flakyStore fails the first Put when failFirst is set.
type flakyStore struct {
	*memstore.Store
	failFirst atomic.Bool
}

func (f *flakyStore) Put(ctx context.Context, index string, items ...store.Item) error {
	if f.failFirst.Load() {
		f.failFirst.Store(false)
		return errors.New("boom")
	}
	return f.Store.Put(ctx, index, items...)
}

type sess struct {
	ctx    context.Context
	claims map[string][]int32
	mu     sync.Mutex
	marked []int64
}

func (s *sess) Claims() map[string][]int32 { return s.claims }
func (s *sess) MemberID() string           { return "" }
func (s *sess) GenerationID() int32        { return 0 }
func (s *sess) MarkMessage(m *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	s.marked = append(s.marked, m.Offset)
	s.mu.Unlock()
}
func (s *sess) ResetOffset(_ string, _ int32, _ int64, _ string) {}
func (s *sess) MarkOffset(_ string, _ int32, _ int64, _ string)  {}
func (s *sess) Context() context.Context                         { return s.ctx }
func (s *sess) Errors() <-chan error                             { return nil }
func (s *sess) Commit()                                          {}

type claim struct {
	part int32
	msgs chan *sarama.ConsumerMessage
}

func (c *claim) Topic() string                            { return "location-updates" }
func (c *claim) Partition() int32                         { return c.part }
func (c *claim) InitialOffset() int64                     { return 0 }
func (c *claim) HighWaterMarkOffset() int64               { return 0 }
func (c *claim) Messages() <-chan *sarama.ConsumerMessage { return c.msgs }

func eventBytes(id string, lat, lon float64) []byte {
	return eventAt(id, lat, lon, time.Now().UTC())
}

func eventAt(id string, lat, lon float64, ts time.Time) []byte {
	loc := geo.Location{Lat: lat, Lon: lon}
	ev := ingest.LocationEvent{
		Version: 1, Op: ingest.OpUpsert, ID: id, TS: ts,
		Location: &loc, Data: json.RawMessage(`{"kind":"scooter"}`),
	}
	b, _ := json.Marshal(ev)
	return b
}

func newConsumerForTest(t *testing.T) (*Consumer, *flakyStore) {
	t.Helper()
	st := &flakyStore{Store: memstore.New()}
	ix, err := ingest.NewIndexer(st, nil, ingest.Target{Index: "places_h3", Mapper: h3mapper.New(), Precision: 8})
	if err != nil {
		t.Fatalf("NewIndexer: %v", err)
	}
	cfg := NewConfig("x", "location-updates", "g")
	return New(cfg, nil, ix, nil), st
}

func TestSinglePartition_OrderAndCommitAfterWork(t *testing.T) {
	c, st := newConsumerForTest(t)

	g := &groupHandler{process: c.ProcessOne}
	s := &sess{ctx: t.Context()}
	ch := make(chan *sarama.ConsumerMessage, 2)
	cl := &claim{part: 0, msgs: ch}

	ch <- &sarama.ConsumerMessage{Topic: "location-updates", Partition: 0, Offset: 10, Value: eventBytes("a", 59.33, 18.06)}
	ch <- &sarama.ConsumerMessage{Topic: "location-updates", Partition: 0, Offset: 11, Value: eventBytes("b", 59.34, 18.07)}
	close(ch)

	if err := g.ConsumeClaim(s, cl); err != nil {
		t.Fatalf("ConsumeClaim: %v", err)
	}
	if len(s.marked) != 2 || s.marked[0] != 10 || s.marked[1] != 11 {
		t.Fatalf("marked offsets=%v want [10 11]", s.marked)
	}
	if n := st.Len("places_h3"); n != 2 {
		t.Fatalf("rows=%d want 2", n)
	}
}

func TestRetry_CommitOnceAfterSuccess(t *testing.T) {
	c, st := newConsumerForTest(t)
	st.failFirst.Store(true)
	ctx := context.Background()

	msg := &sarama.ConsumerMessage{Topic: "location-updates", Partition: 0, Offset: 5, Value: eventBytes("a", 1, 1)}
	if err := c.ProcessOne(ctx, msg); err == nil {
		t.Fatalf("expected error on first attempt")
	}

	s := &sess{ctx: ctx}
	g := &groupHandler{process: c.ProcessOne}
	ch := make(chan *sarama.ConsumerMessage, 1)
	ch <- msg
	close(ch)
	if err := g.ConsumeClaim(s, &claim{part: 0, msgs: ch}); err != nil {
		t.Fatalf("ConsumeClaim second attempt: %v", err)
	}
	if len(s.marked) != 1 || s.marked[0] != 5 {
		t.Fatalf("offset was not marked after success; marked=%v", s.marked)
	}
}

func TestPoisonMessage_SkippedAndMarked(t *testing.T) {
	c, st := newConsumerForTest(t)
	s := &sess{ctx: t.Context()}
	g := &groupHandler{process: c.ProcessOne}

	ch := make(chan *sarama.ConsumerMessage, 3)
	ch <- &sarama.ConsumerMessage{Offset: 1, Value: []byte("not json")}
	ch <- &sarama.ConsumerMessage{Offset: 2, Value: []byte(`{"version":9}`)}
	ch <- &sarama.ConsumerMessage{Offset: 3, Value: eventBytes("ok", 10, 10)}
	close(ch)

	if err := g.ConsumeClaim(s, &claim{msgs: ch}); err != nil {
		t.Fatalf("ConsumeClaim: %v", err)
	}
	if len(s.marked) != 3 {
		t.Fatalf("marked=%v want all three", s.marked)
	}
	if n := st.Len("places_h3"); n != 1 {
		t.Fatalf("rows=%d want 1", n)
	}
}

func TestMultiPartition_Parallel_NoCrossOrdering(t *testing.T) {
	c, st := newConsumerForTest(t)
	g := &groupHandler{process: c.ProcessOne}
	s := &sess{ctx: t.Context()}

	p0 := make(chan *sarama.ConsumerMessage, 2)
	p1 := make(chan *sarama.ConsumerMessage, 2)
	p0 <- &sarama.ConsumerMessage{Topic: "t", Partition: 0, Offset: 1, Value: eventBytes("a", 1, 1)}
	p0 <- &sarama.ConsumerMessage{Topic: "t", Partition: 0, Offset: 2, Value: eventBytes("b", 2, 2)}
	p1 <- &sarama.ConsumerMessage{Topic: "t", Partition: 1, Offset: 1, Value: eventBytes("c", 3, 3)}
	p1 <- &sarama.ConsumerMessage{Topic: "t", Partition: 1, Offset: 2, Value: eventBytes("d", 4, 4)}
	close(p0)
	close(p1)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _ = g.ConsumeClaim(s, &claim{part: 0, msgs: p0}) }()
	go func() { defer wg.Done(); _ = g.ConsumeClaim(s, &claim{part: 1, msgs: p1}) }()
	wg.Wait()

	if len(s.marked) != 4 {
		t.Fatalf("expected 4 marks total; got %v", s.marked)
	}
	if n := st.Len("places_h3"); n != 4 {
		t.Fatalf("rows=%d want 4", n)
	}
}

func TestConfig(t *testing.T) {
	cfg := NewConfig(" a:9092, ,b:9092 ", "t", "g")
	if len(cfg.Brokers) != 2 || cfg.Brokers[0] != "a:9092" || cfg.Brokers[1] != "b:9092" {
		t.Fatalf("brokers=%v", cfg.Brokers)
	}
	sc := (&Consumer{cfg: cfg}).saramaConfig()
	if sc.Consumer.Offsets.Initial != sarama.OffsetOldest || sc.Consumer.Group.Session.Timeout != 30*time.Second {
		t.Fatalf("sarama config %+v", sc.Consumer)
	}
	if err := sc.Validate(); err != nil {
		t.Fatalf("sarama config invalid: %v", err)
	}
}

func TestReadiness_FollowsAssignment(t *testing.T) {
	c, _ := newConsumerForTest(t)
	if ok, _ := c.Readiness(); ok {
		t.Fatalf("ready before any assignment")
	}

	s := &sess{ctx: context.Background(), claims: map[string][]int32{"location-updates": {2, 0}}}
	if err := c.handler.Setup(s); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	ok, parts := c.Readiness()
	if !ok || len(parts) != 2 || parts[0] != 0 || parts[1] != 2 {
		t.Fatalf("after Setup: ready=%v partitions=%v", ok, parts)
	}

	if err := c.handler.Cleanup(s); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if ok, _ := c.Readiness(); ok {
		t.Fatalf("ready after Cleanup")
	}
}

func TestStaleEvents_Dropped(t *testing.T) {
	c, st := newConsumerForTest(t)
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	newer := &sarama.ConsumerMessage{Offset: 1, Value: eventAt("bike", 59.33, 18.06, t0.Add(time.Minute))}
	older := &sarama.ConsumerMessage{Offset: 2, Value: eventAt("bike", 57.70, 11.97, t0)}
	for _, m := range []*sarama.ConsumerMessage{newer, older, newer} {
		if err := c.ProcessOne(ctx, m); err != nil {
			t.Fatalf("ProcessOne(%d): %v", m.Offset, err)
		}
	}

	p, err := st.Query(ctx, "places_h3", store.Range{}, 10, "")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(p.Items) != 1 || p.Items[0].Location.Lat != 59.33 {
		t.Fatalf("items=%+v, want only the newer location", p.Items)
	}
}

func TestDedupe_Watermark(t *testing.T) {
	d := newTSDedupe(2)
	if d.stale("a", 5) {
		t.Fatalf("unknown id reported stale")
	}
	d.record("a", 5)
	if !d.stale("a", 5) || !d.stale("a", 4) || d.stale("a", 6) {
		t.Fatalf("stale window wrong")
	}
	d.record("a", 3)
	if !d.stale("a", 4) {
		t.Fatalf("record moved the watermark backwards")
	}
}
