package kafkaconsumer

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// tsDedupe remembers the newest applied event time per item id so that
// replays and out-of-date updates are dropped.
type tsDedupe struct {
	mu  sync.Mutex
	lru *lru.Cache[string, int64]
}

func newTSDedupe(size int) *tsDedupe {
	if size <= 0 {
		size = 4096
	}
	c, _ := lru.New[string, int64](size)
	return &tsDedupe{lru: c}
}

// stale reports whether an event at ts is not newer than the last one
// applied for id.
func (d *tsDedupe) stale(id string, ts int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	last, ok := d.lru.Get(id)
	return ok && ts <= last
}

func (d *tsDedupe) record(id string, ts int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if last, ok := d.lru.Get(id); ok && last >= ts {
		return
	}
	d.lru.Add(id, ts)
}
