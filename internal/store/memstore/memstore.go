// Package memstore is an in-process ordered store, one sorted key slice per
// index.
package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/mohammed-shakir/spatial-index/internal/core/observability"
	"github.com/mohammed-shakir/spatial-index/internal/store"
)

const driver = "memory"

type table struct {
	keys  []string
	items map[string]store.Item
}

type Store struct {
	mu     sync.RWMutex
	tables map[string]*table
}

var _ store.Interface = (*Store)(nil)

func New() *Store {
	return &Store{tables: make(map[string]*table)}
}

func (s *Store) Query(ctx context.Context, index string, r store.Range, limit int, exclusiveStartKey string) (store.Page, error) {
	start := time.Now()
	page, err := s.query(ctx, index, r, limit, exclusiveStartKey)
	observability.ObserveStoreOp(driver, "query", err, time.Since(start).Seconds())
	return page, err
}

func (s *Store) query(ctx context.Context, index string, r store.Range, limit int, after string) (store.Page, error) {
	if err := ctx.Err(); err != nil {
		return store.Page{}, err
	}
	if err := store.ValidateQuery(index, r, limit); err != nil {
		return store.Page{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.tables[index]
	if t == nil {
		return store.Page{}, nil
	}

	i := sort.SearchStrings(t.keys, r.Start)
	if after != "" && after >= r.Start {
		i = sort.Search(len(t.keys), func(k int) bool { return t.keys[k] > after })
	}

	var page store.Page
	for ; i < len(t.keys) && r.Contains(t.keys[i]); i++ {
		if len(page.Items) == limit {
			page.LastEvaluatedKey = page.Items[limit-1].Key
			break
		}
		page.Items = append(page.Items, t.items[t.keys[i]])
	}
	return page, nil
}

func (s *Store) Put(ctx context.Context, index string, items ...store.Item) error {
	start := time.Now()
	err := s.put(ctx, index, items)
	observability.ObserveStoreOp(driver, "put", err, time.Since(start).Seconds())
	return err
}

func (s *Store) put(ctx context.Context, index string, items []store.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, it := range items {
		if err := store.ValidateItem(it); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tables[index]
	if t == nil {
		t = &table{items: make(map[string]store.Item)}
		s.tables[index] = t
	}
	for _, it := range items {
		if _, ok := t.items[it.Key]; !ok {
			i, _ := slices.BinarySearch(t.keys, it.Key)
			t.keys = slices.Insert(t.keys, i, it.Key)
		}
		t.items[it.Key] = it
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, index string, keys ...string) error {
	start := time.Now()
	err := ctx.Err()
	if err == nil {
		s.mu.Lock()
		if t := s.tables[index]; t != nil {
			for _, k := range keys {
				if _, ok := t.items[k]; !ok {
					continue
				}
				delete(t.items, k)
				i, _ := slices.BinarySearch(t.keys, k)
				t.keys = slices.Delete(t.keys, i, i+1)
			}
		}
		s.mu.Unlock()
	}
	observability.ObserveStoreOp(driver, "delete", err, time.Since(start).Seconds())
	return err
}

// Len returns the number of rows in index.
func (s *Store) Len(index string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t := s.tables[index]; t != nil {
		return len(t.keys)
	}
	return 0
}
