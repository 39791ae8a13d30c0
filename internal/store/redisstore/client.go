// Package redisstore keeps each index in a Redis sorted set scanned with
// ZRANGEBYLEX. Every member has score 0, so the set is ordered byte-wise by
// sort key. Item bodies live in a hash next to the set.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	maintnotifications "github.com/redis/go-redis/v9/maintnotifications"

	"github.com/mohammed-shakir/spatial-index/internal/cache/keys"
	"github.com/mohammed-shakir/spatial-index/internal/core/observability"
	"github.com/mohammed-shakir/spatial-index/internal/geo"
	"github.com/mohammed-shakir/spatial-index/internal/store"
)

const (
	driver    = "redis"
	keyPrefix = "geoindex"
)

type Option func(*redis.Options)

func WithPoolSize(n int) Option {
	return func(o *redis.Options) { o.PoolSize = n }
}

func WithMinIdleConns(n int) Option {
	return func(o *redis.Options) { o.MinIdleConns = n }
}

func WithDialTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.DialTimeout = d }
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.ReadTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.WriteTimeout = d }
}

type Client struct {
	rdb *redis.Client
}

var (
	_ store.Interface = (*Client)(nil)
	_ store.Pinger    = (*Client)(nil)
)

func New(ctx context.Context, addr string, opts ...Option) (*Client, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}

	ro := &redis.Options{
		Addr:         addr,
		PoolSize:     64,
		MinIdleConns: 4,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	}
	for _, f := range opts {
		f(ro)
	}

	rdb := redis.NewClient(ro)
	c := &Client{rdb: rdb}
	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) Ping(ctx context.Context) error {
	start := time.Now()
	err := c.rdb.Ping(ctx).Err()
	observability.ObserveStoreOp(driver, "ping", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func setKey(index string) string  { return keys.IndexKey(keyPrefix, index) }
func hashKey(index string) string { return keys.IndexKey(keyPrefix, index) + ":items" }

// record is the hash value; the sort key is the hash field.
type record struct {
	ID   string          `json:"id"`
	Lat  float64         `json:"lat"`
	Lon  float64         `json:"lon"`
	Data json.RawMessage `json:"data,omitempty"`
}

// lexBounds maps a half-open range and a resume key onto ZRANGEBYLEX
// bounds.
func lexBounds(r store.Range, after string) (lo, hi string) {
	lo = "[" + r.Start
	if after != "" && after >= r.Start {
		lo = "(" + after
	}
	hi = "+"
	if r.End != "" {
		hi = "(" + r.End
	}
	return lo, hi
}

func (c *Client) Query(ctx context.Context, index string, r store.Range, limit int, exclusiveStartKey string) (store.Page, error) {
	if err := store.ValidateQuery(index, r, limit); err != nil {
		return store.Page{}, err
	}

	start := time.Now()
	lo, hi := lexBounds(r, exclusiveStartKey)
	// one extra member tells whether the range continues
	members, err := c.rdb.ZRangeByLex(ctx, setKey(index), &redis.ZRangeBy{
		Min: lo, Max: hi, Count: int64(limit) + 1,
	}).Result()
	observability.ObserveStoreOp(driver, "zrangebylex", err, time.Since(start).Seconds())
	if err != nil {
		return store.Page{}, fmt.Errorf("redis ZRANGEBYLEX %s %s %s: %w", setKey(index), lo, hi, err)
	}

	var page store.Page
	if len(members) > limit {
		members = members[:limit]
		page.LastEvaluatedKey = members[limit-1]
	}
	if len(members) == 0 {
		return page, nil
	}

	start = time.Now()
	vals, err := c.rdb.HMGet(ctx, hashKey(index), members...).Result()
	observability.ObserveStoreOp(driver, "hmget", err, time.Since(start).Seconds())
	if err != nil {
		return store.Page{}, fmt.Errorf("redis HMGET %d fields: %w", len(members), err)
	}

	page.Items = make([]store.Item, 0, len(members))
	for i, v := range vals {
		if v == nil {
			continue // removed between the two reads
		}
		var raw []byte
		switch t := v.(type) {
		case string:
			raw = []byte(t)
		case []byte:
			raw = t
		default:
			raw = fmt.Append(nil, t)
		}
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return store.Page{}, fmt.Errorf("decode %s: %w", members[i], err)
		}
		page.Items = append(page.Items, store.Item{
			Key:      members[i],
			ID:       rec.ID,
			Location: geo.Location{Lat: rec.Lat, Lon: rec.Lon},
			Data:     rec.Data,
		})
	}
	return page, nil
}

func (c *Client) Put(ctx context.Context, index string, items ...store.Item) error {
	if len(items) == 0 {
		return nil
	}
	zs := make([]redis.Z, 0, len(items))
	fields := make([]any, 0, 2*len(items))
	for _, it := range items {
		if err := store.ValidateItem(it); err != nil {
			return err
		}
		b, err := json.Marshal(record{ID: it.ID, Lat: it.Location.Lat, Lon: it.Location.Lon, Data: it.Data})
		if err != nil {
			return fmt.Errorf("encode %s: %w", it.Key, err)
		}
		zs = append(zs, redis.Z{Score: 0, Member: it.Key})
		fields = append(fields, it.Key, b)
	}

	start := time.Now()
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, hashKey(index), fields...)
		p.ZAdd(ctx, setKey(index), zs...)
		return nil
	})
	observability.ObserveStoreOp(driver, "put", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis put %d items: %w", len(items), err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, index string, ks ...string) error {
	if len(ks) == 0 {
		return nil
	}
	members := make([]any, len(ks))
	for i, k := range ks {
		members[i] = k
	}

	start := time.Now()
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZRem(ctx, setKey(index), members...)
		p.HDel(ctx, hashKey(index), ks...)
		return nil
	})
	observability.ObserveStoreOp(driver, "delete", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis delete %d keys: %w", len(ks), err)
	}
	return nil
}

func (c *Client) Close() error {
	if err := c.rdb.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}
