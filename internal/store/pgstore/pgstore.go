// Package pgstore keeps index rows in PostgreSQL. sort_key uses the "C"
// collation so range scans follow byte order like the other stores.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohammed-shakir/spatial-index/internal/core/observability"
	"github.com/mohammed-shakir/spatial-index/internal/geo"
	"github.com/mohammed-shakir/spatial-index/internal/store"
)

const driver = "postgres"

const (
	selectFrom = `SELECT sort_key, item_id, lat, lon, data FROM geoindex_items
		WHERE index_name = $1 AND sort_key >= $2 AND ($3 = '' OR sort_key < $3)
		ORDER BY sort_key LIMIT $4`
	selectAfter = `SELECT sort_key, item_id, lat, lon, data FROM geoindex_items
		WHERE index_name = $1 AND sort_key > $2 AND ($3 = '' OR sort_key < $3)
		ORDER BY sort_key LIMIT $4`
	upsert = `INSERT INTO geoindex_items (index_name, sort_key, item_id, lat, lon, data, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (index_name, sort_key) DO UPDATE
		SET item_id = EXCLUDED.item_id, lat = EXCLUDED.lat, lon = EXCLUDED.lon,
			data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	deleteKeys = `DELETE FROM geoindex_items WHERE index_name = $1 AND sort_key = ANY($2)`
)

type Config struct {
	DSN      string
	MaxConns int32
}

type Store struct {
	pool *pgxpool.Pool
}

var (
	_ store.Interface = (*Store)(nil)
	_ store.Pinger    = (*Store)(nil)
)

func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres dsn is required")
	}
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	s := &Store{pool: pool}
	if err := s.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.pool.Ping(ctx)
	observability.ObserveStoreOp(driver, "ping", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, index string, r store.Range, limit int, exclusiveStartKey string) (store.Page, error) {
	if err := store.ValidateQuery(index, r, limit); err != nil {
		return store.Page{}, err
	}

	q, lower := selectFrom, r.Start
	if exclusiveStartKey != "" && exclusiveStartKey >= r.Start {
		q, lower = selectAfter, exclusiveStartKey
	}

	start := time.Now()
	items, err := s.scan(ctx, q, index, lower, r.End, limit+1)
	observability.ObserveStoreOp(driver, "query", err, time.Since(start).Seconds())
	if err != nil {
		return store.Page{}, fmt.Errorf("query %s [%q, %q): %w", index, r.Start, r.End, err)
	}

	var page store.Page
	if len(items) > limit {
		items = items[:limit]
		page.LastEvaluatedKey = items[limit-1].Key
	}
	page.Items = items
	return page, nil
}

func (s *Store) scan(ctx context.Context, q string, args ...any) ([]store.Item, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Item
	for rows.Next() {
		var (
			it       store.Item
			lat, lon float64
			data     []byte
		)
		if err := rows.Scan(&it.Key, &it.ID, &lat, &lon, &data); err != nil {
			return nil, err
		}
		it.Location = geo.Location{Lat: lat, Lon: lon}
		it.Data = data
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) Put(ctx context.Context, index string, items ...store.Item) error {
	if len(items) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, it := range items {
		if err := store.ValidateItem(it); err != nil {
			return err
		}
		var data any
		if len(it.Data) > 0 {
			data = string(it.Data)
		}
		b.Queue(upsert, index, it.Key, it.ID, it.Location.Lat, it.Location.Lon, data)
	}

	start := time.Now()
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, b).Close()
	})
	observability.ObserveStoreOp(driver, "put", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("put %d items into %s: %w", len(items), index, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, index string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	start := time.Now()
	_, err := s.pool.Exec(ctx, deleteKeys, index, keys)
	observability.ObserveStoreOp(driver, "delete", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("delete %d keys from %s: %w", len(keys), index, err)
	}
	return nil
}

func (s *Store) Close() { s.pool.Close() }
