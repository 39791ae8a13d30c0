package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mohammed-shakir/spatial-index/internal/core/config"
	"github.com/mohammed-shakir/spatial-index/internal/core/observability"
	"github.com/mohammed-shakir/spatial-index/internal/core/router"
	"github.com/mohammed-shakir/spatial-index/internal/core/server"
	"github.com/mohammed-shakir/spatial-index/internal/covering"
	"github.com/mohammed-shakir/spatial-index/internal/health"
	"github.com/mohammed-shakir/spatial-index/internal/ingest"
	"github.com/mohammed-shakir/spatial-index/internal/ingest/kafkaconsumer"
	"github.com/mohammed-shakir/spatial-index/internal/logger"
	"github.com/mohammed-shakir/spatial-index/internal/mapper"
	"github.com/mohammed-shakir/spatial-index/internal/mapper/registry"
	"github.com/mohammed-shakir/spatial-index/internal/metrics"
	"github.com/mohammed-shakir/spatial-index/internal/query"
	"github.com/mohammed-shakir/spatial-index/internal/store"
	"github.com/mohammed-shakir/spatial-index/internal/store/memstore"
	"github.com/mohammed-shakir/spatial-index/internal/store/pgstore"
	"github.com/mohammed-shakir/spatial-index/internal/store/redisstore"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// a missing .env is fine
	_ = godotenv.Load(".env")

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		SampleN:   cfg.LogSampleN,
		Service:   "geoindexd",
		Component: "server",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	mp := metrics.Init(metrics.Config{
		Disabled: !cfg.MetricsEnabled,
		Build: metrics.BuildInfo{
			Version:   Version,
			Revision:  os.Getenv("BUILD_REVISION"),
			Branch:    os.Getenv("BUILD_BRANCH"),
			BuildDate: os.Getenv("BUILD_DATE"),
		},
	})
	observability.Init(mp.Registerer(), cfg.MetricsEnabled)
	observability.ExposeBuildInfo(Version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		appLog.Error("store setup failed", "driver", cfg.StoreDriver, "err", err)
		return 1
	}
	defer closeStore()

	queries, targets, coverers, err := buildIndexes(cfg, st, appLog)
	if err != nil {
		appLog.Error("index setup failed", "err", err)
		return 1
	}
	ix, err := ingest.NewIndexer(st, appLog, targets...)
	if err != nil {
		appLog.Error("indexer setup failed", "err", err)
		return 1
	}

	probe := health.Probe{}
	if p, ok := st.(store.Pinger); ok {
		probe.Store = p
	}

	var wg sync.WaitGroup
	if cfg.Ingest.Enabled {
		kcfg := kafkaconsumer.NewConfig(cfg.Ingest.Brokers, cfg.Ingest.Topic, cfg.Ingest.GroupID)
		consumer := kafkaconsumer.New(kcfg, appLog, ix, &zl)
		probe.Ingest = consumer
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Start(ctx); err != nil {
				appLog.Error("kafka ingest stopped", "err", err)
				stop()
			}
		}()
	}

	api := router.New(appLog, router.Deps{
		Queries:      queries,
		Coverers:     coverers,
		Writer:       ix,
		QueryTimeout: cfg.QueryTimeout,
		MaxCells:     cfg.MaxCells,
	})

	appLog.Info("starting geoindexd",
		"addr", cfg.Addr,
		"version", Version,
		"store", cfg.StoreDriver,
		"indexes", len(queries),
		"ingest", cfg.Ingest.Enabled)

	code := 0
	if err := server.Run(ctx, cfg, appLog, server.NewHandler(appLog, api, probe, mp)); err != nil {
		appLog.Error("server exited with error", "err", err)
		code = 1
	}
	stop()
	wg.Wait()
	appLog.Info("server stopped")
	return code
}

func openStore(ctx context.Context, cfg config.Config) (store.Interface, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memstore.New(), func() {}, nil
	case config.DriverRedis:
		c, err := redisstore.New(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Close() }, nil
	case config.DriverPostgres:
		if err := pgstore.Migrate(cfg.PostgresDSN); err != nil {
			return nil, nil, err
		}
		s, err := pgstore.New(ctx, pgstore.Config{DSN: cfg.PostgresDSN})
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, errors.New("unknown store driver " + cfg.StoreDriver)
	}
}

// buildIndexes creates one cached coverer, orchestrator and ingest target
// per configured index, in configuration order.
func buildIndexes(cfg config.Config, st store.Interface, l *slog.Logger) ([]*query.Orchestrator, []ingest.Target, map[mapper.Kind]covering.Interface, error) {
	var (
		queries  []*query.Orchestrator
		targets  []ingest.Target
		coverers = make(map[mapper.Kind]covering.Interface)
	)
	for _, ic := range cfg.Indexes {
		m, err := registry.New(ic.Kind)
		if err != nil {
			return nil, nil, nil, err
		}
		cov, err := covering.NewCached(covering.New(m, covering.WithLogger(l)), cfg.CoveringCacheSize)
		if err != nil {
			return nil, nil, nil, err
		}
		coverers[ic.Kind] = cov

		name := cfg.IndexFor(ic.Kind)
		queries = append(queries, query.New(st, m, cov,
			query.WithIndex(name),
			query.WithPrecision(ic.Precision),
			query.WithWorkers(cfg.QueryWorkers),
			query.WithMaxCells(cfg.MaxCells),
			query.WithLogger(l.With("index", name)),
		))
		targets = append(targets, ingest.Target{Index: name, Mapper: m, Precision: ic.Precision})
	}
	return queries, targets, coverers, nil
}
