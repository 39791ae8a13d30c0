package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/spf13/viper"

	"github.com/mohammed-shakir/spatial-index/internal/mapper"
)

func testViper(t *testing.T, dir string) *viper.Viper {
	t.Helper()
	v, err := newViper(dir)
	if err != nil {
		t.Fatalf("newViper: %v", err)
	}
	return v
}

func TestDefaults(t *testing.T) {
	is := is.New(t)
	cfg, err := load(testViper(t, t.TempDir()))
	is.NoErr(err)

	is.Equal(cfg.Addr, ":8090")
	is.Equal(cfg.IndexName, "places")
	is.Equal(cfg.Indexes, []IndexCfg{{Kind: mapper.H3, Precision: 8}})
	is.Equal(cfg.MaxCells, 128)
	is.Equal(cfg.QueryWorkers, 8)
	is.Equal(cfg.QueryTimeout, 2*time.Second)
	is.Equal(cfg.StoreDriver, DriverMemory)
	is.Equal(cfg.Ingest.Topic, "location-updates")
	is.True(cfg.MetricsEnabled)
	is.True(!cfg.Ingest.Enabled)
	is.Equal(cfg.IndexFor(mapper.H3), "places_h3")
}

func TestEnvOverrides(t *testing.T) {
	is := is.New(t)
	t.Setenv("INDEX_KIND", "s2:12, geohash")
	t.Setenv("INDEX_PRECISION", "14")
	t.Setenv("MAX_CELLS", "64")
	t.Setenv("QUERY_TIMEOUT", "750ms")
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("LOG_CONSOLE", "yes")

	cfg, err := load(testViper(t, t.TempDir()))
	is.NoErr(err)
	is.Equal(cfg.Indexes, []IndexCfg{{Kind: mapper.S2, Precision: 14}, {Kind: mapper.GeoHash, Precision: 6}})
	is.Equal(cfg.MaxCells, 64)
	is.Equal(cfg.QueryTimeout, 750*time.Millisecond)
	is.Equal(cfg.StoreDriver, DriverRedis)
	is.True(cfg.LogConsole)
}

func TestYAMLThenEnv(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	yaml := "index_name: shops\nmax_cells: 32\nstore_driver: postgres\npostgres_dsn: postgres://u:p@db:5432/geo\n"
	is.NoErr(os.WriteFile(filepath.Join(dir, "geoindex.yaml"), []byte(yaml), 0o600))
	t.Setenv("MAX_CELLS", "48")

	cfg, err := load(testViper(t, dir))
	is.NoErr(err)
	is.Equal(cfg.IndexName, "shops")
	is.Equal(cfg.MaxCells, 48) // env beats the file
	is.Equal(cfg.StoreDriver, DriverPostgres)
	is.Equal(cfg.PostgresDSN, "postgres://u:p@db:5432/geo")
}

func TestMalformedYAML_IsAnError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "geoindex.yaml"), []byte("max_cells: [1, 2\nindex_name: :\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := newViper(dir)
	if err == nil || !strings.Contains(err.Error(), "read config file") {
		t.Fatalf("want read error, got %v", err)
	}

	if _, err := newViper(t.TempDir()); err != nil {
		t.Fatalf("missing file: %v", err)
	}
}

func TestValidation_CollectsEveryProblem(t *testing.T) {
	t.Setenv("MAX_CELLS", "many")
	t.Setenv("QUERY_WORKERS", "0")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("INDEX_KIND", "h3:16")

	_, err := load(testViper(t, t.TempDir()))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	// parse problems are reported before the semantic checks run
	if !strings.Contains(err.Error(), `MAX_CELLS: "many" is not an integer`) {
		t.Fatalf("missing parse problem: %v", err)
	}

	t.Setenv("MAX_CELLS", "10")
	_, err = load(testViper(t, t.TempDir()))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"QUERY_WORKERS", "POSTGRES_DSN", "precision 16 of h3 must be 0..15"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error does not mention %s: %v", want, err)
		}
	}
}

func TestParseIndexes(t *testing.T) {
	if _, err := parseIndexes("quadkey"); err == nil {
		t.Fatalf("unknown kind accepted")
	}
	if _, err := parseIndexes("h3:x"); err == nil {
		t.Fatalf("bad precision accepted")
	}
	got, err := parseIndexes(" ,h3:9,,")
	if err != nil || len(got) != 1 || got[0].Precision != 9 {
		t.Fatalf("got %v %v", got, err)
	}

	dup := Config{Addr: ":1", IndexName: "x", MaxCells: 1, QueryWorkers: 1, QueryTimeout: time.Second,
		StoreDriver: DriverMemory, Indexes: []IndexCfg{{mapper.H3, 8}, {mapper.H3, 9}}}
	if err := dup.Validate(); err == nil || !strings.Contains(err.Error(), "twice") {
		t.Fatalf("duplicate kind: %v", err)
	}
}
