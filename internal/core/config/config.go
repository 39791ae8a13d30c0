// Package config resolves settings from defaults, an optional geoindex.yaml
// and the environment, in that order. Keys are the environment variable
// names; the YAML file uses the same names in lower case.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mohammed-shakir/spatial-index/internal/mapper"
)

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type IndexCfg struct {
	Kind      mapper.Kind
	Precision int
}

type IngestCfg struct {
	Enabled bool
	Brokers string
	Topic   string
	GroupID string
}

type Config struct {
	Addr              string
	LogLevel          string
	LogConsole        bool
	LogSampleN        int
	IndexName         string
	Indexes           []IndexCfg // the first answers queries that name no kind
	MaxCells          int
	QueryWorkers      int
	QueryTimeout      time.Duration
	CoveringCacheSize int
	StoreDriver       string
	RedisAddr         string
	PostgresDSN       string
	Ingest            IngestCfg
	MetricsEnabled    bool
}

var defaults = map[string]any{
	"ADDR":                ":8090",
	"LOG_LEVEL":           "info",
	"LOG_CONSOLE":         "false",
	"LOG_SAMPLE_N":        "0",
	"INDEX_KIND":          "h3",
	"INDEX_NAME":          "places",
	"MAX_CELLS":           "128",
	"QUERY_WORKERS":       "8",
	"QUERY_TIMEOUT":       "2s",
	"COVERING_CACHE_SIZE": "1024",
	"STORE_DRIVER":        DriverMemory,
	"REDIS_ADDR":          "localhost:6379",
	"INGEST_ENABLED":      "false",
	"KAFKA_BROKERS":       "localhost:9092",
	"KAFKA_TOPIC":         "location-updates",
	"KAFKA_GROUP_ID":      "geoindex-ingest",
	"METRICS_ENABLED":     "true",
}

// newViper layers the defaults, an optional geoindex.yaml and the
// environment. A missing file is fine; an unreadable one is an error.
func newViper(configPaths ...string) (*viper.Viper, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetConfigName("geoindex")
	v.SetConfigType("yaml")
	if len(configPaths) == 0 {
		configPaths = []string{".", "./configs"}
	}
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	v.AutomaticEnv()
	return v, nil
}

// FromEnv loads and validates the configuration.
func FromEnv() (Config, error) {
	v, err := newViper()
	if err != nil {
		return Config{}, err
	}
	return load(v)
}

func load(v *viper.Viper) (Config, error) {
	r := reader{v: v}
	cfg := Config{
		Addr:              r.getenv("ADDR"),
		LogLevel:          r.getenv("LOG_LEVEL"),
		LogConsole:        r.getbool("LOG_CONSOLE", false),
		LogSampleN:        r.getint("LOG_SAMPLE_N", 0),
		IndexName:         r.getenv("INDEX_NAME"),
		MaxCells:          r.getint("MAX_CELLS", 128),
		QueryWorkers:      r.getint("QUERY_WORKERS", 8),
		QueryTimeout:      r.getduration("QUERY_TIMEOUT", 2*time.Second),
		CoveringCacheSize: r.getint("COVERING_CACHE_SIZE", 1024),
		StoreDriver:       strings.ToLower(r.getenv("STORE_DRIVER")),
		RedisAddr:         r.getenv("REDIS_ADDR"),
		PostgresDSN:       r.getenv("POSTGRES_DSN"),
		Ingest: IngestCfg{
			Enabled: r.getbool("INGEST_ENABLED", false),
			Brokers: r.getenv("KAFKA_BROKERS"),
			Topic:   r.getenv("KAFKA_TOPIC"),
			GroupID: r.getenv("KAFKA_GROUP_ID"),
		},
		MetricsEnabled: r.getbool("METRICS_ENABLED", true),
	}

	idx, err := parseIndexes(r.getenv("INDEX_KIND"))
	if err != nil {
		r.errs = append(r.errs, err.Error())
	}
	if p := r.getenv("INDEX_PRECISION"); p != "" && len(idx) > 0 {
		if n, err := strconv.Atoi(p); err == nil {
			idx[0].Precision = n
		} else {
			r.errs = append(r.errs, fmt.Sprintf("INDEX_PRECISION: %q is not an integer", p))
		}
	}
	cfg.Indexes = idx

	if len(r.errs) > 0 {
		return cfg, fmt.Errorf("config validation failed:\n  - %s", strings.Join(r.errs, "\n  - "))
	}
	return cfg, cfg.Validate()
}

// parseIndexes reads "h3" or "h3:9,s2,geohash:7". Kinds without a
// precision use their default.
func parseIndexes(s string) ([]IndexCfg, error) {
	var out []IndexCfg
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, prec, hasPrec := strings.Cut(part, ":")
		kind, err := mapper.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("INDEX_KIND: %w", err)
		}
		ic := IndexCfg{Kind: kind, Precision: kind.DefaultPrecision()}
		if hasPrec {
			n, err := strconv.Atoi(strings.TrimSpace(prec))
			if err != nil {
				return nil, fmt.Errorf("INDEX_KIND: precision %q of %s is not an integer", prec, kind)
			}
			ic.Precision = n
		}
		out = append(out, ic)
	}
	return out, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []string

	if c.Addr == "" {
		errs = append(errs, "ADDR is required")
	}
	if c.IndexName == "" {
		errs = append(errs, "INDEX_NAME is required")
	}
	if len(c.Indexes) == 0 {
		errs = append(errs, "INDEX_KIND names no index kind")
	}
	seen := map[mapper.Kind]bool{}
	for _, ic := range c.Indexes {
		if seen[ic.Kind] {
			errs = append(errs, fmt.Sprintf("INDEX_KIND lists %s twice", ic.Kind))
		}
		seen[ic.Kind] = true
		if lo, hi := ic.Kind.PrecisionRange(); ic.Precision < lo || ic.Precision > hi {
			errs = append(errs, fmt.Sprintf("precision %d of %s must be %d..%d", ic.Precision, ic.Kind, lo, hi))
		}
	}
	if c.MaxCells <= 0 {
		errs = append(errs, fmt.Sprintf("MAX_CELLS must be positive, got %d", c.MaxCells))
	}
	if c.QueryWorkers <= 0 {
		errs = append(errs, fmt.Sprintf("QUERY_WORKERS must be positive, got %d", c.QueryWorkers))
	}
	if c.QueryTimeout <= 0 {
		errs = append(errs, "QUERY_TIMEOUT must be positive")
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverRedis:
		if c.RedisAddr == "" {
			errs = append(errs, "REDIS_ADDR is required for the redis driver")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, "POSTGRES_DSN is required for the postgres driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("STORE_DRIVER must be memory|redis|postgres, got %q", c.StoreDriver))
	}
	if c.Ingest.Enabled && (c.Ingest.Brokers == "" || c.Ingest.Topic == "" || c.Ingest.GroupID == "") {
		errs = append(errs, "KAFKA_BROKERS, KAFKA_TOPIC and KAFKA_GROUP_ID are required when INGEST_ENABLED")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// IndexFor is the store index holding rows of kind.
func (c Config) IndexFor(kind mapper.Kind) string {
	return c.IndexName + "_" + kind.String()
}

var errUnset = errors.New("unset")

// reader keeps the tolerant accessors of the env-only loader: a value that
// does not parse is reported and the default kept.
type reader struct {
	v    *viper.Viper
	errs []string
}

func (r *reader) getenv(k string) string {
	return strings.TrimSpace(r.v.GetString(k))
}

func (r *reader) raw(k string) (string, error) {
	s := r.getenv(k)
	if s == "" {
		return "", errUnset
	}
	return s, nil
}

func (r *reader) getint(k string, def int) int {
	s, err := r.raw(k)
	if err != nil {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s: %q is not an integer", k, s))
		return def
	}
	return n
}

func (r *reader) getbool(k string, def bool) bool {
	s, err := r.raw(k)
	if err != nil {
		return def
	}
	switch strings.ToLower(s) {
	case "1", "t", "true", "y", "yes":
		return true
	case "0", "f", "false", "n", "no":
		return false
	}
	r.errs = append(r.errs, fmt.Sprintf("%s: %q is not a boolean", k, s))
	return def
}

func (r *reader) getduration(k string, def time.Duration) time.Duration {
	s, err := r.raw(k)
	if err != nil {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s: %q is not a duration", k, s))
		return def
	}
	return d
}
