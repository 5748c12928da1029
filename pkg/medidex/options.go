package medidex

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver     string // "memory", "valkey", "redis" or "sqlite"
	addrs      []string
	password   string
	keyPrefix  string
	sqlitePath string

	defaultPageSize int
	maxPageSize     int
	ranked          bool
	importBatchSize int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithMemory keeps the catalog in process memory (default). Contents are
// lost on Close.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
	})
}

// WithValkey stores the catalog in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis stores the catalog in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithSQLite stores the catalog in a SQLite database file, created if missing.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "sqlite"
		c.sqlitePath = path
	})
}

// WithKeyPrefix namespaces Redis/Valkey keys. Default: "medidex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithPageSizes sets the default and maximum page sizes. Defaults: 20 and 100.
func WithPageSizes(defaultSize, maxSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultPageSize = defaultSize
		c.maxPageSize = maxSize
	})
}

// WithRankedPagination pages through the ranked search results instead of
// returning the top results on every page.
func WithRankedPagination() Option {
	return optionFunc(func(c *clientConfig) {
		c.ranked = true
	})
}

// WithImportBatchSize sets the number of records per insert during import.
// Default: 1000.
func WithImportBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.importBatchSize = size
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
