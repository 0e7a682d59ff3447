package riverdub

import (
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

const (
	driverSQLite = "sqlite"
	driverRedis  = "redis"
)

type clientConfig struct {
	driver     string
	sqlitePath string
	addrs      []string
	username   string
	password   string
	redisDB    int
	keyPrefix  string

	matching          *Matching
	workers           int
	parallelThreshold int
	types             []TypeLabel

	uploadDir      string
	maxUploadBytes int64

	logger *zap.Logger
}

// WithSQLite stores the catalog in an embedded SQLite file. Use ":memory:" for a
// throwaway database.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverSQLite
		c.sqlitePath = path
	})
}

// WithRedis stores the catalog in Redis hashes.
func WithRedis(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = addrs
	})
}

// WithRedisAuth sets Redis ACL credentials.
func WithRedisAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithRedisDB selects the logical Redis database.
func WithRedisDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisDB = db
	})
}

// WithKeyPrefix namespaces Redis keys. Default: "riverdub:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithMatching overrides the fuzzy matching thresholds.
func WithMatching(m Matching) Option {
	return optionFunc(func(c *clientConfig) {
		c.matching = &m
	})
}

// WithParallelism evaluates catalogs of at least threshold records on workers goroutines.
func WithParallelism(workers, threshold int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = workers
		c.parallelThreshold = threshold
	})
}

// WithTypes replaces the default type vocabulary.
func WithTypes(types ...TypeLabel) Option {
	return optionFunc(func(c *clientConfig) {
		c.types = types
	})
}

// WithUploadDir enables Create and Update, storing media files in dir.
// maxBytes <= 0 uses the 500 MB default.
func WithUploadDir(dir string, maxBytes int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.uploadDir = dir
		c.maxUploadBytes = maxBytes
	})
}

// WithLogger enables structured logging for SDK operations. Default: no logging.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
