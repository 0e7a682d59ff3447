package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"
	_ "time/tzdata" // presentation.timezone must resolve on minimal images

	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config holds the riverdub configuration.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Database     DatabaseConfig     `yaml:"database"`
	Storage      StorageConfig      `yaml:"storage"`
	Auth         AuthConfig         `yaml:"auth"`
	Catalog      CatalogConfig      `yaml:"catalog"`
	Search       SearchConfig       `yaml:"search"`
	Presentation PresentationConfig `yaml:"presentation"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int  `yaml:"port"`
	ReadTimeoutSec  int  `yaml:"read_timeout_sec"`
	WriteTimeoutSec int  `yaml:"write_timeout_sec"`
	ShutdownSec     int  `yaml:"shutdown_timeout_sec"`
	SecureCookie    bool `yaml:"secure_cookie"`
	TrustProxy      bool `yaml:"trust_proxy"` // honor X-Forwarded-For / X-Real-IP
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // sqlite, redis (default: sqlite)
	Path             string   `yaml:"path"`   // sqlite file
	Addrs            []string `yaml:"addrs"`  // redis
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds upload storage settings.
type StorageConfig struct {
	UploadDir   string `yaml:"upload_dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

// MaxUploadBytes returns the per-file upload limit in bytes.
func (s StorageConfig) MaxUploadBytes() int64 { return s.MaxUploadMB << 20 }

// AuthConfig holds admin and session settings.
type AuthConfig struct {
	AdminUser         string  `yaml:"admin_user"`
	AdminPassword     string  `yaml:"admin_password"`      // plain, hashed at startup
	AdminPasswordHash string  `yaml:"admin_password_hash"` // argon2id PHC, wins over admin_password
	SessionSecret     string  `yaml:"session_secret"`
	SessionTTLMin     int     `yaml:"session_ttl_min"`
	LoginRatePerMin   float64 `yaml:"login_rate_per_min"` // 0 disables throttling
	LoginBurst        int     `yaml:"login_burst"`
}

// SessionTTL returns the session lifetime.
func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLMin) * time.Minute
}

// CatalogConfig holds the video type vocabulary.
type CatalogConfig struct {
	Types []TypeConfig `yaml:"types"`
}

// TypeConfig is one allowed video type.
type TypeConfig struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
}

// SearchConfig holds fuzzy matching and engine settings.
type SearchConfig struct {
	ShortTermMaxLen   int          `yaml:"short_term_max_len"`
	Tiers             []TierConfig `yaml:"tiers"`
	LongMaxDistance   int          `yaml:"long_max_distance"`
	MinSimilarity     float64      `yaml:"min_similarity"`
	Workers           int          `yaml:"workers"`
	ParallelThreshold int          `yaml:"parallel_threshold"`
}

// TierConfig bounds the edit distance for terms up to MaxTermLen runes.
type TierConfig struct {
	MaxTermLen  int `yaml:"max_term_len"`
	MaxDistance int `yaml:"max_distance"`
}

// PresentationConfig controls how timestamps are rendered for humans.
type PresentationConfig struct {
	Timezone      string `yaml:"timezone"`
	DisplayLayout string `yaml:"display_layout"`
}

// Location resolves the configured timezone.
func (p PresentationConfig) Location() (*time.Location, error) {
	if p.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("presentation.timezone: %w", err)
	}
	return loc, nil
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 3000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 300
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join("data", "riverdub.db")
	}
	if c.Database.KeyPrefix == "" {
		c.Database.KeyPrefix = "riverdub:"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "uploads"
	}
	if c.Storage.MaxUploadMB <= 0 {
		c.Storage.MaxUploadMB = 500
	}
	if c.Auth.AdminUser == "" {
		c.Auth.AdminUser = "admin"
	}
	if c.Auth.SessionTTLMin <= 0 {
		c.Auth.SessionTTLMin = 7 * 24 * 60
	}
	if c.Auth.LoginBurst <= 0 {
		c.Auth.LoginBurst = 5
	}
	if c.Search.ShortTermMaxLen == 0 {
		c.Search.ShortTermMaxLen = 2
	}
	if len(c.Search.Tiers) == 0 {
		c.Search.Tiers = []TierConfig{{MaxTermLen: 4, MaxDistance: 1}, {MaxTermLen: 7, MaxDistance: 2}}
	}
	if c.Search.LongMaxDistance == 0 {
		c.Search.LongMaxDistance = 3
	}
	if c.Search.MinSimilarity == 0 {
		c.Search.MinSimilarity = 0.70
	}
	if c.Search.Workers <= 0 {
		c.Search.Workers = 1
	}
	if c.Search.ParallelThreshold <= 0 {
		c.Search.ParallelThreshold = 512
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverSQLite:
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverSQLite, DriverRedis, c.Database.Driver)
	}
	if c.Auth.AdminPassword == "" && c.Auth.AdminPasswordHash == "" {
		return fmt.Errorf("auth.admin_password or auth.admin_password_hash is required")
	}
	if c.Auth.SessionSecret == "" {
		return fmt.Errorf("auth.session_secret is required")
	}
	if c.Auth.LoginRatePerMin < 0 {
		return fmt.Errorf("auth.login_rate_per_min must not be negative, got %v", c.Auth.LoginRatePerMin)
	}
	seen := make(map[string]struct{}, len(c.Catalog.Types))
	for i, t := range c.Catalog.Types {
		if t.Name == "" {
			return fmt.Errorf("catalog.types[%d].name is required", i)
		}
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("catalog.types: duplicate type %q", t.Name)
		}
		seen[t.Name] = struct{}{}
	}
	if _, err := c.Presentation.Location(); err != nil {
		return err
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
