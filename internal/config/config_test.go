package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{
		Auth: AuthConfig{AdminPassword: "pw", SessionSecret: "s"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantSub string
	}{
		{"invalid port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "valkey" }, "database.driver"},
		{"redis without addrs", func(c *Config) { c.Database.Driver = DriverRedis }, "database.addrs"},
		{"no password", func(c *Config) { c.Auth.AdminPassword = "" }, "admin_password"},
		{"no session secret", func(c *Config) { c.Auth.SessionSecret = "" }, "session_secret"},
		{"negative login rate", func(c *Config) { c.Auth.LoginRatePerMin = -1 }, "login_rate_per_min"},
		{"unnamed type", func(c *Config) { c.Catalog.Types = []TypeConfig{{Label: "X"}} }, "catalog.types[0].name"},
		{"duplicate type", func(c *Config) {
			c.Catalog.Types = []TypeConfig{{Name: "demo"}, {Name: "demo"}}
		}, "duplicate"},
		{"bad timezone", func(c *Config) { c.Presentation.Timezone = "Mars/Olympus" }, "presentation.timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestValidate_HashWithoutPlainPassword(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.AdminPassword = ""
	cfg.Auth.AdminPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 3000 {
		t.Errorf("expected Port=3000, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("expected sqlite driver, got %q", cfg.Database.Driver)
	}
	if cfg.Database.Path != filepath.Join("data", "riverdub.db") {
		t.Errorf("unexpected db path %q", cfg.Database.Path)
	}
	if cfg.Database.KeyPrefix != "riverdub:" {
		t.Errorf("expected KeyPrefix='riverdub:', got %q", cfg.Database.KeyPrefix)
	}
	if cfg.Storage.MaxUploadBytes() != 500<<20 {
		t.Errorf("expected 500MB upload limit, got %d", cfg.Storage.MaxUploadBytes())
	}
	if cfg.Auth.AdminUser != "admin" {
		t.Errorf("expected admin user, got %q", cfg.Auth.AdminUser)
	}
	if cfg.Auth.SessionTTL() != 7*24*time.Hour {
		t.Errorf("expected 7d session, got %v", cfg.Auth.SessionTTL())
	}
	if cfg.Search.ShortTermMaxLen != 2 || cfg.Search.LongMaxDistance != 3 || cfg.Search.MinSimilarity != 0.70 {
		t.Errorf("unexpected search defaults: %+v", cfg.Search)
	}
	if len(cfg.Search.Tiers) != 2 || cfg.Search.Tiers[0] != (TierConfig{4, 1}) || cfg.Search.Tiers[1] != (TierConfig{7, 2}) {
		t.Errorf("unexpected tiers: %+v", cfg.Search.Tiers)
	}
	if cfg.Search.Workers != 1 {
		t.Errorf("expected one worker, got %d", cfg.Search.Workers)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080, ReadTimeoutSec: 5},
		Database: DatabaseConfig{Driver: DriverRedis, KeyPrefix: "custom:"},
		Storage:  StorageConfig{MaxUploadMB: 10},
		Search:   SearchConfig{Tiers: []TierConfig{{MaxTermLen: 5, MaxDistance: 0}}, Workers: 8},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8080 || cfg.HTTP.ReadTimeoutSec != 5 {
		t.Errorf("http overridden: %+v", cfg.HTTP)
	}
	if cfg.Database.Driver != DriverRedis || cfg.Database.KeyPrefix != "custom:" {
		t.Errorf("database overridden: %+v", cfg.Database)
	}
	if cfg.Storage.MaxUploadMB != 10 {
		t.Errorf("storage overridden: %+v", cfg.Storage)
	}
	if len(cfg.Search.Tiers) != 1 || cfg.Search.Workers != 8 {
		t.Errorf("search overridden: %+v", cfg.Search)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("RIVERDUB_TEST_SET", "value")

	got := string(expandEnvVars([]byte("a: ${RIVERDUB_TEST_SET}\nb: ${RIVERDUB_TEST_UNSET:-fallback}\nc: ${RIVERDUB_TEST_UNSET}")))
	want := "a: value\nb: fallback\nc: "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("RIVERDUB_TEST_PORT", "8081")
	path := filepath.Join(t.TempDir(), "test.yaml")
	data := `
http:
  port: ${RIVERDUB_TEST_PORT}
auth:
  admin_password: ${RIVERDUB_TEST_PASS:-riverdub}
  session_secret: secret
catalog:
  types:
    - { name: demo, label: Demo }
search:
  min_similarity: 0.8
presentation:
  timezone: Europe/Moscow
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.HTTP.Port != 8081 {
		t.Errorf("expected port 8081, got %d", cfg.HTTP.Port)
	}
	if cfg.Auth.AdminPassword != "riverdub" {
		t.Errorf("expected default password, got %q", cfg.Auth.AdminPassword)
	}
	if len(cfg.Catalog.Types) != 1 || cfg.Catalog.Types[0].Name != "demo" {
		t.Errorf("unexpected types: %+v", cfg.Catalog.Types)
	}
	if cfg.Search.MinSimilarity != 0.8 {
		t.Errorf("expected similarity 0.8, got %v", cfg.Search.MinSimilarity)
	}
	loc, err := cfg.Presentation.Location()
	if err != nil || loc.String() != "Europe/Moscow" {
		t.Errorf("unexpected location %v (%v)", loc, err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad_ShippedConfigs(t *testing.T) {
	t.Setenv("SESSION_SECRET", "from-env")
	t.Setenv("REDIS_KEY_PREFIX", "")
	t.Setenv("REDIS_ADDR", "")
	for _, env := range []string{"local", "prod"} {
		t.Run(env, func(t *testing.T) {
			t.Setenv("ADMIN_PASS", "pw")
			cfg, err := Load(env)
			if err != nil {
				t.Fatalf("Load(%s): %v", env, err)
			}
			if len(cfg.Catalog.Types) != 6 {
				t.Errorf("expected 6 types, got %d", len(cfg.Catalog.Types))
			}
			if cfg.Database.KeyPrefix != "riverdub:" {
				t.Errorf("expected key prefix riverdub:, got %q", cfg.Database.KeyPrefix)
			}
		})
	}
}

func TestLoadFile_QuotedDefaultsWithColons(t *testing.T) {
	t.Setenv("RIVERDUB_TEST_PREFIX", "")
	t.Setenv("RIVERDUB_TEST_ADDR", "")
	t.Setenv("RIVERDUB_TEST_SECRET", "a: b # c")
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	content := `database:
  driver: redis
  addrs:
    - "${RIVERDUB_TEST_ADDR:-cache:6379}"
  key_prefix: "${RIVERDUB_TEST_PREFIX:-media:}"
auth:
  admin_password: pw
  session_secret: "${RIVERDUB_TEST_SECRET}"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Database.KeyPrefix != "media:" {
		t.Errorf("expected key prefix media:, got %q", cfg.Database.KeyPrefix)
	}
	if len(cfg.Database.Addrs) != 1 || cfg.Database.Addrs[0] != "cache:6379" {
		t.Errorf("unexpected addrs %v", cfg.Database.Addrs)
	}
	if cfg.Auth.SessionSecret != "a: b # c" {
		t.Errorf("unexpected session secret %q", cfg.Auth.SessionSecret)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("expected local, got %q", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("expected prod, got %q", got)
	}
}
