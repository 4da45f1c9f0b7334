package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testSecret = "test-secret-at-least-32-chars-long-for-security"

func TestLoad_EnvDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.DB.Path != "./pokemon_trader.db" {
		t.Errorf("expected default db path, got %s", cfg.DB.Path)
	}
	if cfg.Catalog.BaseURL != "https://api.pokemontcg.io/v2" {
		t.Errorf("unexpected catalog base url %s", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.Timeout != 30*time.Second {
		t.Errorf("expected 30s catalog timeout, got %v", cfg.Catalog.Timeout)
	}
	if cfg.Catalog.APIKey != "" {
		t.Errorf("expected empty api key, got %q", cfg.Catalog.APIKey)
	}
	if cfg.Auth.JWTIssuer != "pokemon-trader" {
		t.Errorf("unexpected issuer %s", cfg.Auth.JWTIssuer)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("POKEMON_TCG_API_KEY", "abc")
	t.Setenv("POKEMON_TCG_RATE_LIMIT", "2.5")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Catalog.APIKey != "abc" {
		t.Errorf("expected api key abc, got %q", cfg.Catalog.APIKey)
	}
	if cfg.Catalog.RateLimit != 2.5 {
		t.Errorf("expected rate limit 2.5, got %v", cfg.Catalog.RateLimit)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected json log format, got %s", cfg.Log.Format)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	os.Unsetenv("AUTH_JWT_SECRET")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when AUTH_JWT_SECRET is missing")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: "7000"
database:
  path: /tmp/trader.db
auth:
  jwt_secret: ` + testSecret + `
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "7000" {
		t.Errorf("expected port 7000 from yaml, got %s", cfg.Server.Port)
	}
	if cfg.DB.Path != "/tmp/trader.db" {
		t.Errorf("expected db path from yaml, got %s", cfg.DB.Path)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{Port: "8080"},
			DB:      DBConfig{Path: "x.db"},
			Catalog: CatalogConfig{RateLimit: 1, Timeout: time.Second, SetCacheSize: 10},
			Auth:    AuthConfig{JWTSecret: testSecret},
			Log:     LogConfig{Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, true},
		{"zero rate limit", func(c *Config) { c.Catalog.RateLimit = 0 }, true},
		{"zero timeout", func(c *Config) { c.Catalog.Timeout = 0 }, true},
		{"zero cache", func(c *Config) { c.Catalog.SetCacheSize = 0 }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"empty port", func(c *Config) { c.Server.Port = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	s := ServerConfig{CORSAllowedOrigins: " http://a.test , ,http://b.test"}
	got := s.AllowedOrigins()
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("unexpected origins %v", got)
	}
}
