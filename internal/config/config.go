package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"database"`
	Catalog CatalogConfig `yaml:"catalog"`
	Auth    AuthConfig    `yaml:"auth"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
}

type ServerConfig struct {
	Port               string        `yaml:"port"                 env:"PORT"                 env-default:"8080"`
	FrontendDistPath   string        `yaml:"frontend_dist_path"   env:"FRONTEND_DIST_PATH"`
	CORSAllowedOrigins string        `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173,http://localhost:3000"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"     env:"SHUTDOWN_TIMEOUT"     env-default:"30s"`
}

type DBConfig struct {
	Path     string `yaml:"path"      env:"DB_PATH"      env-default:"./pokemon_trader.db"`
	LogLevel string `yaml:"log_level" env:"DB_LOG_LEVEL" env-default:"warn"`
}

// CatalogConfig configures the Pokemon TCG API client. An empty APIKey is
// allowed at startup; ingestion calls fail fast without it.
type CatalogConfig struct {
	APIKey       string        `yaml:"api_key"        env:"POKEMON_TCG_API_KEY"`
	BaseURL      string        `yaml:"base_url"       env:"POKEMON_TCG_BASE_URL"   env-default:"https://api.pokemontcg.io/v2"`
	Timeout      time.Duration `yaml:"timeout"        env:"POKEMON_TCG_TIMEOUT"    env-default:"30s"`
	RateLimit    float64       `yaml:"rate_limit"     env:"POKEMON_TCG_RATE_LIMIT" env-default:"5"`
	SetCacheSize int           `yaml:"set_cache_size" env:"SET_CACHE_SIZE"         env-default:"256"`
}

// AuthConfig holds the settings shared with the external auth provider.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"pokemon-trader"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

type StorageConfig struct {
	AvatarDir string `yaml:"avatar_dir" env:"AVATAR_DIR" env-default:"./data/avatars"`
}

// Load reads configuration from an optional .env file, an optional YAML file
// (CONFIG_PATH, fallback ./config.yaml) and the environment.
// Priority: ENV > YAML > defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Validate checks values cleanenv cannot check on its own.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	if c.DB.Path == "" {
		return errors.New("database path is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return errors.New("auth jwt secret must be at least 32 characters")
	}
	if c.Catalog.RateLimit <= 0 {
		return fmt.Errorf("catalog rate limit must be positive, got %v", c.Catalog.RateLimit)
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog timeout must be positive, got %v", c.Catalog.Timeout)
	}
	if c.Catalog.SetCacheSize <= 0 {
		return fmt.Errorf("set cache size must be positive, got %d", c.Catalog.SetCacheSize)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// AllowedOrigins splits the comma separated CORS origin list.
func (c ServerConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
