package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultReadTimeoutSeconds is the default HTTP read timeout in seconds
	DefaultReadTimeoutSeconds = 10
	// DefaultWriteTimeoutSeconds is the default HTTP write timeout in seconds
	DefaultWriteTimeoutSeconds = 30
	// DefaultIdleTimeoutSeconds is the default HTTP idle timeout in seconds
	DefaultIdleTimeoutSeconds = 60
	// DefaultShutdownTimeoutSeconds is the default graceful shutdown timeout in seconds
	DefaultShutdownTimeoutSeconds = 30
	// DefaultZoneCacheTTL is how long zone placement payloads stay cached
	DefaultZoneCacheTTL = 5 * time.Minute
)

// Config is the shared configuration for all editorial binaries. Each binary
// reads the sections it needs; one YAML file configures the whole deployment.
type Config struct {
	Debug         bool                `yaml:"debug"` // Controls log level and format
	API           APIConfig           `yaml:"api"`
	Composer      ComposerConfig      `yaml:"composer"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Auth          AuthConfig          `yaml:"auth"`
	Cache         CacheConfig         `yaml:"cache"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Site          SiteConfig          `yaml:"site"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Worker        WorkerConfig        `yaml:"worker"`
}

// APIConfig configures the editorial API server.
type APIConfig struct {
	Address      string        `yaml:"address"`       // e.g., ":8080"
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"` // Default: 30s
	IdleTimeout  time.Duration `yaml:"idle_timeout"`  // Default: 60s
	CORSOrigins  []string      `yaml:"cors_origins"`  // Default: * (all origins)
}

// ComposerConfig configures the homepage composer and its feed client.
type ComposerConfig struct {
	Address     string        `yaml:"address"`      // e.g., ":8081"
	APIURL      string        `yaml:"api_url"`      // Editorial API base URL
	APITimeout  time.Duration `yaml:"api_timeout"`  // Per-request timeout (default: 5s)
	CacheTTL    time.Duration `yaml:"cache_ttl"`    // Zone feed cache TTL (default: 5m)
	CORSOrigins []string      `yaml:"cors_origins"` // Default: * (all origins)
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ElasticsearchConfig holds search backend settings.
type ElasticsearchConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Index    string `yaml:"index"` // Default: travi-content
}

// AuthConfig holds admin authentication settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// CacheConfig holds server-side zone cache settings.
type CacheConfig struct {
	ZoneTTL time.Duration `yaml:"zone_ttl"` // Default: 5m
}

// RateLimitConfig holds per-IP rate limiting for public write endpoints.
type RateLimitConfig struct {
	MaxPerMinute  int `yaml:"max_per_minute"` // Default: 10
	WindowSeconds int `yaml:"window_seconds"` // Default: 60
}

// SiteConfig describes the public site the API serves.
type SiteConfig struct {
	BaseURL string `yaml:"base_url"` // e.g., "https://traviworld.com"
	Name    string `yaml:"name"`
}

// CatalogConfig locates the immutable destination catalogue.
type CatalogConfig struct {
	Path string `yaml:"path"` // Default: configs/destinations.yml
}

// WorkerConfig holds autonomy worker schedules (standard cron expressions).
type WorkerConfig struct {
	TrendingSchedule string        `yaml:"trending_schedule"` // Default: */10 * * * *
	SweepSchedule    string        `yaml:"sweep_schedule"`    // Default: * * * * *
	AuditSchedule    string        `yaml:"audit_schedule"`    // Default: 0 * * * *
	ReindexSchedule  string        `yaml:"reindex_schedule"`  // Default: 30 4 * * *
	AuditTimeout     time.Duration `yaml:"audit_timeout"`     // Per-page fetch timeout (default: 10s)
	AuditRate        float64       `yaml:"audit_rate"`        // Outbound fetches per second (default: 2)
}

// Load reads the YAML config at path, applies defaults, overrides from the
// environment and validates the result. A .env file next to the process is
// honoured when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)
	overrideWithEnvVars(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.Database == "" || c.Database.User == "" {
		return errors.New("database.host, database.database and database.user are required")
	}
	if c.Redis.URL == "" {
		return errors.New("redis.url is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required (set JWT_SECRET)")
	}
	if c.Elasticsearch.Enabled && c.Elasticsearch.URL == "" {
		return errors.New("elasticsearch.url is required when elasticsearch.enabled is true")
	}
	if c.Composer.APIURL == "" {
		return errors.New("composer.api_url is required")
	}
	if c.Cache.ZoneTTL <= 0 {
		return fmt.Errorf("cache.zone_ttl must be positive, got %v", c.Cache.ZoneTTL)
	}
	if c.Composer.CacheTTL <= 0 {
		return fmt.Errorf("composer.cache_ttl must be positive, got %v", c.Composer.CacheTTL)
	}
	if c.Site.BaseURL == "" {
		return errors.New("site.base_url is required")
	}
	return nil
}

// setDefaults sets default values for configuration fields
func setDefaults(cfg *Config) {
	if cfg.API.Address == "" {
		cfg.API.Address = ":8080"
	}
	if cfg.API.ReadTimeout == 0 {
		cfg.API.ReadTimeout = DefaultReadTimeoutSeconds * time.Second
	}
	if cfg.API.WriteTimeout == 0 {
		cfg.API.WriteTimeout = DefaultWriteTimeoutSeconds * time.Second
	}
	if cfg.API.IdleTimeout == 0 {
		cfg.API.IdleTimeout = DefaultIdleTimeoutSeconds * time.Second
	}
	if cfg.Composer.Address == "" {
		cfg.Composer.Address = ":8081"
	}
	if cfg.Composer.APIURL == "" {
		cfg.Composer.APIURL = "http://localhost:8080"
	}
	if cfg.Composer.APITimeout == 0 {
		cfg.Composer.APITimeout = 5 * time.Second
	}
	if cfg.Composer.CacheTTL == 0 {
		cfg.Composer.CacheTTL = DefaultZoneCacheTTL
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.Database == "" {
		cfg.Database.Database = "travi_editorial"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Redis.URL == "" {
		cfg.Redis.URL = "localhost:6379"
	}
	if cfg.Elasticsearch.URL == "" {
		cfg.Elasticsearch.URL = "http://localhost:9200"
	}
	if cfg.Elasticsearch.Index == "" {
		cfg.Elasticsearch.Index = "travi-content"
	}
	if cfg.Cache.ZoneTTL == 0 {
		cfg.Cache.ZoneTTL = DefaultZoneCacheTTL
	}
	if cfg.RateLimit.MaxPerMinute == 0 {
		cfg.RateLimit.MaxPerMinute = 10
	}
	if cfg.RateLimit.WindowSeconds == 0 {
		cfg.RateLimit.WindowSeconds = 60
	}
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = "https://traviworld.com"
	}
	if cfg.Site.Name == "" {
		cfg.Site.Name = "TRAVI World"
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "configs/destinations.yml"
	}
	if cfg.Worker.TrendingSchedule == "" {
		cfg.Worker.TrendingSchedule = "*/10 * * * *"
	}
	if cfg.Worker.SweepSchedule == "" {
		cfg.Worker.SweepSchedule = "* * * * *"
	}
	if cfg.Worker.AuditSchedule == "" {
		cfg.Worker.AuditSchedule = "0 * * * *"
	}
	if cfg.Worker.ReindexSchedule == "" {
		cfg.Worker.ReindexSchedule = "30 4 * * *"
	}
	if cfg.Worker.AuditTimeout == 0 {
		cfg.Worker.AuditTimeout = 10 * time.Second
	}
	if cfg.Worker.AuditRate == 0 {
		cfg.Worker.AuditRate = 2
	}
}

// overrideWithEnvVars overrides configuration with environment variables
func overrideWithEnvVars(cfg *Config) {
	if v := os.Getenv("APP_DEBUG"); v != "" {
		cfg.Debug = parseBool(v)
	}
	if v := os.Getenv("API_PORT"); v != "" {
		cfg.API.Address = ":" + v
	}
	if v := os.Getenv("COMPOSER_PORT"); v != "" {
		cfg.Composer.Address = ":" + v
	}
	if v := os.Getenv("EDITORIAL_API_URL"); v != "" {
		cfg.Composer.APIURL = v
	}
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("POSTGRES_DB"); v != "" {
		cfg.Database.Database = v
	}
	if v := os.Getenv("POSTGRES_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("ES_URL"); v != "" {
		cfg.Elasticsearch.URL = v
	}
	if v := os.Getenv("ES_ENABLED"); v != "" {
		cfg.Elasticsearch.Enabled = parseBool(v)
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("SITE_BASE_URL"); v != "" {
		cfg.Site.BaseURL = v
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.API.CORSOrigins = origins
		cfg.Composer.CORSOrigins = origins
	}
}

// parseBool parses a string value as a boolean.
// Returns true for "true", "1", "yes" (case-insensitive), false otherwise.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}
