package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
	"github.com/utafrali/storefront/pkg/validator"
)

// Snapshot backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds all configuration for the storefront.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	// HTTP server
	HTTPPort      int      `env:"STOREFRONT_HTTP_PORT" envDefault:"8080" validate:"gte=1,lte=65535"`
	SecureCookies bool     `env:"SECURE_COOKIES" envDefault:"false"`
	CORSOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	PprofCIDRs    []string `env:"PPROF_ALLOWED_CIDRS" envSeparator:","`

	// Snapshot store
	SnapshotBackend string `env:"SNAPSHOT_BACKEND" envDefault:"memory" validate:"oneof=memory redis"`
	SnapshotTTL     int    `env:"SNAPSHOT_TTL_HOURS" envDefault:"168" validate:"gte=0"`
	RedisAddr       string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass       string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0" validate:"gte=0"`

	// Redis commands slower than this are logged; 0 disables.
	SlowCommandMillis int `env:"REDIS_SLOW_COMMAND_MS" envDefault:"100" validate:"gte=0"`

	// Catalog and listing
	CatalogFile     string `env:"CATALOG_FILE"`
	DefaultMaxPrice int    `env:"DEFAULT_MAX_PRICE" envDefault:"500" validate:"gte=0"`
	PerPage         int    `env:"LISTING_PER_PAGE" envDefault:"12" validate:"gte=1,lte=100"`

	// Notices
	NoticeTTLMillis int `env:"NOTICE_TTL_MS" envDefault:"2500" validate:"gt=0"`
	NoticeDepth     int `env:"NOTICE_DEPTH" envDefault:"3" validate:"gte=1"`

	// Per-session mutation rate limit
	MutationRPS   float64 `env:"MUTATION_RPS" envDefault:"5" validate:"gt=0"`
	MutationBurst int     `env:"MUTATION_BURST" envDefault:"20" validate:"gte=1"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads configuration from vars instead of the environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadFrom(cfg, vars); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if err := validator.Validate(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.SnapshotBackend == BackendRedis && c.RedisAddr == "" {
		return fmt.Errorf("invalid config: REDIS_ADDR is required for the redis backend")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("invalid config: OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %v", c.OTELSampleRate)
	}
	return nil
}

// SnapshotTTLDuration returns the snapshot lifetime.
func (c *Config) SnapshotTTLDuration() time.Duration {
	return time.Duration(c.SnapshotTTL) * time.Hour
}

// NoticeTTL returns how long a notice stays visible.
func (c *Config) NoticeTTL() time.Duration {
	return time.Duration(c.NoticeTTLMillis) * time.Millisecond
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
