package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/clutchparts/search-service/pkg/config"
	"github.com/clutchparts/search-service/pkg/database"
	"github.com/clutchparts/search-service/pkg/validator"
)

// Config holds all configuration for the search service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"SEARCH_HTTP_PORT" envDefault:"8010" validate:"min=1,max=65535"`

	// PostgreSQL catalog store
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"catalog"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"catalog"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"catalog"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	PostgresMaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	PostgresMinConns int32  `env:"POSTGRES_MIN_CONNS" envDefault:"2"`

	// Redis result cache
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	CacheEnabled  bool   `env:"SEARCH_CACHE_ENABLED" envDefault:"true"`

	// Cache TTLs per result class
	CacheTTLIndexed  time.Duration `env:"SEARCH_CACHE_TTL_INDEXED" envDefault:"1h"`
	CacheTTLFallback time.Duration `env:"SEARCH_CACHE_TTL_FALLBACK" envDefault:"30m"`
	CacheTTLEmpty    time.Duration `env:"SEARCH_CACHE_TTL_EMPTY" envDefault:"5m"`

	// Fallback tier result limits
	ScanLimit     int `env:"SEARCH_SCAN_LIMIT" envDefault:"50" validate:"min=1"`
	CategoryLimit int `env:"SEARCH_CATEGORY_LIMIT" envDefault:"200" validate:"min=1"`

	// Image serving
	ImageBaseURL string `env:"IMAGE_BASE_URL" envDefault:"https://img.clutchparts.io/parts"`

	// Elasticsearch browse index
	ElasticsearchURL   string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200"`
	ElasticsearchIndex string `env:"ELASTICSEARCH_INDEX" envDefault:"catalog_parts"`

	// Browse engine selection (elasticsearch, memory, or disabled)
	BrowseEngine string `env:"BROWSE_ENGINE" envDefault:"elasticsearch" validate:"oneof=elasticsearch memory disabled"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"true"`

	// Tracing
	OTLPEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"OTEL_TRACE_SAMPLE_RATE" envDefault:"1.0"`
	TracingEnabled  bool    `env:"OTEL_TRACING_ENABLED" envDefault:"false"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load search config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants via struct tags.
func (c *Config) validate() error {
	if err := validator.Validate(c); err != nil {
		return fmt.Errorf("invalid search config: %w", err)
	}
	return nil
}

// Postgres returns the connection configuration for the catalog store.
func (c *Config) Postgres() *database.PostgresConfig {
	return &database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPassword,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSLMode,
		MaxConns:        c.PostgresMaxConns,
		MinConns:        c.PostgresMinConns,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}
}

// Redis returns the connection configuration for the result cache.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}
