// Package config loads the process configuration from the environment. A
// .env file in the working directory, when present, is applied first.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server   Server   `envconfig:"SERVER"`
	App      App      `envconfig:"APP"`
	Cache    Cache    `envconfig:"CACHE"`
	JWT      JWT      `envconfig:"JWT"`
	DB       DB       `envconfig:"DB"`
	Kafka    Kafka    `envconfig:"KAFKA"`
	External External `envconfig:"EXTERNAL"`
}

type Server struct {
	Env      string `envconfig:"ENV"       default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"      default:"5000"`
	Shutdown struct {
		CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"5"`
		GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"10"`
	} `envconfig:"SHUTDOWN"`
}

type App struct {
	Name        string `envconfig:"APP_NAME" default:"hostel"`
	Timezone    string `envconfig:"TIMEZONE" default:"UTC"`
	APIKey      string `envconfig:"API_KEY"`
	CORS        CORS   `envconfig:"CORS"`
	RateLimiter struct {
		Enable        bool `envconfig:"ENABLE"`
		MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"100"`
		WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
	} `envconfig:"RATE_LIMITER"`
	Worker struct {
		ReconcileIntervalSeconds int `envconfig:"RECONCILE_INTERVAL_SECONDS" default:"300"`
	} `envconfig:"WORKER"`
	// Bootstrap seeds the first superadmin when no users exist.
	Bootstrap struct {
		Name     string `envconfig:"NAME" default:"Super Admin"`
		Email    string `envconfig:"EMAIL"`
		Password string `envconfig:"PASSWORD"`
	} `envconfig:"BOOTSTRAP"`
}

type CORS struct {
	Enable           bool     `envconfig:"ENABLE"`
	AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
	AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	AllowedMethods   []string `envconfig:"ALLOWED_METHODS" default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS" default:"Authorization,Content-Type,X-API-Key"`
	MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS" default:"300"`
}

type Cache struct {
	Redis struct {
		Primary struct {
			Host     string `envconfig:"HOST"`
			Port     string `envconfig:"PORT" default:"6379"`
			Password string `envconfig:"PASSWORD"`
			DB       int    `envconfig:"DB"`
		} `envconfig:"PRIMARY"`
	} `envconfig:"REDIS"`
	// TTL is in seconds.
	TTL int `envconfig:"TTL" default:"300"`
}

type JWT struct {
	AccessSecret     string `envconfig:"ACCESS_SECRET"`
	RefreshSecret    string `envconfig:"REFRESH_SECRET"`
	AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"  default:"60"`
	RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"10080"`
}

type DB struct {
	Postgres struct {
		MaxRetry       int    `envconfig:"MAX_RETRY"       default:"3"`
		RetryWaitTime  int    `envconfig:"RETRY_WAIT_TIME" default:"2"`
		MigrationTable string `envconfig:"MIGRATION_TABLE" default:"schema_migrations"`
		AutoMigrate    bool   `envconfig:"AUTO_MIGRATE"`

		// Prefix is prepended to both database names.
		Prefix string           `envconfig:"PREFIX"`
		Read   PostgresEndpoint `envconfig:"READ"`
		Write  PostgresEndpoint `envconfig:"WRITE"`
	} `envconfig:"POSTGRES"`
}

// PostgresEndpoint is one server of the pool. A read endpoint without a host
// falls back to the write endpoint.
type PostgresEndpoint struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type Kafka struct {
	Enable        bool     `envconfig:"ENABLE"`
	Brokers       []string `envconfig:"BROKERS"`
	ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"hostel-reconciler"`
	Topic         string   `envconfig:"TOPIC"          default:"hostel-events"`
	SASL          struct {
		Username string `envconfig:"USERNAME"`
		Password string `envconfig:"PASSWORD"`
	} `envconfig:"SASL"`
}

type External struct {
	Otel struct {
		Endpoint string `envconfig:"ENDPOINT"`
	} `envconfig:"OTEL"`
	S3 struct {
		APIEndpoint     string `envconfig:"API_ENDPOINT"`
		PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
		BucketName      string `envconfig:"BUCKET_NAME"`
		Region          string `envconfig:"REGION" default:"auto"`
		AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
		SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
	} `envconfig:"S3"`
}

var (
	conf    *Config
	loadErr error
	once    sync.Once
)

// Load applies envFile, if it exists, and reads the environment into a new
// Config.
func Load(envFile string) (*Config, error) {
	switch err := godotenv.Load(envFile); {
	case err == nil:
		log.Info().Str("file", envFile).Msg("loaded environment file")
	case errors.Is(err, fs.ErrNotExist):
		log.Debug().Str("file", envFile).Msg("no environment file, using process environment")
	default:
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return cfg, nil
}

// Get returns the process configuration, loading it on first use. A load
// failure is fatal.
func Get() *Config {
	once.Do(func() {
		conf, loadErr = Load(".env")
	})

	if loadErr != nil {
		log.Fatal().Err(loadErr).Msg("failed to initialize configuration")
	}

	return conf
}
