package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads .env, then config.yaml from ./configs or ., then the environment
// (APP_NAME, DATABASE_POSTGRES_HOST, ...)
func Load() (*Config, error) {
	return LoadFrom("./configs", ".")
}

// LoadFrom is Load with explicit search paths for config.yaml
func LoadFrom(paths ...string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Reconcile.Queue == "" {
		cfg.Reconcile.Queue = DriverMemory
		if cfg.Storage.Driver == DriverPostgres {
			cfg.Reconcile.Queue = DriverRedis
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

// Every key needs a default so AutomaticEnv can override it on Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "prointern")
	v.SetDefault("app.environment", "development")

	v.SetDefault("http.port", 8080)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("storage.driver", DriverMemory)

	v.SetDefault("database.postgres.host", "")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "")
	v.SetDefault("database.postgres.user", "")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.max_connections", 25)
	v.SetDefault("database.postgres.max_idle", 5)
	v.SetDefault("database.postgres.sslmode", "disable")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("reconcile.queue", "")
	v.SetDefault("reconcile.queue_name", "prointern:reconcile")
	v.SetDefault("reconcile.workers", 2)
	v.SetDefault("reconcile.max_attempts", 5)
	v.SetDefault("reconcile.retry_delay", 5*time.Second)
	v.SetDefault("reconcile.poll_timeout", 2*time.Second)

	v.SetDefault("files.driver", DriverMemory)
	v.SetDefault("files.region", "")
	v.SetDefault("files.bucket", "")
	v.SetDefault("files.prefix", "uploads")
	v.SetDefault("files.url_ttl", 15*time.Minute)
	v.SetDefault("files.base_url", "http://localhost:8080/files")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "prointern")
	v.SetDefault("auth.access_token_ttl", 24*time.Hour)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("apply.max_cv_bytes", 5<<20)
}

func validateConfig(cfg *Config) error {
	switch cfg.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", DriverPostgres, DriverMemory, cfg.Storage.Driver)
	}

	switch cfg.Reconcile.Queue {
	case DriverMemory:
	case DriverRedis:
		if cfg.Redis.Address == "" {
			return fmt.Errorf("redis.address is required")
		}
	default:
		return fmt.Errorf("reconcile.queue must be %q or %q, got %q", DriverRedis, DriverMemory, cfg.Reconcile.Queue)
	}

	switch cfg.Files.Driver {
	case DriverMemory:
	case DriverS3:
		if cfg.Files.Region == "" || cfg.Files.Bucket == "" {
			return fmt.Errorf("files.region and files.bucket are required for the s3 driver")
		}
	default:
		return fmt.Errorf("files.driver must be %q or %q, got %q", DriverS3, DriverMemory, cfg.Files.Driver)
	}

	if cfg.Auth.JWTSecret == "" && !cfg.App.IsDevelopment() {
		return fmt.Errorf("auth.jwt_secret is required outside development")
	}
	if cfg.Reconcile.Workers < 1 {
		return fmt.Errorf("reconcile.workers must be at least 1")
	}
	if cfg.Reconcile.MaxAttempts < 1 {
		return fmt.Errorf("reconcile.max_attempts must be at least 1")
	}
	if cfg.Apply.MaxCVBytes <= 0 {
		return fmt.Errorf("apply.max_cv_bytes must be positive")
	}
	return nil
}
