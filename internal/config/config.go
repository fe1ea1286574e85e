package config

import (
	"fmt"
	"time"
)

// Config is the process configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Reconcile ReconcileConfig `mapstructure:"reconcile"`
	Files     FilesConfig     `mapstructure:"files"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Apply     ApplyConfig     `mapstructure:"apply"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

func (a AppConfig) IsDevelopment() bool {
	return a.Environment == "" || a.Environment == "development"
}

type HTTPConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverS3       = "s3"
	DriverRedis    = "redis"
)

type StorageConfig struct {
	// Driver selects the record store: "postgres" or "memory"
	Driver string `mapstructure:"driver"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ReconcileConfig struct {
	// Queue selects "redis" or "memory"; empty follows storage.driver
	Queue       string        `mapstructure:"queue"`
	QueueName   string        `mapstructure:"queue_name"`
	Workers     int           `mapstructure:"workers"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

type FilesConfig struct {
	Driver  string        `mapstructure:"driver"`
	Region  string        `mapstructure:"region"`
	Bucket  string        `mapstructure:"bucket"`
	Prefix  string        `mapstructure:"prefix"`
	URLTTL  time.Duration `mapstructure:"url_ttl"`
	BaseURL string        `mapstructure:"base_url"`
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	Issuer         string        `mapstructure:"issuer"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ApplyConfig struct {
	MaxCVBytes int64 `mapstructure:"max_cv_bytes"`
}
