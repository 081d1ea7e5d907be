package config

import (
	"errors"
	"fmt"
	"time"

	"inventory/pkg/database"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all service configuration.
type Config struct {
	ServiceName     string
	AppPort         string
	AppEnv          string
	LogLevel        string
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
	RabbitMQURL     string
	DB              database.Config
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "inventory")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("DB_DRIVER", database.DriverSQLite)
	v.SetDefault("DATABASE_DSN", "inventory.db")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")
}

// NewViper returns a viper instance reading defaults, an optional config file and the environment.
// Variables from a .env file in the working directory are loaded first when present.
func NewViper() (*viper.Viper, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// Load reads and validates the configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ServiceName:     v.GetString("SERVICE_NAME"),
		AppPort:         v.GetString("APP_PORT"),
		AppEnv:          v.GetString("APP_ENV"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		MetricsEnabled:  v.GetBool("METRICS_ENABLED"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		DB: database.Config{
			Driver:          v.GetString("DB_DRIVER"),
			DSN:             v.GetString("DATABASE_DSN"),
			LogLevel:        v.GetString("DB_LOG_LEVEL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
	}

	if cfg.AppPort == "" {
		return nil, fmt.Errorf("APP_PORT must not be empty")
	}
	switch cfg.DB.Driver {
	case database.DriverSQLite, database.DriverPostgres:
	default:
		return nil, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", database.DriverSQLite, database.DriverPostgres, cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN must not be empty")
	}
	return cfg, nil
}

// LogFields describes the configuration without secrets.
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.AppEnv),
		zap.String("port", c.AppPort),
		zap.String("db_driver", c.DB.Driver),
		zap.Bool("metrics_enabled", c.MetricsEnabled),
		zap.Bool("events_enabled", c.RabbitMQURL != ""),
	}
}
