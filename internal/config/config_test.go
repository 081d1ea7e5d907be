package config_test

import (
	"testing"
	"time"

	"inventory/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, "inventory", cfg.ServiceName)
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.MetricsEnabled)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "inventory.db", cfg.DB.DSN)
	assert.Equal(t, time.Hour, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "host=127.0.0.1 user=postgres dbname=inventory sslmode=disable")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	v := newViper()
	v.AutomaticEnv()

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "dbname=inventory")
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"unknown driver", "DB_DRIVER", "mysql", "DB_DRIVER"},
		{"empty dsn", "DATABASE_DSN", "", "DATABASE_DSN"},
		{"empty port", "APP_PORT", "", "APP_PORT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.val)
			_, err := config.Load(v)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLogFields_OmitsDSN(t *testing.T) {
	v := newViper()
	v.Set("DATABASE_DSN", "postgres://user:secret@db/inventory")
	cfg, err := config.Load(v)
	require.NoError(t, err)

	for _, f := range cfg.LogFields() {
		assert.NotContains(t, f.String, "secret")
	}
}
