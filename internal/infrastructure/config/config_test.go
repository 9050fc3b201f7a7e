package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FRONTEND_URL", "")

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "taskboard", cfg.Database.Name)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Security.AllowedOrigins())
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "4100")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("FRONTEND_URL", "http://a.test, http://b.test")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENABLE_METRICS", "false")

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 4100, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins())
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		_, err := LoadFrom(viper.New())
		assert.ErrorContains(t, err, "unknown database driver")
	})

	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "")
		t.Setenv("PORT", "70000")
		_, err := LoadFrom(viper.New())
		assert.ErrorContains(t, err, "server port")
	})
}

func TestDatabaseURLTakesPrecedence(t *testing.T) {
	cfg := DatabaseConfig{
		URL:  "postgres://u:p@db:5432/tasks?sslmode=require",
		Host: "ignored",
	}
	assert.Equal(t, cfg.URL, cfg.GetDSN())
}

func TestDatabaseDiscreteFields(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		Name:     "taskboard",
		User:     "postgres",
		Password: "secret",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=taskboard sslmode=disable", cfg.GetDSN())
}

func TestServerAddress(t *testing.T) {
	cfg := ServerConfig{Host: "0.0.0.0", Port: 3000}
	assert.Equal(t, "0.0.0.0:3000", cfg.Address())
}
