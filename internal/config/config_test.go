package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.Storage.Driver)
	assert.Equal(t, "calendar_app", cfg.Mongo.Database)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 5*time.Second, cfg.Context.RequestTimeout)
	assert.Equal(t, "dev-secret-key", cfg.JWT.Secret)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)
	assert.False(t, cfg.Schedule.ConflictFailClosed)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, "postgres://planner:@localhost:5432/planner?sslmode=disable", cfg.Database.URL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_DRIVER", "bolt")
	t.Setenv("BOLT_PATH", "/tmp/x.db")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("SCHEDULE_CONFLICT_FAIL_CLOSED", "true")
	t.Setenv("DB_URL", "postgres://u:p@db:5432/x")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverBolt, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.Bolt.Path)
	assert.Equal(t, "0.0.0.0:9000", cfg.Address())
	assert.Equal(t, 2*time.Second, cfg.Context.RequestTimeout)
	assert.True(t, cfg.Schedule.ConflictFailClosed)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.Database.URL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "sqlite", "APP_ENV": "development"}},
		{"missing secret in production", map[string]string{"APP_ENV": "production", "JWT_SECRET": ""}},
		{"bad duration", map[string]string{"JWT_TTL": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
