package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"friendgift/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, config.BackendGORM, cfg.StoreBackend)
	assert.Equal(t, config.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "friendgift-app", cfg.JWTIssuer)
	assert.Equal(t, 8*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.JWTGenerateKeys)
	assert.True(t, cfg.SeedDemoData)
}

func TestFromViper_Overrides(t *testing.T) {
	v := newViper()
	v.Set("STORE_BACKEND", "MEMORY")
	v.Set("JWT_TTL", "30m")
	v.Set("SEED_DEMO_DATA", false)

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, cfg.StoreBackend)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.False(t, cfg.SeedDemoData)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown backend", "STORE_BACKEND", "redis"},
		{"unknown driver", "DB_DRIVER", "mysql"},
		{"bad ttl", "JWT_TTL", "forever"},
		{"negative ttl", "JWT_TTL", "-1h"},
		{"missing dsn", "DATABASE_DSN", ""},
		{"missing key path", "JWT_PRIVATE_KEY_PATH", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)
			_, err := config.FromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestLoad_ConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "friendgift.yaml")
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT: \":9090\"\nLOG_LEVEL: debug\n"), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, "warn", cfg.LogLevel)
}
