// Package config loads the service configuration from the environment and an optional file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendGORM   = "gorm"
	BackendMemory = "memory"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds every setting the server needs.
type Config struct {
	AppPort          string
	StoreBackend     string
	DBDriver         string
	DatabaseDSN      string
	DBLogLevel       string
	JWTIssuer        string
	JWTTTL           time.Duration
	JWTPrivateKey    string
	JWTPublicKey     string
	JWTGenerateKeys  bool
	SeedDemoData     bool
	CORSAllowOrigins string
	LogLevel         string
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("STORE_BACKEND", BackendGORM)
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "file:friendgift.db?_foreign_keys=1")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("JWT_ISSUER", "friendgift-app")
	v.SetDefault("JWT_TTL", "8h")
	v.SetDefault("JWT_PRIVATE_KEY_PATH", "keys/privateKey.pem")
	v.SetDefault("JWT_PUBLIC_KEY_PATH", "keys/publicKey.pem")
	v.SetDefault("JWT_GENERATE_KEYS", true)
	v.SetDefault("SEED_DEMO_DATA", true)
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads the configuration from the environment. When CONFIG_FILE is set
// the file is read first and environment variables override it.
func Load() (Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return FromViper(v)
}

// FromViper builds and validates a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppPort:          v.GetString("APP_PORT"),
		StoreBackend:     strings.ToLower(v.GetString("STORE_BACKEND")),
		DBDriver:         strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		DBLogLevel:       strings.ToLower(v.GetString("DB_LOG_LEVEL")),
		JWTIssuer:        v.GetString("JWT_ISSUER"),
		JWTPrivateKey:    v.GetString("JWT_PRIVATE_KEY_PATH"),
		JWTPublicKey:     v.GetString("JWT_PUBLIC_KEY_PATH"),
		JWTGenerateKeys:  v.GetBool("JWT_GENERATE_KEYS"),
		SeedDemoData:     v.GetBool("SEED_DEMO_DATA"),
		CORSAllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		LogLevel:         strings.ToLower(v.GetString("LOG_LEVEL")),
	}

	ttl, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if ttl <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL must be positive, got %s", ttl)
	}
	cfg.JWTTTL = ttl

	switch cfg.StoreBackend {
	case BackendGORM, BackendMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if cfg.StoreBackend == BackendGORM {
		switch cfg.DBDriver {
		case DriverSQLite, DriverPostgres:
		default:
			return Config{}, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
		}
		if cfg.DatabaseDSN == "" {
			return Config{}, fmt.Errorf("DATABASE_DSN is required for the %s backend", BackendGORM)
		}
	}

	if cfg.JWTPrivateKey == "" || cfg.JWTPublicKey == "" {
		return Config{}, fmt.Errorf("JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH are required")
	}

	return cfg, nil
}
