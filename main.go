package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"friendgift/internal/config"
	"friendgift/internal/database"
	"friendgift/internal/keys"
	"friendgift/internal/repositories"
	"friendgift/internal/server"
	"friendgift/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	app, cleanup, err := NewApp(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialise application", zap.Error(err))
	}
	defer cleanup()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.AppPort), zap.String("store", cfg.StoreBackend))
		if err := app.Listen(cfg.AppPort); err != nil {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zcfg.Build()
}

// NewApp is the composition root: keys, store, services and HTTP routes.
// The returned cleanup releases the database connection.
func NewApp(cfg config.Config, logger *zap.Logger) (*fiber.App, func(), error) {
	if cfg.JWTGenerateKeys {
		generated, err := keys.EnsureKeyPair(cfg.JWTPrivateKey, cfg.JWTPublicKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to provision signing keys: %w", err)
		}
		if generated {
			logger.Info("generated signing key pair",
				zap.String("private", cfg.JWTPrivateKey),
				zap.String("public", cfg.JWTPublicKey))
		}
	}
	privateKey, err := keys.LoadPrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		return nil, nil, err
	}
	publicKey, err := keys.LoadPublicKey(cfg.JWTPublicKey)
	if err != nil {
		return nil, nil, err
	}
	tokens := services.NewTokenService(privateKey, publicKey, cfg.JWTIssuer, cfg.JWTTTL)

	var (
		userRepo    repositories.UserRepository
		friendRepo  repositories.FriendRepository
		healthCheck func() error
		cleanup     = func() {}
	)
	switch cfg.StoreBackend {
	case config.BackendMemory:
		users := repositories.NewMockUserRepository()
		userRepo = users
		friendRepo = repositories.NewMockFriendRepository(users)
	default:
		var db *gorm.DB
		db, err = database.Open(cfg.DBDriver, cfg.DatabaseDSN, cfg.DBLogLevel)
		if err != nil {
			return nil, nil, err
		}
		userRepo = repositories.NewGORMUserRepository(db)
		friendRepo = repositories.NewGORMFriendRepository(db)
		healthCheck = func() error { return database.Ping(db) }
		cleanup = func() {
			if err := database.Close(db); err != nil {
				logger.Error("failed to close database", zap.Error(err))
			}
		}
	}

	if cfg.SeedDemoData {
		if _, err := services.SeedDemoData(userRepo, friendRepo, time.Now(), logger); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	app := server.New(server.Deps{
		Auth:             services.NewAuthService(userRepo, tokens, logger),
		Friends:          services.NewFriendService(friendRepo, logger),
		Tokens:           tokens,
		Logger:           logger,
		HealthCheck:      healthCheck,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		AccessLog:        true,
	})
	return app, cleanup, nil
}
