package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"stockroom/internal/commons"
	"stockroom/internal/config"
	"stockroom/internal/infrastructure/logger"
	"stockroom/internal/infrastructure/metrics"
	"stockroom/internal/infrastructure/mysql"
	"stockroom/internal/infrastructure/redis"
	"stockroom/internal/inventory"
	"stockroom/internal/pkg/clock"
	"stockroom/internal/product"
	"stockroom/internal/server"
	"stockroom/internal/snapshot"
	"stockroom/internal/stock"
)

const defaultConfigPath = "internal/config/config.yaml"

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Environment)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	snapshots, err := openSnapshotStore(startupCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("opening snapshot store", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer snapshots.Close()
	zapLogger.Info("snapshot store ready", zap.String("driver", cfg.Storage.Driver))

	store, err := inventory.Open(startupCtx, snapshots, inventory.Options{
		PersistHistory: cfg.Ledger.PersistHistory,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("loading inventory", zap.Error(err))
	}

	m := metrics.New(cfg.Metrics.Prefix)
	m.RegisterCatalog(cfg.Metrics.Prefix, store)

	productCtrl := product.NewModule(store, zapLogger)
	stockCtrl := stock.NewModule(store, clock.NewRealClock(), m, zapLogger)

	router := server.NewRouter(productCtrl, stockCtrl, m, cfg.Server.RequestTimeout, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server shutdown failed", zap.Error(err))
		return
	}

	zapLogger.Info("server stopped gracefully")
}

// loadConfig prefers the YAML file and falls back to environment variables
// when it does not exist.
func loadConfig() (*config.Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := commons.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Load()
	}
	if err != nil {
		return nil, err
	}

	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	return cfg, nil
}

func openSnapshotStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (snapshot.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMySQL:
		db, err := mysql.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		store := snapshot.NewMySQLStore(db, logger, cfg.Database.MaxRetryAttempts)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return store, nil

	case config.DriverRedis:
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return snapshot.NewRedisStore(client, cfg.Redis.Prefix), nil

	default:
		logger.Warn("using in-memory snapshot store, changes are lost on restart")
		return snapshot.NewMemoryStore(), nil
	}
}
