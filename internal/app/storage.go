package app

import (
	"context"
	"fmt"

	"taskManager/internal/config"
	"taskManager/internal/logger"
	"taskManager/internal/storage"
	"taskManager/internal/storage/file"
	"taskManager/internal/storage/memory"
	"taskManager/internal/storage/postgres"
	"taskManager/internal/storage/redis"
	"taskManager/internal/storage/sqlite"

	"go.uber.org/zap"
)

// OpenStore открывает хранилище по storage.type и оборачивает его задержкой storage.latency
func OpenStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	var (
		store storage.Store
		err   error
	)

	switch cfg.Type {
	case "memory":
		store = memory.New()
	case "file":
		store, err = file.NewOS(cfg.Path)
	case "sqlite":
		store, err = sqlite.New(cfg.SQLitePath)
	case "redis":
		store, err = redis.New(ctx, redis.Config{
			Addr:           cfg.RedisAddr,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			Prefix:         cfg.RedisPrefix,
			ConnectRetries: cfg.ConnectRetries,
		})
	case "postgres":
		store, err = openPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("неизвестный тип хранилища %q", cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("открытие хранилища %s: %w", cfg.Type, err)
	}

	logger.Info("Storage: Хранилище готово",
		zap.String("type", cfg.Type),
		zap.Duration("latency", cfg.Latency))
	return storage.WithLatency(store, cfg.Latency), nil
}

func openPostgres(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	pg, err := postgres.New(ctx, postgres.Config{
		URL:            cfg.URL,
		MaxConns:       cfg.MaxConnections,
		MinConns:       cfg.MinConnections,
		IdleTimeout:    cfg.IdleTimeout,
		ConnectRetries: cfg.ConnectRetries,
	})
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx); err != nil {
		_ = pg.Close()
		return nil, err
	}
	return pg, nil
}
