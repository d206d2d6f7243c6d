// Package redis - реализация storage.Store поверх Redis. Все ключи хранятся с префиксом,
// чтобы несколько экземпляров приложения могли делить один сервер.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskManager/internal/logger"

	"github.com/cenkalti/backoff/v4"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Config struct {
	Addr           string
	Password       string
	DB             int
	Prefix         string
	ConnectRetries uint64
}

func DefaultConfig() Config {
	return Config{
		Addr:   "localhost:6379",
		Prefix: "task-manager:",
	}
}

type Store struct {
	client *goredis.Client
	prefix string
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	retries := cfg.ConnectRetries
	if retries == 0 {
		retries = 3
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries), ctx)
	err := backoff.RetryNotify(func() error {
		return client.Ping(ctx).Err()
	}, policy, func(err error, wait time.Duration) {
		logger.Warn("Storage: Redis недоступен, повтор", zap.Error(err), zap.Duration("wait", wait))
	})
	if err != nil {
		_ = client.Close()
		logger.Error("Storage: Не удалось подключиться к Redis", err, zap.String("addr", cfg.Addr))
		return nil, fmt.Errorf("подключение к redis: %w", err)
	}

	logger.Info("Storage: Подключение к Redis установлено", zap.String("addr", cfg.Addr))
	return NewWithClient(client, cfg.Prefix), nil
}

func NewWithClient(client *goredis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("чтение ключа %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("запись ключа %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("удаление ключа %s: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("проверка соединения redis: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	logger.Info("Storage: Закрытие соединения с Redis")
	return s.client.Close()
}
