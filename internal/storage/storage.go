package storage

import (
	"context"
	"errors"
	"time"
)

var ErrClosed = errors.New("хранилище закрыто")

// Store - долговременное key/value хранилище. Значения - сырой текст,
// формат данных определяют владельцы ключей.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Delayed эмулирует задержку сетевого запроса перед каждой операцией
type Delayed struct {
	Store
	latency time.Duration
}

func WithLatency(store Store, latency time.Duration) Store {
	if latency <= 0 {
		return store
	}
	return &Delayed{Store: store, latency: latency}
}

func (d *Delayed) wait(ctx context.Context) error {
	timer := time.NewTimer(d.latency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Delayed) Get(ctx context.Context, key string) (string, bool, error) {
	if err := d.wait(ctx); err != nil {
		return "", false, err
	}
	return d.Store.Get(ctx, key)
}

func (d *Delayed) Set(ctx context.Context, key, value string) error {
	if err := d.wait(ctx); err != nil {
		return err
	}
	return d.Store.Set(ctx, key, value)
}

func (d *Delayed) Delete(ctx context.Context, key string) error {
	if err := d.wait(ctx); err != nil {
		return err
	}
	return d.Store.Delete(ctx, key)
}
