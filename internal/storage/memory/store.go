package memory

import (
	"context"
	"sync"

	"taskManager/internal/storage"
)

type Store struct {
	storage map[string]string
	mtx     *sync.RWMutex
	closed  bool
}

func New() *Store {
	return &Store{
		storage: make(map[string]string),
		mtx:     &sync.RWMutex{},
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.closed {
		return "", false, storage.ErrClosed
	}
	value, ok := s.storage[key]
	return value, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return storage.ErrClosed
	}
	s.storage[key] = value
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return storage.ErrClosed
	}
	delete(s.storage, key)
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.closed {
		return storage.ErrClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.closed = true
	return nil
}
