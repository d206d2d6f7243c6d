package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"sync"

	"taskManager/internal/logger"
	"taskManager/internal/storage"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Store хранит каждый ключ в отдельном файле внутри каталога dir
type Store struct {
	fs     afero.Fs
	dir    string
	mtx    sync.Mutex
	closed bool
}

func New(fs afero.Fs, dir string) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		logger.Error("Storage: Не удалось создать каталог данных", err, zap.String("dir", dir))
		return nil, fmt.Errorf("создание каталога %s: %w", dir, err)
	}
	return &Store{fs: fs, dir: dir}, nil
}

// NewOS - хранилище на реальной файловой системе
func NewOS(dir string) (*Store, error) {
	return New(afero.NewOsFs(), dir)
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key))
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return "", false, storage.ErrClosed
	}

	data, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("чтение ключа %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set пишет во временный файл и переименовывает его, чтобы читатель
// никогда не увидел наполовину записанное значение
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return storage.ErrClosed
	}

	target := s.path(key)
	tmp := target + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("запись ключа %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp, target); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("переименование файла ключа %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return storage.ErrClosed
	}

	err := s.fs.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("удаление ключа %s: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return storage.ErrClosed
	}
	if _, err := s.fs.Stat(s.dir); err != nil {
		return fmt.Errorf("проверка каталога данных: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.closed = true
	return nil
}
