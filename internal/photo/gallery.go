// Package photo - галерея снимков. Файлы лежат в каталоге, список ссылок на них
// хранится под ключом photos, новые снимки первыми. С задачами не связана.
package photo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/storage"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const Key = "photos"

var (
	ErrNotFound  = errors.New("снимок не найден")
	ErrEmptyData = errors.New("пустой снимок")
)

type Photo struct {
	Filepath    string `json:"filepath"`
	WebviewPath string `json:"webviewPath"`
}

type Gallery struct {
	store storage.Store
	fs    afero.Fs
	dir   string

	// префикс адреса, по которому снимок отдаётся клиенту
	webPrefix string
	now       func() time.Time

	mtx sync.Mutex
}

func New(store storage.Store, fs afero.Fs, dir, webPrefix string) (*Gallery, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("создание каталога снимков %s: %w", dir, err)
	}
	return &Gallery{
		store:     store,
		fs:        fs,
		dir:       dir,
		webPrefix: strings.TrimSuffix(webPrefix, "/"),
		now:       time.Now,
	}, nil
}

// Add сохраняет снимок в файл <unix millis>.jpeg и добавляет его в начало списка
func (g *Gallery) Add(ctx context.Context, data []byte) (Photo, error) {
	if len(data) == 0 {
		return Photo{}, ErrEmptyData
	}

	g.mtx.Lock()
	defer g.mtx.Unlock()

	photos, err := g.load(ctx)
	if err != nil {
		return Photo{}, err
	}

	millis := g.now().UnixMilli()
	name := strconv.FormatInt(millis, 10) + ".jpeg"
	for exists(photos, name) {
		millis++
		name = strconv.FormatInt(millis, 10) + ".jpeg"
	}

	if err := afero.WriteFile(g.fs, path.Join(g.dir, name), data, 0o644); err != nil {
		return Photo{}, fmt.Errorf("запись снимка %s: %w", name, err)
	}

	p := Photo{Filepath: name, WebviewPath: g.webPrefix + "/" + name}
	if err := g.save(ctx, append([]Photo{p}, photos...)); err != nil {
		_ = g.fs.Remove(path.Join(g.dir, name))
		return Photo{}, err
	}

	logger.Info("Photo: Снимок сохранён", zap.String("file", name), zap.Int("bytes", len(data)))
	return p, nil
}

func (g *Gallery) List(ctx context.Context) ([]Photo, error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return g.load(ctx)
}

// Read возвращает содержимое снимка из списка
func (g *Gallery) Read(ctx context.Context, name string) ([]byte, error) {
	photos, err := g.List(ctx)
	if err != nil {
		return nil, err
	}
	if !exists(photos, name) {
		return nil, ErrNotFound
	}

	data, err := afero.ReadFile(g.fs, path.Join(g.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("чтение снимка %s: %w", name, err)
	}
	return data, nil
}

func (g *Gallery) Delete(ctx context.Context, name string) error {
	g.mtx.Lock()
	defer g.mtx.Unlock()

	photos, err := g.load(ctx)
	if err != nil {
		return err
	}

	rest := make([]Photo, 0, len(photos))
	for _, p := range photos {
		if p.Filepath != name {
			rest = append(rest, p)
		}
	}
	if len(rest) == len(photos) {
		return ErrNotFound
	}

	if err := g.save(ctx, rest); err != nil {
		return err
	}
	if err := g.fs.Remove(path.Join(g.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Photo: Не удалось удалить файл снимка", zap.String("file", name), zap.Error(err))
	}

	logger.Info("Photo: Снимок удалён", zap.String("file", name))
	return nil
}

func (g *Gallery) load(ctx context.Context) ([]Photo, error) {
	raw, ok, err := g.store.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("чтение списка снимков: %w", err)
	}
	if !ok || raw == "" {
		return []Photo{}, nil
	}

	var photos []Photo
	if err := json.Unmarshal([]byte(raw), &photos); err != nil {
		logger.Warn("Photo: Список снимков повреждён, сброс", zap.Error(err))
		return []Photo{}, nil
	}
	if photos == nil {
		photos = []Photo{}
	}
	return photos, nil
}

func (g *Gallery) save(ctx context.Context, photos []Photo) error {
	data, err := json.Marshal(photos)
	if err != nil {
		return fmt.Errorf("сериализация списка снимков: %w", err)
	}
	if err := g.store.Set(ctx, Key, string(data)); err != nil {
		return fmt.Errorf("запись списка снимков: %w", err)
	}
	return nil
}

func exists(photos []Photo, name string) bool {
	for _, p := range photos {
		if p.Filepath == name {
			return true
		}
	}
	return false
}
