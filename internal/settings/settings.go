// Package settings хранит пользовательские настройки приложения.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"taskManager/internal/logger"
	"taskManager/internal/storage"

	"go.uber.org/zap"
)

const Key = "task-manager-settings"

var (
	ErrUnknownLanguage = errors.New("неподдерживаемый язык")
	ErrUnknownView     = errors.New("неизвестный вид списка")
)

var Languages = []string{"en", "es", "fr"}

var Views = []string{"all", "pending", "completed"}

type Settings struct {
	DarkMode             bool   `json:"darkMode"`
	Language             string `json:"language"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	DefaultView          string `json:"defaultView"`
}

func Defaults() Settings {
	return Settings{
		DarkMode:             false,
		Language:             "en",
		NotificationsEnabled: true,
		DefaultView:          "all",
	}
}

// Patch - частичное изменение, nil поля не меняются
type Patch struct {
	DarkMode             *bool   `json:"darkMode,omitempty"`
	Language             *string `json:"language,omitempty"`
	NotificationsEnabled *bool   `json:"notificationsEnabled,omitempty"`
	DefaultView          *string `json:"defaultView,omitempty"`
}

type Store struct {
	store storage.Store
	mtx   sync.Mutex
}

func New(store storage.Store) *Store {
	return &Store{store: store}
}

// Load возвращает сохранённые настройки поверх значений по умолчанию.
// Отсутствующие или повреждённые данные дают значения по умолчанию.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	raw, ok, err := s.store.Get(ctx, Key)
	if err != nil {
		return Settings{}, fmt.Errorf("чтение настроек: %w", err)
	}

	res := Defaults()
	if !ok || raw == "" {
		return res, nil
	}
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		logger.Warn("Settings: Настройки повреждены, используются значения по умолчанию", zap.Error(err))
		return Defaults(), nil
	}
	if !contains(Languages, res.Language) {
		res.Language = Defaults().Language
	}
	if !contains(Views, res.DefaultView) {
		res.DefaultView = Defaults().DefaultView
	}
	return res, nil
}

func (s *Store) Update(ctx context.Context, patch Patch) (Settings, error) {
	if patch.Language != nil && !contains(Languages, *patch.Language) {
		return Settings{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, *patch.Language)
	}
	if patch.DefaultView != nil && !contains(Views, *patch.DefaultView) {
		return Settings{}, fmt.Errorf("%w: %q", ErrUnknownView, *patch.DefaultView)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	current, err := s.Load(ctx)
	if err != nil {
		return Settings{}, err
	}

	if patch.DarkMode != nil {
		current.DarkMode = *patch.DarkMode
	}
	if patch.Language != nil {
		current.Language = *patch.Language
	}
	if patch.NotificationsEnabled != nil {
		current.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.DefaultView != nil {
		current.DefaultView = *patch.DefaultView
	}

	data, err := json.Marshal(current)
	if err != nil {
		return Settings{}, fmt.Errorf("сериализация настроек: %w", err)
	}
	if err := s.store.Set(ctx, Key, string(data)); err != nil {
		return Settings{}, fmt.Errorf("запись настроек: %w", err)
	}

	logger.Info("Settings: Настройки обновлены")
	return current, nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
