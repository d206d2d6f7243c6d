// Package auth - простое хранилище учётных записей поверх key/value хранилища.
// Сессия одна на процесс: текущий пользователь и его токен лежат под своими ключами.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/session"
	"taskManager/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	UsersKey       = "task-manager-users"
	CurrentUserKey = "task-manager-current-user"
	TokenKey       = "task-manager-auth-token"
)

const (
	DemoUserID    = "1"
	DemoName      = "Demo User"
	DemoEmail     = "demo@example.com"
	DemoPassword  = "password123"
	minPassword   = 6
	maxPassword   = 72
	DefaultTTL    = 24 * time.Hour
	DefaultSecret = "task-manager-dev-secret"
)

var (
	ErrInvalidCredentials = errors.New("неверный email или пароль")
	ErrEmailTaken         = errors.New("email уже зарегистрирован")
	ErrUserNotFound       = errors.New("пользователь не найден")
	ErrInvalidEmail       = errors.New("неверный формат email")
	ErrWeakPassword       = errors.New("пароль должен быть не короче 6 символов")
	ErrPasswordTooLong    = errors.New("пароль должен быть не длиннее 72 байт")
	ErrEmptyName          = errors.New("имя не может быть пустым")
	ErrInvalidToken       = errors.New("недействительный токен")
	ErrExpiredToken       = errors.New("срок действия токена истёк")
)

// User - публичная часть учётной записи
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type account struct {
	User
	PasswordHash string `json:"passwordHash"`
}

type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type ProfilePatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type Config struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int

	// DemoMode включает автоматический вход демо-пользователя при старте
	DemoMode bool
}

type Service struct {
	store  storage.Store
	tokens *TokenManager
	cost   int
	demo   bool
	newID  func() string

	mtx sync.Mutex
}

var _ session.Context = (*Service)(nil)

func New(store storage.Store, cfg Config) *Service {
	if cfg.Secret == "" {
		cfg.Secret = DefaultSecret
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	return &Service{
		store:  store,
		tokens: NewTokenManager(cfg.Secret, cfg.TokenTTL),
		cost:   cfg.BcryptCost,
		demo:   cfg.DemoMode,
		newID:  uuid.NewString,
	}
}

// EnsureDemo создаёт демо-пользователя, если его нет, и входит под ним.
// Без демо-режима ничего не делает.
func (s *Service) EnsureDemo(ctx context.Context) (User, error) {
	if !s.demo {
		return User{}, nil
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return User{}, err
	}

	idx := findByEmail(accounts, DemoEmail)
	if idx < 0 {
		hash, err := s.hash(DemoPassword)
		if err != nil {
			return User{}, err
		}
		accounts = append(accounts, account{
			User:         User{ID: DemoUserID, Name: DemoName, Email: DemoEmail},
			PasswordHash: hash,
		})
		if err := s.saveAccounts(ctx, accounts); err != nil {
			return User{}, err
		}
		idx = len(accounts) - 1
		logger.Info("Auth: Создан демо-пользователь", zap.String("user_id", DemoUserID))
	}

	sess, err := s.startSession(ctx, accounts[idx].User)
	if err != nil {
		return User{}, err
	}
	logger.Info("Auth: Демо-режим, выполнен автоматический вход", zap.String("user_id", sess.User.ID))
	return sess.User, nil
}

func (s *Service) Register(ctx context.Context, name, email, password string) (Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return Session{}, ErrEmptyName
	}
	if err := validateEmail(email); err != nil {
		return Session{}, err
	}
	if len(password) < minPassword {
		return Session{}, ErrWeakPassword
	}
	if len(password) > maxPassword {
		return Session{}, ErrPasswordTooLong
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return Session{}, err
	}
	if findByEmail(accounts, email) >= 0 {
		return Session{}, ErrEmailTaken
	}

	hash, err := s.hash(password)
	if err != nil {
		return Session{}, err
	}

	acc := account{
		User:         User{ID: s.newID(), Name: name, Email: email},
		PasswordHash: hash,
	}
	if err := s.saveAccounts(ctx, append(accounts, acc)); err != nil {
		return Session{}, err
	}

	logger.Info("Auth: Зарегистрирован пользователь", zap.String("user_id", acc.ID))
	return s.startSession(ctx, acc.User)
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return Session{}, err
	}

	idx := findByEmail(accounts, normalizeEmail(email))
	if idx < 0 {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(accounts[idx].PasswordHash), []byte(password)); err != nil {
		logger.Warn("Auth: Неудачная попытка входа", zap.String("user_id", accounts[idx].ID))
		return Session{}, ErrInvalidCredentials
	}

	logger.Info("Auth: Вход выполнен", zap.String("user_id", accounts[idx].ID))
	return s.startSession(ctx, accounts[idx].User)
}

func (s *Service) Logout(ctx context.Context) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if err := s.store.Delete(ctx, CurrentUserKey); err != nil {
		return fmt.Errorf("удаление текущего пользователя: %w", err)
	}
	if err := s.store.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("удаление токена: %w", err)
	}

	logger.Info("Auth: Выход выполнен")
	return nil
}

// IsLoggedIn - есть ли сохранённый токен
func (s *Service) IsLoggedIn(ctx context.Context) bool {
	token, ok, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		logger.Error("Auth: Не удалось прочитать токен", err)
		return false
	}
	return ok && token != ""
}

func (s *Service) CurrentUser(ctx context.Context) (User, bool, error) {
	raw, ok, err := s.store.Get(ctx, CurrentUserKey)
	if err != nil {
		return User{}, false, fmt.Errorf("чтение текущего пользователя: %w", err)
	}
	if !ok || raw == "" {
		return User{}, false, nil
	}

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		logger.Warn("Auth: Запись текущего пользователя повреждена", zap.Error(err))
		return User{}, false, nil
	}
	return u, true, nil
}

// CurrentUserID: сначала пользователь запроса, затем сохранённый текущий пользователь
func (s *Service) CurrentUserID(ctx context.Context) (string, bool) {
	if userID, ok := session.UserIDFromContext(ctx); ok {
		return userID, true
	}

	u, ok, err := s.CurrentUser(ctx)
	if err != nil {
		logger.Error("Auth: Не удалось определить текущего пользователя", err)
		return "", false
	}
	return u.ID, ok
}

func (s *Service) User(ctx context.Context, userID string) (User, error) {
	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return User{}, err
	}
	idx := findByID(accounts, userID)
	if idx < 0 {
		return User{}, ErrUserNotFound
	}
	return accounts[idx].User, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (User, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return User{}, ErrEmptyName
		}
		patch.Name = &name
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if err := validateEmail(email); err != nil {
			return User{}, err
		}
		patch.Email = &email
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return User{}, err
	}

	idx := findByID(accounts, userID)
	if idx < 0 {
		return User{}, ErrUserNotFound
	}
	if patch.Email != nil {
		if other := findByEmail(accounts, *patch.Email); other >= 0 && other != idx {
			return User{}, ErrEmailTaken
		}
		accounts[idx].Email = *patch.Email
	}
	if patch.Name != nil {
		accounts[idx].Name = *patch.Name
	}

	if err := s.saveAccounts(ctx, accounts); err != nil {
		return User{}, err
	}

	current, ok, err := s.CurrentUser(ctx)
	if err != nil {
		return User{}, err
	}
	if ok && current.ID == userID {
		if err := s.setJSON(ctx, CurrentUserKey, accounts[idx].User); err != nil {
			return User{}, err
		}
	}

	logger.Info("Auth: Профиль обновлён", zap.String("user_id", userID))
	return accounts[idx].User, nil
}

// ValidateToken проверяет подпись и срок токена и что пользователь ещё существует
func (s *Service) ValidateToken(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return "", err
	}

	if _, err := s.User(ctx, claims.UserID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	return claims.UserID, nil
}

func (s *Service) startSession(ctx context.Context, u User) (Session, error) {
	token, err := s.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return Session{}, fmt.Errorf("выпуск токена: %w", err)
	}

	if err := s.setJSON(ctx, CurrentUserKey, u); err != nil {
		return Session{}, err
	}
	if err := s.store.Set(ctx, TokenKey, token); err != nil {
		return Session{}, fmt.Errorf("сохранение токена: %w", err)
	}
	return Session{User: u, Token: token}, nil
}

func (s *Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("хеширование пароля: %w", err)
	}
	return string(hash), nil
}

func (s *Service) loadAccounts(ctx context.Context) ([]account, error) {
	raw, ok, err := s.store.Get(ctx, UsersKey)
	if err != nil {
		return nil, fmt.Errorf("чтение пользователей: %w", err)
	}
	if !ok || raw == "" {
		return []account{}, nil
	}

	var accounts []account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		logger.Warn("Auth: Список пользователей повреждён, сброс", zap.Error(err))
		return []account{}, nil
	}
	return accounts, nil
}

func (s *Service) saveAccounts(ctx context.Context, accounts []account) error {
	return s.setJSON(ctx, UsersKey, accounts)
}

func (s *Service) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("сериализация %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("запись %s: %w", key, err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

func findByEmail(accounts []account, email string) int {
	for i, a := range accounts {
		if a.Email == email {
			return i
		}
	}
	return -1
}

func findByID(accounts []account, id string) int {
	for i, a := range accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}
