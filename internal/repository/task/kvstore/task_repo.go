// Package kvstore хранит всю коллекцию задач одним JSON-массивом под одним ключом
// key/value хранилища. Каждая мутация перечитывает и целиком перезаписывает коллекцию.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"
	"taskManager/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultKey = "tasks-data"

type TaskStorage struct {
	store storage.Store
	key   string
	now   func() time.Time
	newID func() string

	// в пределах одного экземпляра мутации идут строго по очереди;
	// между процессами по-прежнему побеждает последний писатель
	mtx   sync.RWMutex
	loads singleflight.Group
}

type Option func(*TaskStorage)

func WithClock(now func() time.Time) Option {
	return func(s *TaskStorage) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *TaskStorage) {
		s.newID = newID
	}
}

func WithStorageKey(key string) Option {
	return func(s *TaskStorage) {
		if key != "" {
			s.key = key
		}
	}
}

func NewTaskStorage(store storage.Store, options ...Option) *TaskStorage {
	s := &TaskStorage{
		store: store,
		key:   DefaultKey,
		now:   time.Now,
		newID: func() string { return "task-" + uuid.NewString() },
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		logger.Error("Repository: Хранилище недоступно", err)
		return fmt.Errorf("проверка хранилища: %w", err)
	}
	return nil
}

// List возвращает задачи пользователя, суженные фильтром. Пустой userID - пустой список.
func (s *TaskStorage) List(ctx context.Context, userID string, filter task.Filter) ([]task.Task, error) {
	if userID == "" {
		return []task.Task{}, nil
	}

	tasks, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	res := []task.Task{}
	for _, t := range tasks {
		if t.UserID != userID || !filter.Match(t) {
			continue
		}
		res = append(res, t)
	}

	logger.Debug("Repository: Выборка задач",
		zap.String("user_id", userID),
		zap.Int("total", len(tasks)),
		zap.Int("matched", len(res)))
	return res, nil
}

// Get ищет задачу по id среди задач всех пользователей. Отсутствие - не ошибка.
func (s *TaskStorage) Get(ctx context.Context, id string) (task.Task, bool, error) {
	tasks, err := s.snapshot(ctx)
	if err != nil {
		return task.Task{}, false, err
	}

	if idx := indexOf(tasks, id); idx >= 0 {
		return tasks[idx], true, nil
	}
	return task.Task{}, false, nil
}

func (s *TaskStorage) Create(ctx context.Context, data task.NewTask) (task.Task, error) {
	if data.UserID == "" {
		return task.Task{}, repo.ErrEmptyOwner
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	tasks, err := s.load(ctx)
	if err != nil {
		return task.Task{}, err
	}

	now := s.stamp()
	created := task.Task{
		ID:          s.uniqueID(tasks),
		Title:       data.Title,
		Description: data.Description,
		Completed:   data.Completed,
		DueDate:     data.DueDate,
		Priority:    data.Priority,
		Category:    data.Category,
		UserID:      data.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.save(ctx, append(tasks, created)); err != nil {
		return task.Task{}, err
	}

	logger.Info("Repository: Задача создана", zap.String("task_id", created.ID), zap.String("user_id", created.UserID))
	return created, nil
}

// Update накладывает патч на задачу. id, userId и createdAt не меняются никогда,
// updatedAt не уменьшается даже если часы ушли назад.
func (s *TaskStorage) Update(ctx context.Context, id string, patch task.Patch) (task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	tasks, err := s.load(ctx)
	if err != nil {
		return task.Task{}, err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		return task.Task{}, repo.ErrNotFound
	}

	prev := tasks[idx]
	updated := patch.Apply(prev)
	updated.UpdatedAt = s.stamp()
	if updated.UpdatedAt.Before(prev.UpdatedAt) {
		updated.UpdatedAt = prev.UpdatedAt
	}
	tasks[idx] = updated

	if err := s.save(ctx, tasks); err != nil {
		return task.Task{}, err
	}

	logger.Info("Repository: Задача обновлена", zap.String("task_id", id))
	return updated, nil
}

// Delete - жёсткое удаление. Повторный вызов вернёт ErrNotFound.
func (s *TaskStorage) Delete(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	tasks, err := s.load(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		return repo.ErrNotFound
	}

	rest := make([]task.Task, 0, len(tasks)-1)
	rest = append(rest, tasks[:idx]...)
	rest = append(rest, tasks[idx+1:]...)

	if err := s.save(ctx, rest); err != nil {
		return err
	}

	logger.Info("Repository: Задача удалена", zap.String("task_id", id))
	return nil
}

// Seed записывает начальные задачи, только если коллекция пуста.
// Возвращает количество записанных задач.
func (s *TaskStorage) Seed(ctx context.Context, seed []task.Task) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	tasks, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	if len(tasks) > 0 || len(seed) == 0 {
		logger.Info("Repository: Коллекция уже заполнена, начальные данные пропущены", zap.Int("existing", len(tasks)))
		return 0, nil
	}

	now := s.stamp()
	prepared := make([]task.Task, 0, len(seed))
	for _, t := range seed {
		if t.UserID == "" {
			return 0, repo.ErrEmptyOwner
		}
		if t.ID == "" || indexOf(prepared, t.ID) >= 0 {
			t.ID = s.uniqueID(prepared)
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if t.UpdatedAt.Before(t.CreatedAt) {
			t.UpdatedAt = t.CreatedAt
		}
		prepared = append(prepared, t)
	}

	if err := s.save(ctx, prepared); err != nil {
		return 0, err
	}

	logger.Info("Repository: Записаны начальные задачи", zap.Int("count", len(prepared)))
	return len(prepared), nil
}

// snapshot - чтение для List и Get. Параллельные читатели делят одну загрузку,
// поэтому результат нельзя изменять. Загрузка держит RLock сама и не наследует
// отмену запустившего её читателя; каждый читатель ждёт только по своему ctx.
func (s *TaskStorage) snapshot(ctx context.Context) ([]task.Task, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.loads.DoChan(s.key, func() (any, error) {
		s.mtx.RLock()
		defer s.mtx.RUnlock()
		return s.load(shared)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("чтение коллекции задач: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]task.Task), nil
	}
}

// load читает коллекцию. Повреждённые данные не пробрасываются вызывающему:
// коллекция сбрасывается в пустую, а факт пишется в лог.
func (s *TaskStorage) load(ctx context.Context) ([]task.Task, error) {
	start := time.Now()

	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		logger.Error("Repository: Не удалось прочитать коллекцию задач", err, zap.String("key", s.key))
		return nil, fmt.Errorf("чтение коллекции задач: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []task.Task{}, nil
	}

	var tasks []task.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		logger.Warn("Repository: Коллекция задач повреждена, сброс в пустое состояние",
			zap.String("key", s.key),
			zap.Int("bytes", len(raw)),
			zap.Error(err))

		if err := s.store.Set(ctx, s.key, "[]"); err != nil {
			logger.Error("Repository: Не удалось сбросить коллекцию задач", err)
			return nil, fmt.Errorf("сброс повреждённой коллекции: %w", err)
		}
		return []task.Task{}, nil
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленное чтение коллекции", zap.Duration("ms", time.Since(start)))
	}

	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

func (s *TaskStorage) save(ctx context.Context, tasks []task.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("сериализация коллекции задач: %w", err)
	}

	if err := s.store.Set(ctx, s.key, string(data)); err != nil {
		logger.Error("Repository: Не удалось сохранить коллекцию задач", err, zap.Int("count", len(tasks)))
		return fmt.Errorf("запись коллекции задач: %w", err)
	}
	return nil
}

// stamp - текущее время без монотонной части, чтобы запись после
// сериализации совпадала с возвращённой
func (s *TaskStorage) stamp() time.Time {
	return s.now().UTC().Round(0)
}

func (s *TaskStorage) uniqueID(tasks []task.Task) string {
	for {
		id := s.newID()
		if indexOf(tasks, id) < 0 {
			return id
		}
		logger.Warn("Repository: Сгенерирован повторяющийся id, повтор", zap.String("task_id", id))
	}
}

func indexOf(tasks []task.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
