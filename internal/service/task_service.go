package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"taskManager/internal/query"
	rep "taskManager/internal/repository"
	"taskManager/internal/session"
	"taskManager/internal/stats"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// здесь происходит проверка ошибок бизнес-логики и входных данных;
// репозиторий принимает любую синтаксически верную запись

// категории, которые предлагает форма задачи
var SuggestedCategories = []string{
	"Personal", "Work", "School", "Health", "Finance", "Home", "Errands", "Learning", "Other",
}

const resourceTask = "задача"

type TaskService struct {
	repo      TaskRepository
	session   session.Context
	now       func() time.Time
	weekStart time.Weekday
	collation language.Tag
}

func NewTaskService(repo TaskRepository, sess session.Context, options ...Option) *TaskService {
	s := &TaskService{
		repo:      repo,
		session:   sess,
		now:       time.Now,
		weekStart: time.Sunday,
		collation: language.Und,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// CreateInput - данные формы новой задачи
type CreateInput struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Completed   bool          `json:"completed"`
	DueDate     task.Date     `json:"dueDate"`
	Priority    task.Priority `json:"priority"`
	Category    string        `json:"category"`
}

// ListInput - фильтр репозитория и критерии экрана списка
type ListInput struct {
	Filter   task.Filter
	Criteria query.Criteria
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка репозитория: %w", err)
	}
	return nil
}

// ListTasks - задачи текущего пользователя. Без пользователя - пустой список.
func (s *TaskService) ListTasks(ctx context.Context, in ListInput) ([]task.Task, error) {
	userID, ok := s.session.CurrentUserID(ctx)
	if !ok {
		return []task.Task{}, nil
	}

	tasks, err := s.repo.List(ctx, userID, in.Filter)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	criteria := in.Criteria
	if criteria.Language == language.Und {
		criteria.Language = s.collation
	}
	return query.Apply(tasks, criteria), nil
}

// RecentTasks - последние созданные задачи пользователя, новые первыми
func (s *TaskService) RecentTasks(ctx context.Context, limit int) ([]task.Task, error) {
	tasks, err := s.ListTasks(ctx, ListInput{})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

// GetTask возвращает задачу текущего пользователя. Чужая задача неотличима от отсутствующей.
func (s *TaskService) GetTask(ctx context.Context, id string) (task.Task, error) {
	userID, ok := s.session.CurrentUserID(ctx)
	if !ok {
		return task.Task{}, NewUnauthenticated()
	}
	return s.owned(ctx, userID, id)
}

func (s *TaskService) CreateTask(ctx context.Context, in CreateInput) (task.Task, error) {
	userID, ok := s.session.CurrentUserID(ctx)
	if !ok {
		return task.Task{}, NewUnauthenticated()
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return task.Task{}, NewValidationError("title", "обязательное поле")
	}
	if in.DueDate.IsZero() {
		return task.Task{}, NewValidationError("dueDate", "обязательное поле")
	}
	priority := in.Priority
	if priority == "" {
		priority = task.PriorityMedium
	}
	if !priority.Valid() {
		return task.Task{}, NewValidationError("priority", fmt.Sprintf("допустимы %v", task.Priorities))
	}

	created, err := s.repo.Create(ctx, task.NewTask{
		Title:       title,
		Description: in.Description,
		Completed:   in.Completed,
		DueDate:     in.DueDate,
		Priority:    priority,
		Category:    strings.TrimSpace(in.Category),
		UserID:      userID,
	})
	if err != nil {
		return task.Task{}, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана", zap.String("task_id", created.ID))
	return created, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id string, patch task.Patch) (task.Task, error) {
	userID, ok := s.session.CurrentUserID(ctx)
	if !ok {
		return task.Task{}, NewUnauthenticated()
	}

	if patch.IsEmpty() {
		return task.Task{}, NewValidationError("patch", "нет изменяемых полей")
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return task.Task{}, NewValidationError("title", "не может быть пустым")
		}
		patch.Title = &title
	}
	if patch.DueDate != nil && patch.DueDate.IsZero() {
		return task.Task{}, NewValidationError("dueDate", "не может быть пустым")
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return task.Task{}, NewValidationError("priority", fmt.Sprintf("допустимы %v", task.Priorities))
	}

	if _, err := s.owned(ctx, userID, id); err != nil {
		return task.Task{}, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return task.Task{}, NewNotFound(resourceTask, id)
		}
		return task.Task{}, fmt.Errorf("обновление задачи: %w", err)
	}
	return updated, nil
}

// ToggleTask переключает отметку о выполнении
func (s *TaskService) ToggleTask(ctx context.Context, id string) (task.Task, error) {
	userID, ok := s.session.CurrentUserID(ctx)
	if !ok {
		return task.Task{}, NewUnauthenticated()
	}

	current, err := s.owned(ctx, userID, id)
	if err != nil {
		return task.Task{}, err
	}
	return s.UpdateTask(ctx, id, task.NewPatch(task.WithCompleted(!current.Completed)))
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	userID, ok := s.session.CurrentUserID(ctx)
	if !ok {
		return NewUnauthenticated()
	}

	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound(resourceTask, id)
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}

	logger.Info("Service: Задача удалена", zap.String("task_id", id))
	return nil
}

// Stats - отчёт экрана статистики по задачам пользователя за окно
func (s *TaskService) Stats(ctx context.Context, window stats.Window) (stats.Report, error) {
	tasks, err := s.ListTasks(ctx, ListInput{})
	if err != nil {
		return stats.Report{}, err
	}
	return stats.BuildReport(tasks, window, s.now(), s.weekStart), nil
}

// Due раскладывает невыполненные задачи пользователя по сроку на сегодня
func (s *TaskService) Due(ctx context.Context) (stats.DueBuckets, error) {
	tasks, err := s.ListTasks(ctx, ListInput{})
	if err != nil {
		return stats.DueBuckets{}, err
	}
	return stats.BucketByDueStatus(tasks, s.now()), nil
}

// Categories - предлагаемые категории и те, что уже встречаются у пользователя
func (s *TaskService) Categories(ctx context.Context) ([]string, error) {
	tasks, err := s.ListTasks(ctx, ListInput{})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(SuggestedCategories))
	res := make([]string, 0, len(SuggestedCategories))
	for _, c := range SuggestedCategories {
		seen[c] = true
		res = append(res, c)
	}

	var extra []string
	for _, t := range tasks {
		if t.Category == "" || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		extra = append(extra, t.Category)
	}
	sort.Strings(extra)
	return append(res, extra...), nil
}

func (s *TaskService) owned(ctx context.Context, userID, id string) (task.Task, error) {
	t, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return task.Task{}, fmt.Errorf("получение задачи: %w", err)
	}
	if !ok || t.UserID != userID {
		if ok {
			logger.Warn("Service: Попытка доступа к чужой задаче",
				zap.String("task_id", id),
				zap.String("user_id", userID))
		} else {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id))
		}
		return task.Task{}, NewNotFound(resourceTask, id)
	}
	return t, nil
}
