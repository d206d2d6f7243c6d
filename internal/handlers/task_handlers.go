package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"taskManager/internal/query"
	"taskManager/internal/service"
	"taskManager/internal/stats"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const defaultRecentLimit = 5

type TaskHandler struct {
	TaskService TaskService
	// настройки дают вид списка по умолчанию, может быть nil
	SettingsService SettingsService

	now func() time.Time
}

func NewTaskHandler(taskService TaskService, settingsService SettingsService) *TaskHandler {
	return &TaskHandler{
		TaskService:     taskService,
		SettingsService: settingsService,
		now:             time.Now,
	}
}

func (s *TaskHandler) today() task.Date {
	return task.DateOf(s.now())
}

// ListTasks - GET /tasks?q=&status=&category=&priority=&sort=&order=&completed=&lang=
func (s *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	in, err := s.listInput(r)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Warn("HTTP: Неверное значение параметра",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	logger.Info("HTTP: Вызов сервиса для получения задач")

	tasks, err := s.TaskService.ListTasks(r.Context(), in)
	if err != nil {
		writeError(w, r, err, "list_tasks")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("tasks", dto.FromTaskList(tasks, s.today())),
		toPayload("count", len(tasks)))
}

func (s *TaskHandler) listInput(r *http.Request) (service.ListInput, error) {
	params := r.URL.Query()
	var in service.ListInput

	completed, err := queryBool(r, "completed")
	if err != nil {
		return in, err
	}
	in.Filter.Completed = completed

	statusParam := params.Get("status")
	if statusParam == "" && s.SettingsService != nil {
		// без явного статуса берём вид из настроек
		if st, err := s.SettingsService.Load(r.Context()); err == nil {
			statusParam = st.DefaultView
		}
	}
	status, err := query.ParseStatus(statusParam)
	if err != nil {
		return in, err
	}

	sortBy, err := query.ParseSortKey(params.Get("sort"))
	if err != nil {
		return in, err
	}
	order, err := query.ParseOrder(params.Get("order"))
	if err != nil {
		return in, err
	}

	in.Criteria = query.Criteria{
		Search: strings.TrimSpace(params.Get("q")),
		Status: status,
		SortBy: sortBy,
		Order:  order,
	}

	if category := params.Get("category"); category != "" && category != "all" {
		in.Criteria.Category = &category
	}
	if raw := params.Get("priority"); raw != "" && raw != "all" {
		priority := task.Priority(raw)
		if !priority.Valid() {
			return in, service.NewValidationError("priority", "допустимы high, medium, low")
		}
		in.Criteria.Priority = &priority
	}
	if raw := params.Get("lang"); raw != "" {
		tag, err := language.Parse(raw)
		if err != nil {
			return in, service.NewValidationError("lang", err.Error())
		}
		in.Criteria.Language = tag
	}
	return in, nil
}

// RecentTasks - GET /tasks/recent?limit=
func (s *TaskHandler) RecentTasks(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	limit, err := queryInt(r, "limit", defaultRecentLimit)
	if err != nil {
		logger.Warn("HTTP: Неверное значение параметра",
			zap.String("query", "limit"),
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := s.TaskService.RecentTasks(r.Context(), limit)
	if err != nil {
		writeError(w, r, err, "recent_tasks")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("tasks", dto.FromTaskList(tasks, s.today())))
}

// DueTasks - GET /tasks/due, невыполненные задачи по сроку
func (s *TaskHandler) DueTasks(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	buckets, err := s.TaskService.Due(r.Context())
	if err != nil {
		writeError(w, r, err, "due_tasks")
		return
	}

	today := s.today()
	responseWithJSON(w, http.StatusOK, toPayload("due", dto.DueResponse{
		Overdue:  dto.FromTaskList(buckets.Overdue, today),
		DueToday: dto.FromTaskList(buckets.DueToday, today),
		Upcoming: dto.FromTaskList(buckets.Upcoming, today),
	}))
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	logger.Info("HTTP: Вызов сервиса создания задач")

	created, err := s.TaskService.CreateTask(r.Context(), request.ToInput())
	if err != nil {
		writeError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("task", dto.FromTask(created, s.today())))
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	healthCheck(w, r, s.TaskService)
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	logger.Info("HTTP: Вызов сервиса для получения задачи")

	t, err := s.TaskService.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "get_task")
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("task_id", t.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(t, s.today())))
}

func (s *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	logger.Info("HTTP: запрос к сервису обновления данных")

	updated, err := s.TaskService.UpdateTask(r.Context(), id, request.ToPatch())
	if err != nil {
		writeError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated, s.today())))
}

// ToggleTask - POST /tasks/{id}/toggle
func (s *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	updated, err := s.TaskService.ToggleTask(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "toggle_task")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated, s.today())))
}

func (s *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	logger.Info("HTTP: Обращение к сервису для удаления задачи")

	if err := s.TaskService.DeleteTask(r.Context(), id); err != nil {
		writeError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseNoContent(w)
}

// Stats - GET /stats?window=all|thisWeek|thisMonth
func (s *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	window, err := stats.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		logger.Warn("HTTP: Неверное значение параметра",
			zap.String("query", "window"),
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.TaskService.Stats(r.Context(), window)
	if err != nil {
		writeError(w, r, err, "stats")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("stats", report))
}

// Categories - GET /categories, подсказки для поля категории
func (s *TaskHandler) Categories(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	categories, err := s.TaskService.Categories(r.Context())
	if err != nil {
		writeError(w, r, err, "categories")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("categories", categories))
}

func taskID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "empty id"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return "", false
	}
	return id, true
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func healthCheck(w http.ResponseWriter, r *http.Request, checker healthChecker) {
	if err := checker.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Хранилище недоступно", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("error", err.Error()))
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}
