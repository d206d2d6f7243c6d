package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskManager/internal/auth"
	"taskManager/internal/handlers"
	"taskManager/internal/models/task"
	"taskManager/internal/photo"
	"taskManager/internal/query"
	"taskManager/internal/service"
	"taskManager/internal/settings"
	"taskManager/internal/stats"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskService - мок сервиса задач
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskService) ListTasks(ctx context.Context, in service.ListInput) ([]task.Task, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockTaskService) RecentTasks(ctx context.Context, limit int) ([]task.Task, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockTaskService) GetTask(ctx context.Context, id string) (task.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(task.Task), args.Error(1)
}

func (m *MockTaskService) CreateTask(ctx context.Context, in service.CreateInput) (task.Task, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(task.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, id string, patch task.Patch) (task.Task, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(task.Task), args.Error(1)
}

func (m *MockTaskService) ToggleTask(ctx context.Context, id string) (task.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(task.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskService) Stats(ctx context.Context, window stats.Window) (stats.Report, error) {
	args := m.Called(ctx, window)
	return args.Get(0).(stats.Report), args.Error(1)
}

func (m *MockTaskService) Due(ctx context.Context) (stats.DueBuckets, error) {
	args := m.Called(ctx)
	return args.Get(0).(stats.DueBuckets), args.Error(1)
}

func (m *MockTaskService) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var _ handlers.TaskService = (*MockTaskService)(nil)

// MockSettingsService - мок настроек
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Load(ctx context.Context) (settings.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(settings.Settings), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, patch settings.Patch) (settings.Settings, error) {
	args := m.Called(ctx, patch)
	return args.Get(0).(settings.Settings), args.Error(1)
}

var _ handlers.SettingsService = (*MockSettingsService)(nil)

// MockAuthService - мок сервиса входа
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (auth.Session, error) {
	args := m.Called(ctx, name, email, password)
	return args.Get(0).(auth.Session), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (auth.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(auth.Session), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAuthService) CurrentUserID(ctx context.Context) (string, bool) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1)
}

func (m *MockAuthService) User(ctx context.Context, userID string) (auth.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(auth.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID string, patch auth.ProfilePatch) (auth.User, error) {
	args := m.Called(ctx, userID, patch)
	return args.Get(0).(auth.User), args.Error(1)
}

var _ handlers.AuthService = (*MockAuthService)(nil)

// MockPhotoService - мок галереи
type MockPhotoService struct {
	mock.Mock
}

func (m *MockPhotoService) Add(ctx context.Context, data []byte) (photo.Photo, error) {
	args := m.Called(ctx, data)
	return args.Get(0).(photo.Photo), args.Error(1)
}

func (m *MockPhotoService) List(ctx context.Context) ([]photo.Photo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]photo.Photo), args.Error(1)
}

func (m *MockPhotoService) Read(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockPhotoService) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

var _ handlers.PhotoService = (*MockPhotoService)(nil)

type mocks struct {
	tasks    *MockTaskService
	settings *MockSettingsService
	auth     *MockAuthService
	photos   *MockPhotoService
}

// newRouter собирает роутер со всеми маршрутами поверх моков
func newRouter() (http.Handler, mocks) {
	m := mocks{
		tasks:    new(MockTaskService),
		settings: new(MockSettingsService),
		auth:     new(MockAuthService),
		photos:   new(MockPhotoService),
	}
	r := chi.NewRouter()
	handlers.Handlers{
		Tasks:    handlers.NewTaskHandler(m.tasks, m.settings),
		Auth:     handlers.NewAuthHandler(m.auth),
		Settings: handlers.NewSettingsHandler(m.settings),
		Photos:   handlers.NewPhotoHandler(m.photos),
	}.Routes(r)
	return r, m
}

func (m mocks) assert(t *testing.T) {
	m.tasks.AssertExpectations(t)
	m.settings.AssertExpectations(t)
	m.auth.AssertExpectations(t)
	m.photos.AssertExpectations(t)
}

func do(h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func sampleTask() task.Task {
	return task.Task{
		ID:       "task-1",
		Title:    "Buy milk",
		DueDate:  task.MustParseDate("2000-01-01"),
		Priority: task.PriorityMedium,
		Category: "Personal",
		UserID:   "1",
	}
}

// TestTaskHandler_HealthCheck тестирует HealthCheck
func TestTaskHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name: "success - healthy",
			setupMock: func(m *MockTaskService) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - unhealthy",
			setupMock: func(m *MockTaskService) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("service unavailable"))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newRouter()
			tt.setupMock(m.tasks)

			w := do(router, http.MethodGet, "/health", "", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), "status")
			m.assert(t)
		})
	}
}

// TestTaskHandler_PostTask тестирует создание задачи
func TestTaskHandler_PostTask(t *testing.T) {
	input := service.CreateInput{
		Title:    "Buy milk",
		DueDate:  task.MustParseDate("2025-04-01"),
		Priority: task.PriorityMedium,
		Category: "Personal",
	}

	tests := []struct {
		name           string
		requestBody    string
		contentType    string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name:        "success - create task",
			requestBody: `{"title":"Buy milk","dueDate":"2025-04-01","priority":"medium","category":"Personal"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				created := sampleTask()
				m.On("CreateTask", mock.Anything, input).Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "error - invalid content type",
			requestBody:    `{}`,
			contentType:    "text/plain",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:           "error - invalid JSON",
			requestBody:    `{invalid json}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - invalid due date",
			requestBody:    `{"title":"Buy milk","dueDate":"tomorrow"}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "error - validation",
			requestBody: `{"title":"","dueDate":"2025-04-01"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, mock.Anything).
					Return(task.Task{}, service.NewValidationError("title", "обязательное поле"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "error - no user",
			requestBody: `{"title":"Buy milk","dueDate":"2025-04-01"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, mock.Anything).
					Return(task.Task{}, service.NewUnauthenticated())
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:        "error - service error",
			requestBody: `{"title":"Buy milk","dueDate":"2025-04-01"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, mock.Anything).
					Return(task.Task{}, errors.New("service error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newRouter()
			tt.setupMock(m.tasks)

			w := do(router, http.MethodPost, "/tasks", tt.contentType, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusCreated {
				var response struct {
					Task struct {
						ID        string `json:"id"`
						Title     string `json:"title"`
						DueDate   string `json:"dueDate"`
						IsOverdue bool   `json:"isOverdue"`
					} `json:"task"`
				}
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, "task-1", response.Task.ID)
				assert.Equal(t, "Buy milk", response.Task.Title)
				assert.Equal(t, "2000-01-01", response.Task.DueDate)
				assert.True(t, response.Task.IsOverdue)
			}
			m.assert(t)
		})
	}
}

// TestTaskHandler_ListTasks тестирует разбор параметров списка
func TestTaskHandler_ListTasks(t *testing.T) {
	work := "Work"
	high := task.PriorityHigh
	yes := true

	tests := []struct {
		name           string
		target         string
		defaultView    string
		wantInput      service.ListInput
		expectedStatus int
	}{
		{
			name:        "defaults",
			target:      "/tasks",
			defaultView: "all",
			wantInput: service.ListInput{Criteria: query.Criteria{
				Status: query.StatusAll, SortBy: query.SortByDueDate, Order: query.Asc,
			}},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "default view from settings",
			target:      "/tasks",
			defaultView: "pending",
			wantInput: service.ListInput{Criteria: query.Criteria{
				Status: query.StatusPending, SortBy: query.SortByDueDate, Order: query.Asc,
			}},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "all params",
			target: "/tasks?q=%20milk%20&status=completed&category=Work&priority=high&sort=priority&order=desc&completed=true",
			wantInput: service.ListInput{
				Filter: task.Filter{Completed: &yes},
				Criteria: query.Criteria{
					Search:   "milk",
					Status:   query.StatusCompleted,
					Category: &work,
					Priority: &high,
					SortBy:   query.SortByPriority,
					Order:    query.Desc,
				},
			},
			expectedStatus: http.StatusOK,
		},
		{name: "bad status", target: "/tasks?status=archived", expectedStatus: http.StatusBadRequest},
		{name: "bad sort", target: "/tasks?status=all&sort=title", expectedStatus: http.StatusBadRequest},
		{name: "bad priority", target: "/tasks?status=all&priority=urgent", expectedStatus: http.StatusBadRequest},
		{name: "bad completed", target: "/tasks?status=all&completed=maybe", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newRouter()
			if tt.defaultView != "" {
				st := settings.Defaults()
				st.DefaultView = tt.defaultView
				m.settings.On("Load", mock.Anything).Return(st, nil)
			} else {
				m.settings.On("Load", mock.Anything).Return(settings.Defaults(), nil).Maybe()
			}
			if tt.expectedStatus == http.StatusOK {
				m.tasks.On("ListTasks", mock.Anything, tt.wantInput).
					Return([]task.Task{sampleTask()}, nil)
			}

			w := do(router, http.MethodGet, tt.target, "", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"count":1`)
			}
			m.assert(t)
		})
	}
}

// TestTaskHandler_GetTaskByID тестирует получение задачи по ID
func TestTaskHandler_GetTaskByID(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name: "success - get task",
			setupMock: func(m *MockTaskService) {
				m.On("GetTask", mock.Anything, "task-1").Return(sampleTask(), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - task not found",
			setupMock: func(m *MockTaskService) {
				m.On("GetTask", mock.Anything, "task-1").
					Return(task.Task{}, service.NewNotFound("задача", "task-1"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "error - wrapped business error",
			setupMock: func(m *MockTaskService) {
				m.On("GetTask", mock.Anything, "task-1").
					Return(task.Task{}, errors.Join(errors.New("контекст"), service.NewUnauthenticated()))
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newRouter()
			tt.setupMock(m.tasks)

			w := do(router, http.MethodGet, "/tasks/task-1", "", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			m.assert(t)
		})
	}
}

// TestTaskHandler_UpdateTaskByID тестирует частичное обновление
func TestTaskHandler_UpdateTaskByID(t *testing.T) {
	router, m := newRouter()
	title := "Buy oat milk"
	m.tasks.On("UpdateTask", mock.Anything, "task-1", mock.MatchedBy(func(p task.Patch) bool {
		return p.Title != nil && *p.Title == title && p.Completed == nil && p.UserID != nil
	})).Return(sampleTask(), nil)

	w := do(router, http.MethodPatch, "/tasks/task-1", "application/json",
		`{"title":"Buy oat milk","userId":"2","updatedAt":"2025-01-01T00:00:00Z"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	m.assert(t)
}

// TestTaskHandler_ToggleAndDelete тестирует переключение и удаление
func TestTaskHandler_ToggleAndDelete(t *testing.T) {
	router, m := newRouter()
	done := sampleTask()
	done.Completed = true
	m.tasks.On("ToggleTask", mock.Anything, "task-1").Return(done, nil)
	m.tasks.On("DeleteTask", mock.Anything, "task-1").Return(nil).Once()
	m.tasks.On("DeleteTask", mock.Anything, "task-2").Return(service.NewNotFound("задача", "task-2"))

	w := do(router, http.MethodPost, "/tasks/task-1/toggle", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"completed":true`)
	assert.Contains(t, w.Body.String(), `"isOverdue":false`)

	w = do(router, http.MethodDelete, "/tasks/task-1", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(router, http.MethodDelete, "/tasks/task-2", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	m.assert(t)
}

// TestTaskHandler_Stats тестирует выбор периода статистики
func TestTaskHandler_Stats(t *testing.T) {
	router, m := newRouter()
	m.tasks.On("Stats", mock.Anything, stats.WindowThisWeek).
		Return(stats.Report{Window: stats.WindowThisWeek, CompletionRate: 0.5}, nil)

	w := do(router, http.MethodGet, "/stats?window=week", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"completionRate":0.5`)

	w = do(router, http.MethodGet, "/stats?window=year", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.assert(t)
}

// TestTaskHandler_RecentAndDue тестирует подборки для главного экрана
func TestTaskHandler_RecentAndDue(t *testing.T) {
	router, m := newRouter()
	m.tasks.On("RecentTasks", mock.Anything, 5).Return([]task.Task{sampleTask()}, nil)
	m.tasks.On("RecentTasks", mock.Anything, 2).Return([]task.Task{}, nil)
	m.tasks.On("Due", mock.Anything).Return(stats.DueBuckets{Overdue: []task.Task{sampleTask()}}, nil)
	m.tasks.On("Categories", mock.Anything).Return([]string{"Personal", "Work"}, nil)

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/tasks/recent", "", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/tasks/recent?limit=2", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/tasks/recent?limit=-1", "", "").Code)

	w := do(router, http.MethodGet, "/tasks/due", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"overdue":[{`)
	assert.Contains(t, w.Body.String(), `"dueToday":[]`)

	w = do(router, http.MethodGet, "/categories", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"categories":["Personal","Work"]}`, w.Body.String())
	m.assert(t)
}

// TestAuthHandler тестирует регистрацию, вход и профиль
func TestAuthHandler(t *testing.T) {
	user := auth.User{ID: "u-1", Name: "Ann", Email: "ann@example.com"}

	t.Run("register", func(t *testing.T) {
		router, m := newRouter()
		m.auth.On("Register", mock.Anything, "Ann", "ann@example.com", "secret1").
			Return(auth.Session{User: user, Token: "jwt"}, nil)

		w := do(router, http.MethodPost, "/auth/register", "application/json",
			`{"name":"Ann","email":"ann@example.com","password":"secret1"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"token":"jwt"`)
		m.assert(t)
	})

	t.Run("register - email taken", func(t *testing.T) {
		router, m := newRouter()
		m.auth.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(auth.Session{}, auth.ErrEmailTaken)

		w := do(router, http.MethodPost, "/auth/register", "application/json",
			`{"name":"Ann","email":"ann@example.com","password":"secret1"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), service.CodeConflict)
	})

	t.Run("register - weak password", func(t *testing.T) {
		router, m := newRouter()
		m.auth.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(auth.Session{}, auth.ErrWeakPassword)

		w := do(router, http.MethodPost, "/auth/register", "application/json",
			`{"name":"Ann","email":"ann@example.com","password":"1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("login - bad credentials", func(t *testing.T) {
		router, m := newRouter()
		m.auth.On("Login", mock.Anything, "ann@example.com", "nope").
			Return(auth.Session{}, auth.ErrInvalidCredentials)

		w := do(router, http.MethodPost, "/auth/login", "application/json",
			`{"email":"ann@example.com","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("logout", func(t *testing.T) {
		router, m := newRouter()
		m.auth.On("Logout", mock.Anything).Return(nil)

		w := do(router, http.MethodPost, "/auth/logout", "", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		m.assert(t)
	})

	t.Run("me - anonymous", func(t *testing.T) {
		router, m := newRouter()
		m.auth.On("CurrentUserID", mock.Anything).Return("", false)

		w := do(router, http.MethodGet, "/auth/me", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me - update profile", func(t *testing.T) {
		router, m := newRouter()
		name := "Anna"
		m.auth.On("CurrentUserID", mock.Anything).Return("u-1", true)
		m.auth.On("UpdateProfile", mock.Anything, "u-1", auth.ProfilePatch{Name: &name}).
			Return(auth.User{ID: "u-1", Name: name, Email: user.Email}, nil)

		w := do(router, http.MethodPatch, "/auth/me", "application/json", `{"name":"Anna"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Anna"`)
		m.assert(t)
	})
}

// TestSettingsHandler тестирует чтение и изменение настроек
func TestSettingsHandler(t *testing.T) {
	router, m := newRouter()
	m.settings.On("Load", mock.Anything).Return(settings.Defaults(), nil)
	lang := "de"
	m.settings.On("Update", mock.Anything, settings.Patch{Language: &lang}).
		Return(settings.Settings{}, settings.ErrUnknownLanguage)

	w := do(router, http.MethodGet, "/settings", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"language":"en"`)

	w = do(router, http.MethodPatch, "/settings", "application/json", `{"language":"de"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), service.CodeValidation)
	m.assert(t)
}

// TestPhotoHandler тестирует загрузку и выдачу снимков
func TestPhotoHandler(t *testing.T) {
	router, m := newRouter()
	data := []byte{0xff, 0xd8, 0xff}
	p := photo.Photo{Filepath: "1700000000000.jpeg", WebviewPath: "/photos/1700000000000.jpeg"}
	m.photos.On("Add", mock.Anything, data).Return(p, nil)
	m.photos.On("List", mock.Anything).Return([]photo.Photo{p}, nil)
	m.photos.On("Read", mock.Anything, p.Filepath).Return(data, nil)
	m.photos.On("Read", mock.Anything, "missing.jpeg").Return(nil, photo.ErrNotFound)
	m.photos.On("Delete", mock.Anything, p.Filepath).Return(nil)

	w := do(router, http.MethodPost, "/photos", "image/jpeg", string(data))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), p.WebviewPath)

	w = do(router, http.MethodPost, "/photos", "text/plain", "x")
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = do(router, http.MethodGet, "/photos", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, "/photos/"+p.Filepath, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, data, w.Body.Bytes())

	w = do(router, http.MethodGet, "/photos/missing.jpeg", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodDelete, "/photos/"+p.Filepath, "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	m.assert(t)
}
