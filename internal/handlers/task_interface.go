package handlers

import (
	"context"

	"taskManager/internal/auth"
	"taskManager/internal/models/task"
	"taskManager/internal/photo"
	"taskManager/internal/service"
	"taskManager/internal/settings"
	"taskManager/internal/stats"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	ListTasks(ctx context.Context, in service.ListInput) ([]task.Task, error)
	RecentTasks(ctx context.Context, limit int) ([]task.Task, error)
	GetTask(ctx context.Context, id string) (task.Task, error)
	CreateTask(ctx context.Context, in service.CreateInput) (task.Task, error)
	UpdateTask(ctx context.Context, id string, patch task.Patch) (task.Task, error)
	ToggleTask(ctx context.Context, id string) (task.Task, error)
	DeleteTask(ctx context.Context, id string) error
	Stats(ctx context.Context, window stats.Window) (stats.Report, error)
	Due(ctx context.Context) (stats.DueBuckets, error)
	Categories(ctx context.Context) ([]string, error)
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (auth.Session, error)
	Login(ctx context.Context, email, password string) (auth.Session, error)
	Logout(ctx context.Context) error
	CurrentUserID(ctx context.Context) (string, bool)
	User(ctx context.Context, userID string) (auth.User, error)
	UpdateProfile(ctx context.Context, userID string, patch auth.ProfilePatch) (auth.User, error)
}

type SettingsService interface {
	Load(ctx context.Context) (settings.Settings, error)
	Update(ctx context.Context, patch settings.Patch) (settings.Settings, error)
}

type PhotoService interface {
	Add(ctx context.Context, data []byte) (photo.Photo, error)
	List(ctx context.Context) ([]photo.Photo, error)
	Read(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
}
