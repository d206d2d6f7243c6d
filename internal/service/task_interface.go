package service

import (
	"context"

	"taskManager/internal/models/task"
)

type TaskRepository interface {
	HealthCheck(ctx context.Context) error
	List(ctx context.Context, userID string, filter task.Filter) ([]task.Task, error)
	Get(ctx context.Context, id string) (task.Task, bool, error)
	Create(ctx context.Context, data task.NewTask) (task.Task, error)
	Update(ctx context.Context, id string, patch task.Patch) (task.Task, error)
	Delete(ctx context.Context, id string) error
}
