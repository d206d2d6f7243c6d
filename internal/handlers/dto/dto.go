package dto

import (
	"time"

	"taskManager/internal/auth"
	"taskManager/internal/models/task"
	"taskManager/internal/service"
	"taskManager/internal/settings"
)

type CreateTaskRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Completed   bool          `json:"completed"`
	DueDate     task.Date     `json:"dueDate"`
	Priority    task.Priority `json:"priority"`
	Category    string        `json:"category"`
}

func (r CreateTaskRequest) ToInput() service.CreateInput {
	return service.CreateInput{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		DueDate:     r.DueDate,
		Priority:    r.Priority,
		Category:    r.Category,
	}
}

// UpdateTaskRequest - частичное обновление. id, userId и createdAt
// принимаются, но не меняют задачу.
type UpdateTaskRequest struct {
	ID          *string        `json:"id,omitempty"`
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Completed   *bool          `json:"completed,omitempty"`
	DueDate     *task.Date     `json:"dueDate,omitempty"`
	Priority    *task.Priority `json:"priority,omitempty"`
	Category    *string        `json:"category,omitempty"`
	UserID      *string        `json:"userId,omitempty"`
	CreatedAt   *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time     `json:"updatedAt,omitempty"`
}

func (r UpdateTaskRequest) ToPatch() task.Patch {
	return task.Patch{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		DueDate:     r.DueDate,
		Priority:    r.Priority,
		Category:    r.Category,
		UserID:      r.UserID,
		CreatedAt:   r.CreatedAt,
	}
}

type TaskResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Completed   bool          `json:"completed"`
	DueDate     task.Date     `json:"dueDate"`
	Priority    task.Priority `json:"priority"`
	Category    string        `json:"category"`
	UserID      string        `json:"userId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	IsOverdue   bool          `json:"isOverdue"`
}

// FromTask собирает ответ, просрочка считается на календарный день today
func FromTask(t task.Task, today task.Date) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Category:    t.Category,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		IsOverdue:   !t.Completed && !t.DueDate.IsZero() && t.DueDate.Before(today),
	}
}

func FromTaskList(tasks []task.Task, today task.Date) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t, today)
	}
	return result
}

type DueResponse struct {
	Overdue  []TaskResponse `json:"overdue"`
	DueToday []TaskResponse `json:"dueToday"`
	Upcoming []TaskResponse `json:"upcoming"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

func (r ProfileRequest) ToPatch() auth.ProfilePatch {
	return auth.ProfilePatch{Name: r.Name, Email: r.Email}
}

type SettingsRequest struct {
	DarkMode             *bool   `json:"darkMode,omitempty"`
	Language             *string `json:"language,omitempty"`
	NotificationsEnabled *bool   `json:"notificationsEnabled,omitempty"`
	DefaultView          *string `json:"defaultView,omitempty"`
}

func (r SettingsRequest) ToPatch() settings.Patch {
	return settings.Patch{
		DarkMode:             r.DarkMode,
		Language:             r.Language,
		NotificationsEnabled: r.NotificationsEnabled,
		DefaultView:          r.DefaultView,
	}
}
