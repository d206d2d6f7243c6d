package task

import (
	"time"
)

// Patch - частичное обновление задачи. Заполненные (не nil) поля накладываются
// на существующую запись. ID, UserID и CreatedAt принимаются, но игнорируются.
type Patch struct {
	ID          *string    `json:"id,omitempty"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	DueDate     *Date      `json:"dueDate,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	Category    *string    `json:"category,omitempty"`
	UserID      *string    `json:"userId,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// Apply накладывает патч на копию задачи и возвращает результат
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	return t
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.DueDate == nil && p.Priority == nil && p.Category == nil
}

type TaskOption func(*Patch)

func NewPatch(options ...TaskOption) Patch {
	var p Patch
	for _, opt := range options {
		if opt != nil {
			opt(&p)
		}
	}
	return p
}

func WithTitle(title string) TaskOption {
	return func(p *Patch) {
		p.Title = &title
	}
}

func WithDescription(description string) TaskOption {
	return func(p *Patch) {
		p.Description = &description
	}
}

func WithCompleted(completed bool) TaskOption {
	return func(p *Patch) {
		p.Completed = &completed
	}
}

func WithDueDate(dueDate Date) TaskOption {
	if dueDate.IsZero() {
		return nil
	}
	return func(p *Patch) {
		p.DueDate = &dueDate
	}
}

func WithPriority(priority Priority) TaskOption {
	if priority == "" {
		return nil
	}
	return func(p *Patch) {
		p.Priority = &priority
	}
}

func WithCategory(category string) TaskOption {
	return func(p *Patch) {
		p.Category = &category
	}
}
