package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	DueDate     Date      `json:"dueDate"`
	Priority    Priority  `json:"priority"`
	Category    string    `json:"category"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTask - данные для создания задачи.
// ID и временные метки назначает репозиторий
type NewTask struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
	DueDate     Date     `json:"dueDate"`
	Priority    Priority `json:"priority"`
	Category    string   `json:"category"`
	UserID      string   `json:"userId"`
}

type Priority string

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"

// от высокого к низкому
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// вес приоритета для сортировки (не лексический порядок), неизвестный = 0
func PriorityWeight(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Filter - фильтр для выборки из репозитория, nil поля не применяются
type Filter struct {
	Category  *string
	Completed *bool
}

func (f Filter) Match(t Task) bool {
	if f.Category != nil && *f.Category != "" && t.Category != *f.Category {
		return false
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	return true
}

// UnmarshalJSON принимает createdAt и updatedAt как в RFC 3339, так и в виде
// одной даты: такие записи встречаются в старых данных
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	aux := struct {
		*plain
		CreatedAt timestamp `json:"createdAt"`
		UpdatedAt timestamp `json:"updatedAt"`
	}{plain: (*plain)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.CreatedAt = time.Time(aux.CreatedAt)
	t.UpdatedAt = time.Time(aux.UpdatedAt)
	return nil
}

type timestamp time.Time

func (ts *timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if bytes.Equal(data, []byte("null")) {
		*ts = timestamp{}
		return nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*ts = timestamp{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*ts = timestamp(parsed)
		return nil
	}
	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("неверная временная метка %q", s)
	}
	*ts = timestamp(parsed)
	return nil
}
