// Package seed - начальные задачи для пустой коллекции.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"time"

	"taskManager/internal/models/task"

	"gopkg.in/yaml.v3"
)

//go:embed tasks.yml
var defaultTasks []byte

type fixture struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Completed   bool   `yaml:"completed"`
	DueDate     string `yaml:"dueDate"`
	Priority    string `yaml:"priority"`
	Category    string `yaml:"category"`
	CreatedAt   string `yaml:"createdAt"`
	UpdatedAt   string `yaml:"updatedAt"`
}

type document struct {
	Tasks []fixture `yaml:"tasks"`
}

// Load читает YAML с задачами и назначает им владельца userID
func Load(r io.Reader, userID string) ([]task.Task, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return []task.Task{}, nil
		}
		return nil, fmt.Errorf("разбор начальных задач: %w", err)
	}

	tasks := make([]task.Task, 0, len(doc.Tasks))
	for i, f := range doc.Tasks {
		t, err := f.toTask(userID)
		if err != nil {
			return nil, fmt.Errorf("задача #%d (%s): %w", i+1, f.ID, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Default - встроенный набор задач
func Default(userID string) ([]task.Task, error) {
	return Load(bytes.NewReader(defaultTasks), userID)
}

func (f fixture) toTask(userID string) (task.Task, error) {
	priority := task.Priority(f.Priority)
	if !priority.Valid() {
		return task.Task{}, fmt.Errorf("неизвестный приоритет %q", f.Priority)
	}

	var due task.Date
	if f.DueDate != "" {
		d, err := task.ParseDate(f.DueDate)
		if err != nil {
			return task.Task{}, err
		}
		due = d
	}

	created, err := parseTime(f.CreatedAt)
	if err != nil {
		return task.Task{}, err
	}
	updated, err := parseTime(f.UpdatedAt)
	if err != nil {
		return task.Task{}, err
	}

	return task.Task{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Completed:   f.Completed,
		DueDate:     due,
		Priority:    priority,
		Category:    f.Category,
		UserID:      userID,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(task.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("неверная временная метка %q", s)
	}
	return t, nil
}
