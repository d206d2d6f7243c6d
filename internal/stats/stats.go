// Package stats считает сводную статистику по задачам. Хранилище не используется,
// результат полностью определяется входными данными.
package stats

import (
	"fmt"
	"sort"
	"time"

	"taskManager/internal/models/task"
)

type Summary struct {
	Total      int                   `json:"total"`
	Completed  int                   `json:"completed"`
	Pending    int                   `json:"pending"`
	ByCategory map[string]int        `json:"byCategory"`
	ByPriority map[task.Priority]int `json:"byPriority"`
}

// Summarize считает итоги. ByPriority всегда содержит все три приоритета,
// включая нулевые; неизвестные приоритеты в него не попадают.
func Summarize(tasks []task.Task) Summary {
	s := Summary{
		Total:      len(tasks),
		ByCategory: make(map[string]int),
		ByPriority: make(map[task.Priority]int, len(task.Priorities)),
	}
	for _, p := range task.Priorities {
		s.ByPriority[p] = 0
	}

	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
		s.ByCategory[t.Category]++
		if t.Priority.Valid() {
			s.ByPriority[t.Priority]++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}

// CompletionRate - доля выполненных задач в [0, 1], для пустого входа 0
func CompletionRate(tasks []task.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return float64(completed) / float64(len(tasks))
}

type DueBuckets struct {
	Overdue  []task.Task `json:"overdue"`
	DueToday []task.Task `json:"dueToday"`
	Upcoming []task.Task `json:"upcoming"`
}

// BucketByDueStatus раскладывает невыполненные задачи по сроку относительно
// календарного дня ref в его таймзоне. Выполненные и задачи без срока не попадают никуда.
func BucketByDueStatus(tasks []task.Task, ref time.Time) DueBuckets {
	today := task.DateOf(ref)
	b := DueBuckets{
		Overdue:  []task.Task{},
		DueToday: []task.Task{},
		Upcoming: []task.Task{},
	}

	for _, t := range tasks {
		if t.Completed || t.DueDate.IsZero() {
			continue
		}
		switch c := t.DueDate.Compare(today); {
		case c < 0:
			b.Overdue = append(b.Overdue, t)
		case c == 0:
			b.DueToday = append(b.DueToday, t)
		default:
			b.Upcoming = append(b.Upcoming, t)
		}
	}
	return b
}

type Window string

const (
	WindowAll       Window = "all"
	WindowThisWeek  Window = "thisWeek"
	WindowThisMonth Window = "thisMonth"
)

// ParseWindow принимает также короткие имена week и month
func ParseWindow(s string) (Window, error) {
	switch s {
	case "", string(WindowAll):
		return WindowAll, nil
	case string(WindowThisWeek), "week":
		return WindowThisWeek, nil
	case string(WindowThisMonth), "month":
		return WindowThisMonth, nil
	}
	return "", fmt.Errorf("неизвестный период %q", s)
}

// ParseWeekday разбирает день начала недели из конфигурации
func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s == d.String() || (len(s) == 3 && s == d.String()[:3]) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("неизвестный день недели %q", s)
}

// Range возвращает первый и последний день окна, содержащего ref.
// Для WindowAll ok = false.
func Range(window Window, ref time.Time, weekStart time.Weekday) (first, last task.Date, ok bool) {
	y, m, d := ref.Date()
	switch window {
	case WindowThisWeek:
		offset := (int(ref.Weekday()) - int(weekStart) + 7) % 7
		start := time.Date(y, m, d-offset, 0, 0, 0, 0, time.UTC)
		return task.DateOf(start), task.DateOf(start.AddDate(0, 0, 6)), true
	case WindowThisMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		return task.DateOf(start), task.DateOf(start.AddDate(0, 1, -1)), true
	default:
		return task.Date{}, task.Date{}, false
	}
}

// BucketByTimeWindow оставляет задачи, срок которых попадает в календарную
// неделю или месяц, содержащие ref. WindowAll возвращает вход без изменений.
func BucketByTimeWindow(tasks []task.Task, window Window, ref time.Time, weekStart time.Weekday) []task.Task {
	first, last, ok := Range(window, ref, weekStart)
	res := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if ok && (t.DueDate.IsZero() || t.DueDate.Before(first) || t.DueDate.After(last)) {
			continue
		}
		res = append(res, t)
	}
	return res
}

// Slice - один сектор диаграммы
type Slice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// CategoryBreakdown - категории по убыванию количества, при равенстве по имени
func CategoryBreakdown(tasks []task.Task) []Slice {
	counts := Summarize(tasks).ByCategory
	res := make([]Slice, 0, len(counts))
	for name, n := range counts {
		res = append(res, Slice{Name: name, Value: n})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Value != res[j].Value {
			return res[i].Value > res[j].Value
		}
		return res[i].Name < res[j].Name
	})
	return res
}

// PriorityBreakdown - high, medium, low; нулевые пропускаются
func PriorityBreakdown(tasks []task.Task) []Slice {
	counts := Summarize(tasks).ByPriority
	res := make([]Slice, 0, len(task.Priorities))
	for _, p := range task.Priorities {
		if counts[p] > 0 {
			res = append(res, Slice{Name: string(p), Value: counts[p]})
		}
	}
	return res
}

type Report struct {
	Window         Window    `json:"window"`
	Summary        Summary   `json:"summary"`
	CompletionRate float64   `json:"completionRate"`
	Due            DueCounts `json:"due"`
	Categories     []Slice   `json:"categories"`
	Priorities     []Slice   `json:"priorities"`
}

type DueCounts struct {
	Overdue  int `json:"overdue"`
	DueToday int `json:"dueToday"`
	Upcoming int `json:"upcoming"`
}

// BuildReport собирает всё, что показывает экран статистики, по задачам окна
func BuildReport(tasks []task.Task, window Window, ref time.Time, weekStart time.Weekday) Report {
	scoped := BucketByTimeWindow(tasks, window, ref, weekStart)
	due := BucketByDueStatus(scoped, ref)

	return Report{
		Window:         window,
		Summary:        Summarize(scoped),
		CompletionRate: CompletionRate(scoped),
		Due: DueCounts{
			Overdue:  len(due.Overdue),
			DueToday: len(due.DueToday),
			Upcoming: len(due.Upcoming),
		},
		Categories: CategoryBreakdown(scoped),
		Priorities: PriorityBreakdown(scoped),
	}
}
