// Package query строит видимое подмножество задач: поиск, фильтры, сортировка.
// Функции не обращаются к хранилищу и не изменяют входной срез.
package query

import (
	"fmt"
	"slices"
	"strings"

	"taskManager/internal/models/task"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Status string

const (
	StatusAll       Status = "all"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

type SortKey string

const (
	SortByDueDate  SortKey = "dueDate"
	SortByPriority SortKey = "priority"
	SortByCategory SortKey = "category"
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "":
		return StatusAll, nil
	case StatusAll, StatusPending, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("неизвестный статус %q", s)
}

func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortByDueDate, nil
	case SortByDueDate, SortByPriority, SortByCategory:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("неизвестный ключ сортировки %q", s)
}

func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(s)) {
	case "":
		return Asc, nil
	case Asc, Desc:
		return Order(strings.ToLower(s)), nil
	}
	return "", fmt.Errorf("неизвестный порядок сортировки %q", s)
}

// Search - регистронезависимый поиск подстроки в заголовке и описании.
// Пустой текст совпадает со всем.
func Search(tasks []task.Task, text string) []task.Task {
	if text == "" {
		return clone(tasks)
	}

	fold := cases.Fold()
	needle := fold.String(text)
	return keep(tasks, func(t task.Task) bool {
		return strings.Contains(fold.String(t.Title), needle) ||
			strings.Contains(fold.String(t.Description), needle)
	})
}

func FilterByStatus(tasks []task.Task, status Status) []task.Task {
	switch status {
	case StatusPending:
		return keep(tasks, func(t task.Task) bool { return !t.Completed })
	case StatusCompleted:
		return keep(tasks, func(t task.Task) bool { return t.Completed })
	default:
		return clone(tasks)
	}
}

// FilterByCategory - точное совпадение; nil или пустая строка не фильтруют
func FilterByCategory(tasks []task.Task, category *string) []task.Task {
	if category == nil || *category == "" {
		return clone(tasks)
	}
	return keep(tasks, func(t task.Task) bool { return t.Category == *category })
}

func FilterByPriority(tasks []task.Task, priority *task.Priority) []task.Task {
	if priority == nil || *priority == "" {
		return clone(tasks)
	}
	return keep(tasks, func(t task.Task) bool { return t.Priority == *priority })
}

type sortOptions struct {
	lang language.Tag
}

type SortOption func(*sortOptions)

// WithCollation задаёт язык для сравнения категорий
func WithCollation(tag language.Tag) SortOption {
	return func(o *sortOptions) {
		o.lang = tag
	}
}

// Sort - устойчивая сортировка: равные элементы сохраняют исходный порядок
// в обоих направлениях. Приоритет сравнивается по весу, категория - с учётом
// языка, срок - по календарю (задачи без срока считаются самыми ранними).
func Sort(tasks []task.Task, key SortKey, order Order, options ...SortOption) []task.Task {
	opts := sortOptions{lang: language.Und}
	for _, opt := range options {
		opt(&opts)
	}

	var cmp func(a, b task.Task) int
	switch key {
	case SortByPriority:
		cmp = func(a, b task.Task) int {
			return task.PriorityWeight(a.Priority) - task.PriorityWeight(b.Priority)
		}
	case SortByCategory:
		// Collator не потокобезопасен, поэтому создаётся на каждый вызов
		col := collate.New(opts.lang)
		cmp = func(a, b task.Task) int {
			return col.CompareString(a.Category, b.Category)
		}
	default:
		cmp = func(a, b task.Task) int {
			return a.DueDate.Compare(b.DueDate)
		}
	}

	res := clone(tasks)
	if order == Desc {
		slices.SortStableFunc(res, func(a, b task.Task) int { return cmp(b, a) })
	} else {
		slices.SortStableFunc(res, cmp)
	}
	return res
}

// Criteria - параметры списка задач в том виде, в каком их задаёт экран списка
type Criteria struct {
	Search   string
	Status   Status
	Category *string
	Priority *task.Priority
	SortBy   SortKey
	Order    Order
	Language language.Tag
}

// Apply применяет критерии в порядке экрана списка:
// поиск, статус, категория, приоритет, сортировка
func Apply(tasks []task.Task, c Criteria) []task.Task {
	res := Search(tasks, c.Search)
	res = FilterByStatus(res, c.Status)
	res = FilterByCategory(res, c.Category)
	res = FilterByPriority(res, c.Priority)
	if c.SortBy == "" {
		return res
	}
	return Sort(res, c.SortBy, c.Order, WithCollation(c.Language))
}

func keep(tasks []task.Task, match func(task.Task) bool) []task.Task {
	res := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if match(t) {
			res = append(res, t)
		}
	}
	return res
}

func clone(tasks []task.Task) []task.Task {
	res := make([]task.Task, len(tasks))
	copy(res, tasks)
	return res
}
