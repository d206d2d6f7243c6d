package service

import (
	"time"

	"golang.org/x/text/language"
)

// есть тип функции, которая настраивает сервис при создании
type Option func(*TaskService)

// часы для сроков и статистики
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
	}
}

// первый день недели для окна "эта неделя"
func WithWeekStart(day time.Weekday) Option {
	return func(s *TaskService) {
		s.weekStart = day
	}
}

// язык сравнения категорий при сортировке
func WithCollation(tag language.Tag) Option {
	return func(s *TaskService) {
		s.collation = tag
	}
}
