package worker

import (
	"context"
	"fmt"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/settings"
	"taskManager/internal/stats"

	"go.uber.org/zap"
)

const defaultInterval = 5 * time.Minute

type DueSource interface {
	Due(ctx context.Context) (stats.DueBuckets, error)
}

type SettingsSource interface {
	Load(ctx context.Context) (settings.Settings, error)
}

// Result - итог одной проверки
type Result struct {
	Skipped  bool
	Overdue  int
	DueToday int
	Upcoming int
}

// ReminderWorker периодически напоминает о просроченных задачах и задачах на сегодня
type ReminderWorker struct {
	tasks    DueSource
	settings SettingsSource
	interval time.Duration
}

func NewReminderWorker(tasks DueSource, settings SettingsSource, interval *time.Duration) *ReminderWorker {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = defaultInterval
	} else {
		intervalToSet = *interval
	}
	return &ReminderWorker{
		tasks:    tasks,
		settings: settings,
		interval: intervalToSet,
	}
}

// Start блокируется до отмены ctx
func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: Напоминания запущены", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ticker.C:
			logger.Debug("Worker: Фоновая проверка сроков задач", zap.Time("started_at", time.Now()))
			if _, err := w.Check(ctx); err != nil {
				logger.Warn("Worker: ошибка проверки задач", zap.Error(err))
			}
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

func (w *ReminderWorker) Check(ctx context.Context) (Result, error) {
	start := time.Now()

	st, err := w.settings.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("загрузка настроек: %w", err)
	}
	if !st.NotificationsEnabled {
		logger.Debug("Worker: Уведомления выключены, проверка пропущена")
		return Result{Skipped: true}, nil
	}

	buckets, err := w.tasks.Due(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("получение задач по срокам: %w", err)
	}

	res := Result{
		Overdue:  len(buckets.Overdue),
		DueToday: len(buckets.DueToday),
		Upcoming: len(buckets.Upcoming),
	}

	if res.Overdue > 0 || res.DueToday > 0 {
		logger.Info("Worker: Есть задачи, требующие внимания",
			zap.Int("overdue", res.Overdue),
			zap.Int("due_today", res.DueToday))
		for _, t := range buckets.Overdue {
			logger.Debug("Worker: Просроченная задача",
				zap.String("task_id", t.ID),
				zap.String("title", t.Title),
				zap.Stringer("due_date", t.DueDate))
		}
	}

	logger.Info(
		"Worker: Завершение проверки задач",
		zap.Duration("ms", time.Since(start)),
		zap.Int("overdue", res.Overdue),
		zap.Int("due_today", res.DueToday),
		zap.Int("upcoming", res.Upcoming),
	)
	return res, nil
}
