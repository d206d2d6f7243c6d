package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"taskManager/internal/settings"
	"taskManager/internal/stats"
	"taskManager/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeDue struct {
	buckets stats.DueBuckets
	err     error
	calls   int
}

func (f *fakeDue) Due(ctx context.Context) (stats.DueBuckets, error) {
	f.calls++
	return f.buckets, f.err
}

type fakeSettings struct {
	st  settings.Settings
	err error
}

func (f fakeSettings) Load(ctx context.Context) (settings.Settings, error) {
	return f.st, f.err
}

func enabled(on bool) fakeSettings {
	st := settings.Defaults()
	st.NotificationsEnabled = on
	return fakeSettings{st: st}
}

// TestReminderWorker_Check тестирует подсчёт задач по срокам
func TestReminderWorker_Check(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	defer logger.Replace(zap.New(core))()

	due := &fakeDue{buckets: stats.DueBuckets{
		Overdue:  []task.Task{{ID: "a"}, {ID: "b"}},
		DueToday: []task.Task{{ID: "c"}},
	}}
	w := worker.NewReminderWorker(due, enabled(true), nil)

	res, err := w.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, worker.Result{Overdue: 2, DueToday: 1}, res)
	assert.Equal(t, 1, logs.FilterMessage("Worker: Есть задачи, требующие внимания").Len())
}

// TestReminderWorker_Disabled тестирует пропуск при выключенных уведомлениях
func TestReminderWorker_Disabled(t *testing.T) {
	due := &fakeDue{}
	w := worker.NewReminderWorker(due, enabled(false), nil)

	res, err := w.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Zero(t, due.calls)
}

// TestReminderWorker_Errors тестирует проброс ошибок источников
func TestReminderWorker_Errors(t *testing.T) {
	w := worker.NewReminderWorker(&fakeDue{}, fakeSettings{err: errors.New("boom")}, nil)
	_, err := w.Check(context.Background())
	assert.Error(t, err)

	w = worker.NewReminderWorker(&fakeDue{err: errors.New("boom")}, enabled(true), nil)
	_, err = w.Check(context.Background())
	assert.Error(t, err)
}

// TestReminderWorker_Start тестирует остановку по отмене контекста
func TestReminderWorker_Start(t *testing.T) {
	interval := 10 * time.Millisecond
	due := &fakeDue{}
	w := worker.NewReminderWorker(due, enabled(true), &interval)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("воркер не остановился после отмены контекста")
	}
}
