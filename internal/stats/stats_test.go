package stats_test

import (
	"testing"
	"time"

	"taskManager/internal/models/task"
	"taskManager/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func due(s string) task.Date {
	return task.MustParseDate(s)
}

func TestSummarize(t *testing.T) {
	tasks := []task.Task{
		{Completed: true, Priority: task.PriorityHigh, Category: "Work"},
		{Completed: false, Priority: task.PriorityHigh, Category: "Work"},
		{Completed: false, Priority: task.PriorityLow, Category: "Personal"},
		{Completed: true, Priority: "urgent", Category: ""},
	}

	s := stats.Summarize(tasks)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 2, s.Pending)
	assert.Equal(t, map[string]int{"Work": 2, "Personal": 1, "": 1}, s.ByCategory)
	assert.Equal(t, map[task.Priority]int{
		task.PriorityHigh:   2,
		task.PriorityMedium: 0,
		task.PriorityLow:    1,
	}, s.ByPriority)
}

func TestSummarize_Empty(t *testing.T) {
	s := stats.Summarize(nil)

	assert.Zero(t, s.Total)
	assert.Empty(t, s.ByCategory)
	assert.Len(t, s.ByPriority, 3)
}

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0.0, stats.CompletionRate(nil))
	assert.Equal(t, 0.0, stats.CompletionRate([]task.Task{}))

	pending := []task.Task{{}, {}, {}}
	prev := stats.CompletionRate(pending)
	assert.Equal(t, 0.0, prev)

	tasks := pending
	for i := 0; i < 10; i++ {
		tasks = append(tasks, task.Task{Completed: true})
		rate := stats.CompletionRate(tasks)
		assert.GreaterOrEqual(t, rate, prev)
		assert.LessOrEqual(t, rate, 1.0)
		prev = rate
	}

	assert.Equal(t, 1.0, stats.CompletionRate([]task.Task{{Completed: true}}))
	assert.InDelta(t, 0.5, stats.CompletionRate([]task.Task{{Completed: true}, {}}), 1e-9)
}

func TestBucketByDueStatus(t *testing.T) {
	ref := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		{ID: "past", DueDate: due("2025-01-01")},
		{ID: "future", DueDate: due("2099-01-01")},
	}

	b := stats.BucketByDueStatus(tasks, ref)

	require.Len(t, b.Overdue, 1)
	assert.Equal(t, "past", b.Overdue[0].ID)
	require.Len(t, b.Upcoming, 1)
	assert.Equal(t, "future", b.Upcoming[0].ID)
	assert.Empty(t, b.DueToday)
}

func TestBucketByDueStatus_TodayAndCompleted(t *testing.T) {
	ref := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	tasks := []task.Task{
		{ID: "today", DueDate: due("2025-06-01")},
		{ID: "done-past", DueDate: due("2025-01-01"), Completed: true},
		{ID: "done-today", DueDate: due("2025-06-01"), Completed: true},
		{ID: "no-date"},
		{ID: "tomorrow", DueDate: due("2025-06-02")},
		{ID: "yesterday", DueDate: due("2025-05-31")},
	}

	b := stats.BucketByDueStatus(tasks, ref)

	ids := func(tasks []task.Task) []string {
		res := []string{}
		for _, t := range tasks {
			res = append(res, t.ID)
		}
		return res
	}
	assert.Equal(t, []string{"yesterday"}, ids(b.Overdue))
	assert.Equal(t, []string{"today"}, ids(b.DueToday))
	assert.Equal(t, []string{"tomorrow"}, ids(b.Upcoming))
}

// календарный день берётся в таймзоне ref, а не в UTC
func TestBucketByDueStatus_Location(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ref := time.Date(2025, 6, 2, 1, 0, 0, 0, loc) // в UTC ещё 1 июня
	tasks := []task.Task{{ID: "x", DueDate: due("2025-06-01")}}

	b := stats.BucketByDueStatus(tasks, ref)
	assert.Len(t, b.Overdue, 1)
	assert.Empty(t, b.DueToday)
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    stats.Window
		wantErr bool
	}{
		{in: "", want: stats.WindowAll},
		{in: "all", want: stats.WindowAll},
		{in: "thisWeek", want: stats.WindowThisWeek},
		{in: "week", want: stats.WindowThisWeek},
		{in: "thisMonth", want: stats.WindowThisMonth},
		{in: "month", want: stats.WindowThisMonth},
		{in: "year", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := stats.ParseWindow(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWeekday(t *testing.T) {
	d, err := stats.ParseWeekday("Monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d)

	d, err = stats.ParseWeekday("Sun")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, d)

	_, err = stats.ParseWeekday("Funday")
	assert.Error(t, err)
}

func TestRange(t *testing.T) {
	// среда
	ref := time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		window    stats.Window
		weekStart time.Weekday
		first     string
		last      string
	}{
		{name: "week from sunday", window: stats.WindowThisWeek, weekStart: time.Sunday, first: "2025-03-30", last: "2025-04-05"},
		{name: "week from monday", window: stats.WindowThisWeek, weekStart: time.Monday, first: "2025-03-31", last: "2025-04-06"},
		{name: "week starting today", window: stats.WindowThisWeek, weekStart: time.Wednesday, first: "2025-04-02", last: "2025-04-08"},
		{name: "month", window: stats.WindowThisMonth, weekStart: time.Sunday, first: "2025-04-01", last: "2025-04-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last, ok := stats.Range(tt.window, ref, tt.weekStart)
			require.True(t, ok)
			assert.Equal(t, due(tt.first), first)
			assert.Equal(t, due(tt.last), last)
		})
	}

	_, _, ok := stats.Range(stats.WindowAll, ref, time.Sunday)
	assert.False(t, ok)
}

func TestRange_LeapFebruary(t *testing.T) {
	first, last, ok := stats.Range(stats.WindowThisMonth, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), time.Sunday)
	require.True(t, ok)
	assert.Equal(t, due("2024-02-01"), first)
	assert.Equal(t, due("2024-02-29"), last)
}

func TestBucketByTimeWindow(t *testing.T) {
	ref := time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		{ID: "sat-before", DueDate: due("2025-03-29")},
		{ID: "sun", DueDate: due("2025-03-30")},
		{ID: "sat", DueDate: due("2025-04-05")},
		{ID: "end-of-month", DueDate: due("2025-04-30")},
		{ID: "next-month", DueDate: due("2025-05-01")},
		{ID: "no-date"},
	}

	ids := func(tasks []task.Task) []string {
		res := []string{}
		for _, t := range tasks {
			res = append(res, t.ID)
		}
		return res
	}

	assert.Equal(t, []string{"sat-before", "sun", "sat", "end-of-month", "next-month", "no-date"},
		ids(stats.BucketByTimeWindow(tasks, stats.WindowAll, ref, time.Sunday)))
	assert.Equal(t, []string{"sun", "sat"},
		ids(stats.BucketByTimeWindow(tasks, stats.WindowThisWeek, ref, time.Sunday)))
	assert.Equal(t, []string{"sat"},
		ids(stats.BucketByTimeWindow(tasks, stats.WindowThisWeek, ref, time.Monday)))
	assert.Equal(t, []string{"sat", "end-of-month"},
		ids(stats.BucketByTimeWindow(tasks, stats.WindowThisMonth, ref, time.Sunday)))
}

func TestBreakdowns(t *testing.T) {
	tasks := []task.Task{
		{Category: "Work", Priority: task.PriorityHigh},
		{Category: "Health", Priority: task.PriorityHigh},
		{Category: "Work", Priority: task.PriorityLow},
		{Category: "Errands", Priority: task.PriorityHigh},
	}

	assert.Equal(t, []stats.Slice{
		{Name: "Work", Value: 2},
		{Name: "Errands", Value: 1},
		{Name: "Health", Value: 1},
	}, stats.CategoryBreakdown(tasks))

	assert.Equal(t, []stats.Slice{
		{Name: "high", Value: 3},
		{Name: "low", Value: 1},
	}, stats.PriorityBreakdown(tasks))

	assert.Empty(t, stats.CategoryBreakdown(nil))
	assert.Empty(t, stats.PriorityBreakdown(nil))
}

func TestBuildReport(t *testing.T) {
	ref := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		{DueDate: due("2025-04-01"), Priority: task.PriorityHigh, Category: "Work"},
		{DueDate: due("2025-04-02"), Priority: task.PriorityMedium, Category: "Work"},
		{DueDate: due("2025-04-04"), Priority: task.PriorityLow, Category: "Home", Completed: true},
		{DueDate: due("2025-04-20"), Priority: task.PriorityLow, Category: "Home"},
		{DueDate: due("2025-06-20"), Priority: task.PriorityLow, Category: "Home"},
	}

	week := stats.BuildReport(tasks, stats.WindowThisWeek, ref, time.Sunday)
	assert.Equal(t, stats.WindowThisWeek, week.Window)
	assert.Equal(t, 3, week.Summary.Total)
	assert.Equal(t, 1, week.Summary.Completed)
	assert.InDelta(t, 1.0/3.0, week.CompletionRate, 1e-9)
	assert.Equal(t, stats.DueCounts{Overdue: 1, DueToday: 1, Upcoming: 0}, week.Due)
	assert.Equal(t, []stats.Slice{{Name: "Work", Value: 2}, {Name: "Home", Value: 1}}, week.Categories)

	month := stats.BuildReport(tasks, stats.WindowThisMonth, ref, time.Sunday)
	assert.Equal(t, 4, month.Summary.Total)
	assert.Equal(t, stats.DueCounts{Overdue: 1, DueToday: 1, Upcoming: 1}, month.Due)

	all := stats.BuildReport(tasks, stats.WindowAll, ref, time.Sunday)
	assert.Equal(t, 5, all.Summary.Total)
	assert.Equal(t, stats.DueCounts{Overdue: 1, DueToday: 1, Upcoming: 2}, all.Due)
}
