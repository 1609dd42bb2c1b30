package timerview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trak-cli/trak/internal/application"
	"github.com/trak-cli/trak/internal/domain"
)

var (
	viewProject = domain.ObjectID("64f1b2c3d4e5f60718293a4c")
	viewTask    = domain.ObjectID("64f1b2c3d4e5f60718293a4d")
)

func TestRenderStatusRunning(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

	output, err := RenderStatus(application.TimerStatus{
		State: domain.TimerRunning,
		Timer: domain.ActiveTimer{
			ProjectID:   viewProject,
			TaskID:      viewTask,
			StartTime:   now.Add(-90 * time.Minute),
			Description: "api integration",
		},
		Elapsed: 90 * time.Minute,
	}, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "running")
	assert.Contains(t, output, "api integration")
	assert.Contains(t, output, "01:30:00")
	assert.Contains(t, output, "started 09:00 on 02 Mar")
	assert.NotContains(t, output, "unreachable")
}

func TestRenderStatusPaused(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	output, err := RenderStatus(application.TimerStatus{
		State: domain.TimerPaused,
		Timer: domain.ActiveTimer{
			ProjectID: viewProject,
			TaskID:    viewTask,
			StartTime: now.Add(-time.Hour),
			IsPaused:  true,
			PausedAt:  now.Add(-10 * time.Minute),
		},
		Elapsed: 50 * time.Minute,
	}, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "paused")
	assert.Contains(t, output, "00:50:00")
	assert.Contains(t, output, "paused since 09:50")
	assert.Contains(t, output, domain.DefaultDescription)
}

func TestRenderStatusIdle(t *testing.T) {
	output, err := RenderStatus(application.TimerStatus{State: domain.TimerIdle}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "No timer running.")
}

func TestRenderStatusDegraded(t *testing.T) {
	output, err := RenderStatus(application.TimerStatus{State: domain.TimerIdle}, RenderOptions{Degraded: true})

	require.NoError(t, err)
	assert.Contains(t, output, "backend unreachable")
}

func TestRenderEntries(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	output, err := RenderEntries([]domain.TimeEntry{
		{
			ID:          "64f1b2c3d4e5f60718293a4e",
			ProjectID:   viewProject,
			TaskID:      viewTask,
			Date:        date,
			Minutes:     80,
			Description: "sprint review",
		},
		{
			ID:        "64f1b2c3d4e5f60718293a4f",
			ProjectID: viewProject,
			TaskID:    viewTask,
			Date:      date.Add(-24 * time.Hour),
			Minutes:   45,
		},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "entries: 2")
	assert.Contains(t, output, "2026-03-02")
	assert.Contains(t, output, "1h 20m")
	assert.Contains(t, output, "sprint review")
	assert.Contains(t, output, "45m")
	assert.Contains(t, output, domain.DefaultDescription)
}

func TestRenderEntriesEmpty(t *testing.T) {
	output, err := RenderEntries(nil, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "entries: 0")
	assert.Contains(t, output, "No entries recorded.")
}

func TestRenderReport(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

	output, err := RenderReport(application.Report{
		From:         from,
		To:           to,
		EntryCount:   3,
		TotalMinutes: 135,
		Projects: []application.GroupTotal{
			{ID: viewProject, Minutes: 90, Entries: 2},
			{ID: "aaaa02c3d4e5f60718293a4c", Minutes: 45, Entries: 1},
		},
		Tasks: []application.GroupTotal{
			{ID: viewTask, Minutes: 135, Entries: 3},
		},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "2026-03-01 to 2026-03-07")
	assert.Contains(t, output, "2h 15m")
	assert.Contains(t, output, "By project")
	assert.Contains(t, output, "By task")
	assert.Contains(t, output, "(2 entries)")
	assert.Contains(t, output, "[")
	assert.Contains(t, output, "]")
}

func TestRenderReportEmptyRange(t *testing.T) {
	output, err := RenderReport(application.Report{}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "all time")
	assert.Contains(t, output, "No tracked time in range.")
}

func TestRenderReportShowsZeroMinuteEntries(t *testing.T) {
	// Entries whose duration clamped to zero are still entries; the range
	// is not empty.
	output, err := RenderReport(application.Report{
		EntryCount:   1,
		TotalMinutes: 0,
		Projects:     []application.GroupTotal{{ID: viewProject, Minutes: 0, Entries: 1}},
		Tasks:        []application.GroupTotal{{ID: viewTask, Minutes: 0, Entries: 1}},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.NotContains(t, output, "No tracked time in range.")
	assert.Contains(t, output, "(1 entries)")
	assert.Contains(t, output, "0m")
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatElapsed(0))
	assert.Equal(t, "00:00:59", FormatElapsed(59*time.Second))
	assert.Equal(t, "02:05:09", FormatElapsed(2*time.Hour+5*time.Minute+9*time.Second))
	assert.Equal(t, "00:00:00", FormatElapsed(-time.Minute))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "2h", FormatMinutes(120))
	assert.Equal(t, "1h 20m", FormatMinutes(80))
	assert.Equal(t, "0m", FormatMinutes(-5))
}
