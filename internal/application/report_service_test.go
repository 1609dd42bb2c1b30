package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trak-cli/trak/internal/domain"
)

const (
	otherProject = domain.ObjectID("aaaa02c3d4e5f60718293a4c")
	otherTask    = domain.ObjectID("bbbb02c3d4e5f60718293a4d")
)

func TestTotalsGroupsByProjectAndTask(t *testing.T) {
	t.Parallel()

	other := closedRecord(baseTime.Add(2*time.Hour), 45*time.Minute, 0)
	other.ProjectID = otherProject
	other.TaskID = otherTask

	second := closedRecord(baseTime.Add(4*time.Hour), 30*time.Minute, 0)

	remote := &fakeRemote{
		listFn: func(_ context.Context, _ domain.ObjectID) ([]domain.TimerRecord, error) {
			return []domain.TimerRecord{
				closedRecord(baseTime, 60*time.Minute, 0),
				other,
				second,
			}, nil
		},
	}
	svc := NewReportService(remote, fixedClock{now: baseTime.Add(6 * time.Hour)})

	report, err := svc.Totals(context.Background(), testUser, time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 135, report.TotalMinutes)
	assert.Equal(t, 3, report.EntryCount)

	require.Len(t, report.Projects, 2)
	assert.Equal(t, testProject, report.Projects[0].ID)
	assert.Equal(t, 90, report.Projects[0].Minutes)
	assert.Equal(t, 2, report.Projects[0].Entries)
	assert.Equal(t, otherProject, report.Projects[1].ID)
	assert.Equal(t, 45, report.Projects[1].Minutes)

	require.Len(t, report.Tasks, 2)
	assert.Equal(t, testTask, report.Tasks[0].ID)
	assert.Equal(t, 90, report.Tasks[0].Minutes)
}

func TestTotalsFiltersByDateRange(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{
		listFn: func(_ context.Context, _ domain.ObjectID) ([]domain.TimerRecord, error) {
			return []domain.TimerRecord{
				closedRecord(baseTime.Add(-72*time.Hour), 60*time.Minute, 0),
				closedRecord(baseTime, 30*time.Minute, 0),
				closedRecord(baseTime.Add(72*time.Hour), 15*time.Minute, 0),
			}, nil
		},
	}
	svc := NewReportService(remote, fixedClock{now: baseTime})

	report, err := svc.Totals(context.Background(), testUser, baseTime.Add(-24*time.Hour), baseTime.Add(24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 30, report.TotalMinutes)
}

func TestTotalsSkipsOpenRecords(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{
		listFn: func(_ context.Context, _ domain.ObjectID) ([]domain.TimerRecord, error) {
			return []domain.TimerRecord{
				openRecord(baseTime),
				closedRecord(baseTime.Add(-time.Hour), 20*time.Minute, 0),
			}, nil
		},
	}
	svc := NewReportService(remote, fixedClock{now: baseTime})

	report, err := svc.Totals(context.Background(), testUser, time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 20, report.TotalMinutes)
}

func TestTotalsCountsZeroMinuteEntries(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{
		listFn: func(_ context.Context, _ domain.ObjectID) ([]domain.TimerRecord, error) {
			return []domain.TimerRecord{closedRecord(baseTime, 5*time.Minute, time.Hour)}, nil
		},
	}
	svc := NewReportService(remote, fixedClock{now: baseTime})

	report, err := svc.Totals(context.Background(), testUser, time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 0, report.TotalMinutes)
	assert.Equal(t, 1, report.EntryCount)
	require.Len(t, report.Projects, 1)
	assert.Equal(t, 1, report.Projects[0].Entries)
}

func TestTotalsRejectsInvertedRange(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{}
	svc := NewReportService(remote, fixedClock{now: baseTime})

	_, err := svc.Totals(context.Background(), testUser, baseTime, baseTime.Add(-48*time.Hour))
	assert.ErrorIs(t, err, domain.ErrEndBeforeStart)

	_, _, lists := remote.counts()
	assert.Zero(t, lists)
}

func TestTotalsRejectsInvalidUser(t *testing.T) {
	t.Parallel()

	svc := NewReportService(&fakeRemote{}, fixedClock{now: baseTime})

	_, err := svc.Totals(context.Background(), "not-an-id", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestExportCSVWritesHeaderAndRows(t *testing.T) {
	t.Parallel()

	record := closedRecord(baseTime, 90*time.Minute, 10*time.Minute)
	record.Description = "sprint review"

	remote := &fakeRemote{
		listFn: func(_ context.Context, _ domain.ObjectID) ([]domain.TimerRecord, error) {
			return []domain.TimerRecord{record}, nil
		},
	}
	svc := NewReportService(remote, fixedClock{now: baseTime})

	var buf strings.Builder
	require.NoError(t, svc.ExportCSV(context.Background(), &buf, testUser, time.Time{}, time.Time{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "date,project,task,minutes,description", lines[0])
	assert.Equal(t,
		"2026-03-02,"+string(testProject)+","+string(testTask)+",80,sprint review",
		lines[1])
}

func TestExportCSVDefaultsDescription(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{
		listFn: func(_ context.Context, _ domain.ObjectID) ([]domain.TimerRecord, error) {
			return []domain.TimerRecord{closedRecord(baseTime, 15*time.Minute, 0)}, nil
		},
	}
	svc := NewReportService(remote, fixedClock{now: baseTime})

	var buf strings.Builder
	require.NoError(t, svc.ExportCSV(context.Background(), &buf, testUser, time.Time{}, time.Time{}))

	assert.Contains(t, buf.String(), domain.DefaultDescription)
}
