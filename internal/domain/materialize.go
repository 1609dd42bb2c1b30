package domain

import (
	"math"
	"time"
)

// ErrNegativeDuration flags a closed timer whose computed duration came out
// below zero. The entry is still produced, clamped to zero, so a stop is
// never lost to bad clock data.
var ErrNegativeDuration = negativeDurationError{}

type negativeDurationError struct{}

func (negativeDurationError) Error() string { return "computed duration is negative" }

// MaterializeEntry converts a closed timer record into a TimeEntry. The
// duration is derived from the record's own timestamps, rounded to whole
// minutes, with accumulated pause time subtracted. When the backend already
// carries an explicit duration (manual edits go through the update endpoint)
// that value wins.
//
// The returned error is ErrNegativeDuration when the clamp fired or the
// record is still open; the entry is valid either way.
func MaterializeEntry(rec TimerRecord) (TimeEntry, error) {
	entry := TimeEntry{
		ID:          rec.ID,
		UserID:      rec.UserID,
		ProjectID:   rec.ProjectID,
		TaskID:      rec.TaskID,
		Date:        day(rec.StartTime),
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt,
	}

	if rec.Minutes > 0 {
		entry.Minutes = rec.Minutes
		return entry, nil
	}

	if rec.EndTime == nil {
		return entry, ErrNegativeDuration
	}

	minutes, clamped := durationMinutes(rec.StartTime, *rec.EndTime, rec.TotalPaused)
	entry.Minutes = minutes
	if clamped {
		return entry, ErrNegativeDuration
	}

	return entry, nil
}

// MaterializeManual derives the entry for a manual log before it is sent,
// so callers can preview the duration the backend will persist.
func MaterializeManual(log ManualLog) (TimeEntry, error) {
	if err := log.Validate(); err != nil {
		return TimeEntry{}, err
	}

	minutes, _ := durationMinutes(log.StartTime, log.EndTime, 0)

	return TimeEntry{
		UserID:      log.UserID,
		ProjectID:   log.ProjectID,
		TaskID:      log.TaskID,
		Date:        day(log.StartTime),
		Minutes:     minutes,
		Description: log.Description,
	}, nil
}

func durationMinutes(start, end time.Time, paused time.Duration) (int, bool) {
	billable := end.Sub(start) - paused
	minutes := int(math.Round(billable.Minutes()))
	if minutes < 0 {
		return 0, true
	}

	return minutes, false
}

func day(t time.Time) time.Time {
	year, month, d := t.UTC().Date()
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
