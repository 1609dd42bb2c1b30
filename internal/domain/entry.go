package domain

import (
	"strings"
	"time"
)

// TimeEntry is a completed, durable record of time spent. It is owned by the
// backend; this client only creates, reads, updates and deletes entries
// through the timer API.
type TimeEntry struct {
	ID          ObjectID
	UserID      ObjectID
	ProjectID   ObjectID
	TaskID      ObjectID
	Date        time.Time
	Minutes     int
	Description string
	CreatedAt   time.Time
}

// TimerRecord is the wire-level timer document the backend returns. A record
// without an EndTime is the user's running timer; closed records back
// time entries.
type TimerRecord struct {
	ID          ObjectID
	UserID      ObjectID
	ProjectID   ObjectID
	TaskID      ObjectID
	StartTime   time.Time
	EndTime     *time.Time
	Description string
	IsPaused    bool
	PausedAt    time.Time
	TotalPaused time.Duration
	Minutes     int
	CreatedAt   time.Time
}

func (r TimerRecord) Open() bool {
	return r.EndTime == nil
}

// ActiveTimer converts an open record into the in-memory timer shape used for
// display and caching.
func (r TimerRecord) ActiveTimer() ActiveTimer {
	return ActiveTimer{
		UserID:      r.UserID,
		ProjectID:   r.ProjectID,
		TaskID:      r.TaskID,
		StartTime:   r.StartTime,
		Description: r.Description,
		IsPaused:    r.IsPaused,
		PausedAt:    r.PausedAt,
		TotalPaused: r.TotalPaused,
	}
}

// ManualLog is a request to record a completed entry with no live timer.
type ManualLog struct {
	UserID      ObjectID
	ProjectID   ObjectID
	TaskID      ObjectID
	StartTime   time.Time
	EndTime     time.Time
	Description string
}

func (l ManualLog) Validate() error {
	if err := l.UserID.Validate(); err != nil {
		return err
	}
	if err := l.ProjectID.Validate(); err != nil {
		return err
	}
	if err := l.TaskID.Validate(); err != nil {
		return err
	}
	if l.StartTime.IsZero() || l.EndTime.IsZero() {
		return ErrMissingStartTime
	}
	if !l.EndTime.After(l.StartTime) {
		return ErrEndBeforeStart
	}

	return nil
}

// EntryPatch carries entry-level edits. Nil fields are left untouched.
type EntryPatch struct {
	Minutes     *int
	Date        *time.Time
	Description *string
}

func (p EntryPatch) Empty() bool {
	return p.Minutes == nil && p.Date == nil && p.Description == nil
}

func (e TimeEntry) Label() string {
	if strings.TrimSpace(e.Description) == "" {
		return DefaultDescription
	}

	return e.Description
}
