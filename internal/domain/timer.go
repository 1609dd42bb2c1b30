package domain

import (
	"strings"
	"time"
)

// DefaultDescription is used when a timer is started without a label.
const DefaultDescription = "Timer session"

type TimerState string

const (
	TimerIdle    TimerState = "idle"
	TimerRunning TimerState = "running"
	TimerPaused  TimerState = "paused"
)

// ActiveTimer is the single in-flight timer for a user. StartTime is the
// server-assigned timestamp, never the local clock.
type ActiveTimer struct {
	UserID      ObjectID
	ProjectID   ObjectID
	TaskID      ObjectID
	StartTime   time.Time
	Description string
	IsPaused    bool
	PausedAt    time.Time
	TotalPaused time.Duration
}

func (t ActiveTimer) Validate() error {
	if err := t.UserID.Validate(); err != nil {
		return err
	}
	if err := t.ProjectID.Validate(); err != nil {
		return err
	}
	if err := t.TaskID.Validate(); err != nil {
		return err
	}
	if t.StartTime.IsZero() {
		return ErrMissingStartTime
	}

	return nil
}

// Elapsed is the billable wall-clock time at now, excluding completed pause
// cycles and, while paused, the current one. Display only.
func (t ActiveTimer) Elapsed(now time.Time) time.Duration {
	if t.StartTime.IsZero() {
		return 0
	}

	elapsed := now.Sub(t.StartTime) - t.TotalPaused
	if t.IsPaused && !t.PausedAt.IsZero() {
		elapsed -= now.Sub(t.PausedAt)
	}
	if elapsed < 0 {
		return 0
	}

	return elapsed
}

func (t ActiveTimer) Label() string {
	if strings.TrimSpace(t.Description) == "" {
		return DefaultDescription
	}

	return t.Description
}

// State reports how the timer should be restored: a paused timer must not
// keep accumulating displayed time across reloads.
func (t ActiveTimer) State() TimerState {
	if t.StartTime.IsZero() {
		return TimerIdle
	}
	if t.IsPaused {
		return TimerPaused
	}

	return TimerRunning
}
