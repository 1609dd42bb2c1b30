package domain

import "errors"

var (
	ErrTimerAlreadyRunning = errors.New("a timer is already running")
	ErrNoActiveTimer       = errors.New("no active timer")
	ErrTimerNotPaused      = errors.New("timer is not paused")
	ErrTimerPaused         = errors.New("timer is already paused")
	ErrMissingTarget       = errors.New("project and task are required")
	ErrMissingStartTime    = errors.New("timer start time is missing")
	ErrInvalidID           = errors.New("invalid identifier")
	ErrEndBeforeStart      = errors.New("end time must be after start time")
	ErrEntryNotFound       = errors.New("time entry not found")
	ErrCacheMiss           = errors.New("no cached timer")
	ErrTokenNotFound       = errors.New("api token not found")
)
