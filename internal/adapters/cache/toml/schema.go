package toml

import (
	"fmt"
	"time"

	"github.com/trak-cli/trak/internal/domain"
)

const currentSchemaVersion = 1

// slotSchema is the on-disk shape of the single cached timer. Pause
// bookkeeping is persisted too, so a reload while paused restores as paused
// instead of silently counting the gap as billable time.
type slotSchema struct {
	Version           int    `toml:"version"`
	UserID            string `toml:"user_id"`
	ProjectID         string `toml:"project_id"`
	TaskID            string `toml:"task_id"`
	StartTime         string `toml:"start_time"`
	Description       string `toml:"description,omitempty"`
	IsPaused          bool   `toml:"is_paused,omitempty"`
	PausedAt          string `toml:"paused_at,omitempty"`
	TotalPausedMillis int64  `toml:"total_paused_ms,omitempty"`
}

func (s slotSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported timer cache version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

func (s slotSchema) toDomain() (domain.ActiveTimer, error) {
	startTime, err := time.Parse(time.RFC3339Nano, s.StartTime)
	if err != nil {
		return domain.ActiveTimer{}, fmt.Errorf("parse cached start time: %w", err)
	}

	timer := domain.ActiveTimer{
		UserID:      domain.ObjectID(s.UserID),
		ProjectID:   domain.ObjectID(s.ProjectID),
		TaskID:      domain.ObjectID(s.TaskID),
		StartTime:   startTime,
		Description: s.Description,
		IsPaused:    s.IsPaused,
		TotalPaused: time.Duration(s.TotalPausedMillis) * time.Millisecond,
	}
	if s.PausedAt != "" {
		pausedAt, err := time.Parse(time.RFC3339Nano, s.PausedAt)
		if err != nil {
			return domain.ActiveTimer{}, fmt.Errorf("parse cached pause time: %w", err)
		}
		timer.PausedAt = pausedAt
	}

	return timer, nil
}

func fromDomain(timer domain.ActiveTimer) slotSchema {
	s := slotSchema{
		Version:           currentSchemaVersion,
		UserID:            string(timer.UserID),
		ProjectID:         string(timer.ProjectID),
		TaskID:            string(timer.TaskID),
		StartTime:         timer.StartTime.UTC().Format(time.RFC3339Nano),
		Description:       timer.Description,
		IsPaused:          timer.IsPaused,
		TotalPausedMillis: timer.TotalPaused.Milliseconds(),
	}
	if !timer.PausedAt.IsZero() {
		s.PausedAt = timer.PausedAt.UTC().Format(time.RFC3339Nano)
	}

	return s
}
