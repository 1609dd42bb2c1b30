package ports

import (
	"context"
	"time"

	"github.com/trak-cli/trak/internal/domain"
)

// TimerRemote is the backend timer API. It is the source of truth for timer
// state and persisted entries; implementations are expected to be slow and
// to fail.
type TimerRemote interface {
	// Start opens a timer. Fails if one is already running for the user.
	Start(ctx context.Context, user, project, task domain.ObjectID) (domain.TimerRecord, error)

	// Stop closes the running timer and returns the closed record.
	// Stopping when nothing runs returns domain.ErrNoActiveTimer.
	Stop(ctx context.Context, user, project, task domain.ObjectID, description string) (domain.TimerRecord, error)

	// Pause suspends the running timer and returns the server pause time.
	Pause(ctx context.Context, user, project, task domain.ObjectID) (time.Time, error)

	// Resume restarts a paused timer and returns the accumulated pause
	// duration across all cycles of this run.
	Resume(ctx context.Context, user, project, task domain.ObjectID) (time.Duration, error)

	// LogManual records a completed entry with no live timer involved.
	LogManual(ctx context.Context, log domain.ManualLog) (domain.TimerRecord, error)

	// ListForUser returns the user's timer records, newest first. At most
	// one record is open.
	ListForUser(ctx context.Context, user domain.ObjectID) ([]domain.TimerRecord, error)

	// UpdateEntry applies entry-level edits.
	UpdateEntry(ctx context.Context, id domain.ObjectID, patch domain.EntryPatch) (domain.TimerRecord, error)

	// DeleteEntry removes an entry.
	DeleteEntry(ctx context.Context, id domain.ObjectID) error
}
