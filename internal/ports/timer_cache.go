package ports

import (
	"context"

	"github.com/trak-cli/trak/internal/domain"
)

// TimerCache is a durable single-slot store holding at most one active timer.
// It is a crash-recovery hint, never an authority: reconciliation overwrites
// or clears it from remote truth. Read returns domain.ErrCacheMiss when the
// slot is empty.
type TimerCache interface {
	Read(ctx context.Context) (domain.ActiveTimer, error)
	Write(ctx context.Context, timer domain.ActiveTimer) error
	Clear(ctx context.Context) error
}
