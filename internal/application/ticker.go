package application

import (
	"context"
	"sync"
	"time"
)

const defaultTickInterval = time.Second

// Ticker periodically recomputes elapsed time from a fixed start timestamp
// and hands it to a callback. It exists for display only; nothing it produces
// is ever persisted. At most one tick loop is alive per Ticker: starting a
// new one cancels the previous loop first.
type Ticker struct {
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = defaultTickInterval
	}

	return &Ticker{interval: interval}
}

// Start begins ticking. onTick receives the elapsed duration computed by
// elapsedAt on every interval, and once immediately so displays do not wait
// a full interval for their first value.
func (t *Ticker) Start(ctx context.Context, elapsedAt func(now time.Time) time.Duration, onTick func(elapsed time.Duration)) {
	t.Stop()

	tickCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	t.mu.Lock()
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	go func() {
		defer close(done)

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		onTick(elapsedAt(time.Now()))
		for {
			select {
			case <-tickCtx.Done():
				return
			case now := <-ticker.C:
				onTick(elapsedAt(now))
			}
		}
	}()
}

// Stop cancels the running loop and waits for its final tick to finish, so a
// stale tick can never overwrite state the caller clears right after Stop
// returns.
func (t *Ticker) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	done := t.done
	t.cancel = nil
	t.done = nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
