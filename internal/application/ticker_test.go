package application

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerFiresImmediatelyAndPeriodically(t *testing.T) {
	t.Parallel()

	ticker := NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	start := time.Now()
	var ticks atomic.Int32
	var lastElapsed atomic.Int64

	ticker.Start(context.Background(),
		func(now time.Time) time.Duration { return now.Sub(start) },
		func(elapsed time.Duration) {
			ticks.Add(1)
			lastElapsed.Store(int64(elapsed))
		},
	)

	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, lastElapsed.Load(), int64(0))
}

func TestTickerStopPreventsFurtherTicks(t *testing.T) {
	t.Parallel()

	ticker := NewTicker(5 * time.Millisecond)

	var ticks atomic.Int32
	ticker.Start(context.Background(),
		func(time.Time) time.Duration { return 0 },
		func(time.Duration) { ticks.Add(1) },
	)

	require.Eventually(t, func() bool { return ticks.Load() >= 1 }, time.Second, time.Millisecond)
	ticker.Stop()

	// Stop waits for the loop to finish, so the count is final when it
	// returns.
	final := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, final, ticks.Load())
}

func TestTickerStartCancelsPreviousLoop(t *testing.T) {
	t.Parallel()

	ticker := NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	var firstLoop, secondLoop atomic.Int32
	ticker.Start(context.Background(),
		func(time.Time) time.Duration { return 0 },
		func(time.Duration) { firstLoop.Add(1) },
	)
	require.Eventually(t, func() bool { return firstLoop.Load() >= 1 }, time.Second, time.Millisecond)

	ticker.Start(context.Background(),
		func(time.Time) time.Duration { return 0 },
		func(time.Duration) { secondLoop.Add(1) },
	)

	frozen := firstLoop.Load()
	require.Eventually(t, func() bool { return secondLoop.Load() >= 2 }, time.Second, time.Millisecond)
	assert.Equal(t, frozen, firstLoop.Load())
}

func TestTickerStopWithoutStartIsSafe(t *testing.T) {
	t.Parallel()

	ticker := NewTicker(time.Second)
	ticker.Stop()
	ticker.Stop()
}

func TestTickerHonorsParentContext(t *testing.T) {
	t.Parallel()

	ticker := NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())

	var ticks atomic.Int32
	ticker.Start(ctx,
		func(time.Time) time.Duration { return 0 },
		func(time.Duration) { ticks.Add(1) },
	)

	require.Eventually(t, func() bool { return ticks.Load() >= 1 }, time.Second, time.Millisecond)
	cancel()

	time.Sleep(20 * time.Millisecond)
	frozen := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, frozen, ticks.Load())
}
