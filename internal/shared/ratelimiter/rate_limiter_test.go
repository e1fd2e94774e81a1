package ratelimiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when sleep is called.
type fakeClock struct {
	t     time.Time
	slept []time.Duration
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	c.t = c.t.Add(d)
	return nil
}

func newFakeLimiter(limit int, interval time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limit, interval)
	rl.now = clock.now
	rl.sleep = clock.sleep
	rl.lastReset = clock.t
	return rl, clock
}

func TestRateLimiter_WaitIfNeeded(t *testing.T) {
	ctx := context.Background()

	t.Run("success: no wait below the limit", func(t *testing.T) {
		rl, clock := newFakeLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			require.NoError(t, rl.WaitIfNeeded(ctx))
		}
		assert.Empty(t, clock.slept)
	})

	t.Run("success: waits for the rest of the window", func(t *testing.T) {
		rl, clock := newFakeLimiter(2, time.Minute)

		require.NoError(t, rl.WaitIfNeeded(ctx))
		clock.t = clock.t.Add(20 * time.Second)
		require.NoError(t, rl.WaitIfNeeded(ctx))
		require.NoError(t, rl.WaitIfNeeded(ctx))

		assert.Equal(t, []time.Duration{40 * time.Second}, clock.slept)
		assert.Equal(t, 1, rl.count)
	})

	t.Run("success: window resets after interval", func(t *testing.T) {
		rl, clock := newFakeLimiter(1, time.Minute)

		require.NoError(t, rl.WaitIfNeeded(ctx))
		clock.t = clock.t.Add(time.Minute)
		require.NoError(t, rl.WaitIfNeeded(ctx))

		assert.Empty(t, clock.slept)
	})

	t.Run("success: non-positive limit disables throttling", func(t *testing.T) {
		rl, clock := newFakeLimiter(0, time.Minute)

		for i := 0; i < 10; i++ {
			require.NoError(t, rl.WaitIfNeeded(ctx))
		}
		assert.Empty(t, clock.slept)
	})

	t.Run("success: waiting callers reserve successive windows", func(t *testing.T) {
		rl, clock := newFakeLimiter(1, time.Minute)
		var waits []time.Duration
		rl.sleep = func(ctx context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		}

		for i := 0; i < 3; i++ {
			require.NoError(t, rl.WaitIfNeeded(ctx))
		}

		assert.Equal(t, []time.Duration{time.Minute, 2 * time.Minute}, waits)
		assert.True(t, rl.lastReset.Equal(clock.t.Add(2*time.Minute)))
	})
}

func TestRateLimiter_WaitIfNeeded_Canceled(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, time.Hour)
	require.NoError(t, rl.WaitIfNeeded(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := rl.WaitIfNeeded(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRateLimiter_WaitIfNeeded_DoesNotHoldLockWhileWaiting(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, time.Hour)
	require.NoError(t, rl.WaitIfNeeded(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = rl.WaitIfNeeded(ctx)
		}(i)
	}

	// 両方のゴルーチンが枠を予約するまで待つ
	require.Eventually(t, func() bool {
		rl.mu.Lock()
		defer rl.mu.Unlock()
		return rl.lastReset.Sub(time.Now()) > time.Hour
	}, 5*time.Second, 5*time.Millisecond)

	cancel()
	wg.Wait()
	for _, err := range errs {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
