// Package ratelimiter throttles calls to rate-limited external APIs.
package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded(ctx context.Context) error
}

// RateLimiterは、固定ウィンドウ方式でAPI呼び出しなどの操作の頻度を制限します。
// 複数のゴルーチンから同時に使用できます。待機中はロックを保持しません。
type RateLimiter struct {
	mu        sync.Mutex
	limit     int           // ウィンドウあたりの上限
	interval  time.Duration // どの単位でリセットするか
	count     int
	lastReset time.Time // 現在のウィンドウの開始時刻（予約済みの場合は未来）

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
// limit が0以下の場合は制限しません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// WaitIfNeededはレートリミットの上限に達しているかを確認し、必要であれば次のウィンドウまで待機します。
// 待機中に ctx がキャンセルされた場合は ctx.Err() を返します。
func (rl *RateLimiter) WaitIfNeeded(ctx context.Context) error {
	if rl.limit <= 0 {
		return nil
	}

	wait := rl.reserve()
	if wait <= 0 {
		return nil
	}
	slog.Info("rate limit reached, waiting", "limit", rl.limit, "wait", wait)
	return rl.sleep(ctx, wait)
}

// reserve は呼び出し元の枠を確保し、その枠のウィンドウが始まるまでの待ち時間を返します。
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	if rl.count >= rl.limit {
		// 次のウィンドウの先頭を予約
		rl.lastReset = rl.lastReset.Add(rl.interval)
		rl.count = 0
	}
	rl.count++
	return rl.lastReset.Sub(now)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
