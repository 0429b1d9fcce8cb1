package sheep

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	failCooldown = 5 * time.Minute
	// fireGuard keeps a successful run from double-firing when the wake
	// time and wall clock land on the same minute.
	fireGuard = 60 * time.Second
)

// NextRunAt returns the next wall-clock instant at hour:minute strictly
// after now: today if that time has not passed yet, otherwise tomorrow.
func NextRunAt(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// dailyLoop runs check once per day at a configured time. A failed check
// logs and cools down for a fixed interval instead of killing the loop;
// only cancellation stops it.
type dailyLoop struct {
	log     *slog.Logger
	nextRun func(now time.Time) time.Time
	check   func(ctx context.Context) error

	cooldown time.Duration
	guard    time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func newDailyLoop(log *slog.Logger, nextRun func(time.Time) time.Time, check func(context.Context) error) *dailyLoop {
	return &dailyLoop{
		log:      log,
		nextRun:  nextRun,
		check:    check,
		cooldown: failCooldown,
		guard:    fireGuard,
	}
}

// Start launches the loop goroutine. Idempotent: a second call while the
// loop is running does nothing.
func (l *dailyLoop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}
	rctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done
	go func() {
		defer close(done)
		l.run(rctx)
	}()
}

// Stop cancels the loop and waits for it to exit, bounded by ctx. Safe to
// call when the loop never started or already finished.
func (l *dailyLoop) Stop(ctx context.Context) error {
	l.mu.Lock()
	cancel := l.cancel
	done := l.done
	l.cancel = nil
	l.done = nil
	l.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *dailyLoop) run(ctx context.Context) {
	for {
		now := time.Now()
		next := l.nextRun(now)
		wait := time.Until(next)
		if wait < 0 {
			wait = 0
		}
		l.log.Debug("daily check scheduled",
			slog.Time("next_run", next),
			slog.Duration("sleep", wait.Round(time.Second)))

		if !sleepCtx(ctx, wait) {
			return
		}

		if err := l.check(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			l.log.Warn("daily check failed, cooling down",
				slog.Any("err", err),
				slog.Duration("cooldown", l.cooldown))
			if !sleepCtx(ctx, l.cooldown) {
				return
			}
			continue
		}

		if !sleepCtx(ctx, l.guard) {
			return
		}
	}
}

// sleepCtx waits for d or cancellation. Returns false when ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
