package sheep

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func TestNextRunAt(t *testing.T) {
	t.Parallel()
	loc := time.Local
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, loc)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "before push time runs today",
			now:  day.Add(7*time.Hour + 30*time.Minute),
			want: day.Add(8 * time.Hour),
		},
		{
			name: "after push time runs tomorrow",
			now:  day.Add(8*time.Hour + 30*time.Minute),
			want: day.AddDate(0, 0, 1).Add(8 * time.Hour),
		},
		{
			name: "exactly at push time runs tomorrow",
			now:  day.Add(8 * time.Hour),
			want: day.AddDate(0, 0, 1).Add(8 * time.Hour),
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := NextRunAt(tt.now, 8, 0)
			if !got.Equal(tt.want) {
				t.Fatalf("NextRunAt = %v, want %v", got, tt.want)
			}
			// idempotent for unchanged now
			if again := NextRunAt(tt.now, 8, 0); !again.Equal(got) {
				t.Fatalf("repeat call = %v, want %v", again, got)
			}
		})
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoopCancelDuringSleepSkipsCheck(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	l := newDailyLoop(testLogger(),
		func(now time.Time) time.Time { return now.Add(time.Hour) },
		func(ctx context.Context) error {
			calls.Add(1)
			return nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	l.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()

	sctx, scancel := context.WithTimeout(context.Background(), time.Second)
	defer scancel()
	if err := l.Stop(sctx); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if n := calls.Load(); n != 0 {
		t.Fatalf("check ran %d times, want 0", n)
	}
}

func TestLoopSurvivesCheckFailure(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	l := newDailyLoop(testLogger(),
		func(now time.Time) time.Time { return now.Add(5 * time.Millisecond) },
		func(ctx context.Context) error {
			calls.Add(1)
			return errors.New("simulated fetch failure")
		})
	l.cooldown = 10 * time.Millisecond
	l.guard = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	sctx, scancel := context.WithTimeout(context.Background(), time.Second)
	defer scancel()
	if err := l.Stop(sctx); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if n := calls.Load(); n < 2 {
		t.Fatalf("check ran %d times, want >= 2 (loop must outlive failures)", n)
	}
}

func TestLoopStartIdempotent(t *testing.T) {
	t.Parallel()
	l := newDailyLoop(testLogger(),
		func(now time.Time) time.Time { return now.Add(time.Hour) },
		func(ctx context.Context) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.Start(ctx)
	first := l.done
	l.Start(ctx)
	if l.done != first {
		t.Fatal("second Start replaced the running loop")
	}

	sctx, scancel := context.WithTimeout(context.Background(), time.Second)
	defer scancel()
	if err := l.Stop(sctx); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	// Stop after the loop is gone is a no-op
	if err := l.Stop(sctx); err != nil {
		t.Fatalf("second Stop error: %v", err)
	}
}
