package core

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

// HandlerFunc is the unit the command pipeline executes.
type HandlerFunc func(ctx context.Context, req *Request) error

// Middleware wraps a handler with cross-cutting behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares around h so that m[0] is outermost.
func Chain(h HandlerFunc, m ...Middleware) HandlerFunc {
	wrapped := h
	for i := len(m) - 1; i >= 0; i-- {
		wrapped = m[i](wrapped)
	}
	return wrapped
}

// MWTimeout bounds handler execution; d <= 0 disables the bound.
func MWTimeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		if d <= 0 {
			return next
		}
		return func(ctx context.Context, req *Request) error {
			tctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(tctx, req)
		}
	}
}

// MWPanicRecover converts a handler panic into an error so one bad
// command cannot bring down the worker pool.
func MWPanicRecover(log *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				reqLogger(log, req).Error("panic recovered",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
				)
				err = fmt.Errorf("panic: %v", r)
			}()
			return next(ctx, req)
		}
	}
}

// MWRequestLog records one line per handled request with timing.
func MWRequestLog(log *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) error {
			start := time.Now()
			err := next(ctx, req)

			attrs := []any{
				slog.String("kind", string(req.Update.Kind)),
				slog.Int64("chat_id", req.Chat.ChatID),
				slog.Int("thread_id", req.Chat.ThreadID),
				slog.Int64("from_id", req.FromID),
				slog.String("cmd", req.Command),
				slog.Duration("dur", time.Since(start)),
			}
			logger := reqLogger(log, req)
			if err != nil {
				logger.Warn("request failed", append(attrs, slog.String("err", err.Error()))...)
				return err
			}
			logger.Info("request ok", attrs...)
			return nil
		}
	}
}

// reqLogger prefers the per-request logger when one is attached.
func reqLogger(fallback *slog.Logger, req *Request) *slog.Logger {
	if req != nil && req.Logger != nil {
		return req.Logger
	}
	return fallback
}
