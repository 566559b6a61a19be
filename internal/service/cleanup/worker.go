package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// IdleReaper is the part of the session manager the worker needs.
type IdleReaper interface {
	CleanupIdle(ctx context.Context, ttl time.Duration) int
}

type Worker struct {
	Sessions IdleReaper
	Interval time.Duration
	IdleTTL  time.Duration
	log      *zap.Logger
}

func NewWorker(sessions IdleReaper, interval, idleTTL time.Duration, log *zap.Logger) *Worker {
	return &Worker{
		Sessions: sessions,
		Interval: interval,
		IdleTTL:  idleTTL,
		log:      log.With(zap.String("component", "cleanup")),
	}
}

// Start runs one cleanup immediately, then every Interval until ctx is
// cancelled. The returned channel is closed once the worker has stopped.
func (w *Worker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		w.runCleanup(ctx)

		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				w.log.Info("background worker stopped")
				return
			case <-ticker.C:
				w.runCleanup(ctx)
			}
		}
	}()

	w.log.Info("background worker started",
		zap.Duration("interval", w.Interval), zap.Duration("idle_ttl", w.IdleTTL))
	return done
}

// runCleanup executes the actual cleanup logic
func (w *Worker) runCleanup(ctx context.Context) {
	removed := w.Sessions.CleanupIdle(ctx, w.IdleTTL)
	if removed > 0 {
		w.log.Info("removed idle games", zap.Int("count", removed))
	}
}
