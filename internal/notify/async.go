package notify

import (
	"context"
	"sync"
	"time"

	"canteen-be/internal/logger"
	"canteen-be/internal/metrics"

	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// Async delivers in the background so the caller never waits on transport.
// Failures are logged and counted, never returned.
type Async struct {
	next    Notifier
	timeout time.Duration
	stats   *metrics.Registry
	wg      sync.WaitGroup
}

func NewAsync(next Notifier, timeout time.Duration, stats *metrics.Registry) *Async {
	if stats == nil {
		stats = metrics.NewRegistry()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Async{next: next, timeout: timeout, stats: stats}
}

func (a *Async) Notify(ctx context.Context, n Notification) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		// detach from the request so delivery outlives the response
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()

		timer := metrics.StartTimer()
		if err := a.next.Notify(ctx, n); err != nil {
			a.stats.Counter("notify.failed").Inc()
			logger.FromCtx(ctx).Warn("notification failed",
				zap.String("recipient", n.Recipient),
				zap.String("action", n.Action),
				zap.Duration("took", timer.Duration()),
				zap.Error(err),
			)
			return
		}
		a.stats.Counter("notify.sent").Inc()
		logger.FromCtx(ctx).Debug("notification sent",
			zap.String("action", n.Action),
			zap.Duration("took", timer.Duration()),
		)
	}()
	return nil
}

// Wait blocks until in-flight deliveries finish.
func (a *Async) Wait() {
	a.wg.Wait()
}
