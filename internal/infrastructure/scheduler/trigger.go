package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// IntervalTrigger submits a task to the scheduler on a fixed interval
type IntervalTrigger struct {
	scheduler *Scheduler
	name      string
	interval  time.Duration
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewIntervalTrigger creates a trigger for the named task
func NewIntervalTrigger(s *Scheduler, name string, interval time.Duration, logger *zap.Logger) *IntervalTrigger {
	return &IntervalTrigger{
		scheduler: s,
		name:      name,
		interval:  interval,
		logger:    logger.Named("trigger").With(zap.String("job", name)),
	}
}

// Start begins ticking. A run already in flight skips the tick.
func (t *IntervalTrigger) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.fire()
			}
		}
	}()
	t.logger.Info("Interval trigger started", zap.Duration("interval", t.interval))
}

func (t *IntervalTrigger) fire() {
	_, err := t.scheduler.Submit(t.name)
	switch {
	case err == nil:
	case errors.Is(err, ErrJobAlreadyRunning):
		t.logger.Debug("Previous run still in progress, skipping tick")
	default:
		t.logger.Warn("Failed to submit scheduled job", zap.Error(err))
	}
}

// Stop halts the ticker
func (t *IntervalTrigger) Stop() {
	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()
}
