package dispatch

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/delaneyj/signalgraph/graph"
)

const defaultInterval = 16 * time.Millisecond

// Loop owns a runtime: it applies posted writes and flushes effects, either
// once per Tick or continuously in Run.
type Loop struct {
	Runtime  *graph.Runtime
	Queue    *Queue
	Interval time.Duration
	Logger   logrus.FieldLogger
}

// Tick drains the queue and then runs the effects the drained writes
// scheduled.
func (l *Loop) Tick() error {
	var errs error
	if l.Queue != nil {
		errs = l.Queue.Drain()
	}
	return multierr.Append(errs, l.Runtime.RunEffects())
}

// Run ticks whenever something is posted and at every Interval, until ctx is
// done. Tick errors are logged and do not stop the loop.
func (l *Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	log := l.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	var ready <-chan struct{}
	if l.Queue != nil {
		ready = l.Queue.Ready()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.WithField("interval", interval).Debug("loop started")
	for {
		select {
		case <-ctx.Done():
			log.Debug("loop stopped")
			return ctx.Err()
		case <-ready:
		case <-ticker.C:
		}

		if err := l.Tick(); err != nil {
			log.WithError(err).Warn("tick failed")
		}
	}
}
