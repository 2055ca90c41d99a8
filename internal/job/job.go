// Package job wraps a unit of scheduled work with start, end and failure notifications.
package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kih-api/automation/internal/logger"
	"github.com/kih-api/automation/internal/notify"
)

type Notifier interface {
	Dispatch(ctx context.Context, events ...notify.Event)
}

type Runner struct {
	notifier Notifier

	logger logger.Logger
	now    func() time.Time
}

func NewRunner(notifier Notifier, logger logger.Logger) *Runner {
	return &Runner{
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes fn. A failure is notified with the type of the innermost error
// and returned unchanged.
func (r *Runner) Run(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	r.logger.Infof("running job %s", name)
	r.notifier.Dispatch(ctx, notify.JobStarted{Name: name})
	start := r.now()

	if err := fn(ctx); err != nil {
		r.logger.Errorf("%s: job %s failed", err, name)
		r.notifier.Dispatch(ctx, notify.JobFailed{
			Name:      name,
			ErrorType: errorType(err),
			Message:   err.Error(),
		})
		return err
	}

	elapsed := r.now().Sub(start)
	r.logger.Infof("job %s ended in %s", name, elapsed)
	r.notifier.Dispatch(ctx, notify.JobEnded{Name: name, Duration: elapsed})
	return nil
}

func errorType(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return fmt.Sprintf("%T", err)
		}
		err = next
	}
}
