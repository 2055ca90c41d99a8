package notify

import (
	"context"
	"time"

	"github.com/kih-api/automation/internal/logger"
)

// Dispatcher delivers events to every sink and records them in the journal.
// Delivery is best effort: failures are logged and never returned.
type Dispatcher struct {
	sinks   []Sink
	journal Journal

	logger logger.Logger
	now    func() time.Time
}

func NewDispatcher(logger logger.Logger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		sinks:  sinks,
		logger: logger,
		now:    time.Now,
	}
}

func (d *Dispatcher) WithJournal(j Journal) *Dispatcher {
	d.journal = j
	return d
}

func (d *Dispatcher) Dispatch(ctx context.Context, events ...Event) {
	for _, e := range events {
		message := e.Render()

		for _, s := range d.sinks {
			if err := s.Send(ctx, e.Channel(), message, true); err != nil {
				d.logger.Errorf("%s: can't deliver %s notification", err, e.Kind())
			}
		}

		if d.journal == nil {
			continue
		}
		r := Record{Kind: e.Kind(), Channel: e.Channel(), Message: message, OccurredAt: d.now().UTC()}
		if err := d.journal.Save(ctx, r); err != nil {
			d.logger.Errorf("%s: can't journal %s notification", err, e.Kind())
		}
	}
}

// Recorder collects dispatched events in memory.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Dispatch(_ context.Context, events ...Event) {
	r.Events = append(r.Events, events...)
}
