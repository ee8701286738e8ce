package reminder

import (
	"context"
	"time"

	"github.com/julianstephens/consistency/internal/constants"
	"github.com/julianstephens/consistency/internal/dates"
	"github.com/julianstephens/consistency/internal/logger"
)

// Poller evaluates the reminder slots at now and delivers any event.
type Poller interface {
	PollReminders(ctx context.Context, now time.Time) (*Event, error)
}

// Scheduler polls a Poller on a fixed interval until its context ends.
type Scheduler struct {
	poller   Poller
	clock    dates.Clock
	interval time.Duration
	onEvent  func(Event)
}

type Option func(*Scheduler)

// WithInterval sets the poll interval. Anything coarser than a minute can
// skip a slot.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithClock(c dates.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// OnEvent registers a callback for every fired reminder.
func OnEvent(fn func(Event)) Option {
	return func(s *Scheduler) { s.onEvent = fn }
}

func NewScheduler(p Poller, opts ...Option) *Scheduler {
	s := &Scheduler{
		poller:   p,
		clock:    dates.SystemClock{},
		interval: constants.DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run polls once immediately and then on every tick. Poll errors are logged
// and the loop keeps going. It returns when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	logger.Info("Reminder scheduler started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Reminder scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

func (s *Scheduler) poll(ctx context.Context) {
	now := s.clock.Now()
	event, err := s.poller.PollReminders(ctx, now)
	if err != nil {
		logger.Error("Reminder poll failed", "error", err)
		return
	}
	if event == nil {
		return
	}

	logger.Info("Reminder sent", "slot", event.Slot, "date", event.Date)
	if s.onEvent != nil {
		s.onEvent(*event)
	}
}
