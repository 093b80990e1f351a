// Package reminder runs one-shot delayed spoken reminders. Every reminder is
// its own goroutine, tracked so shutdown can cancel the ones still waiting
// and tests can wait for the ones that should fire.
package reminder

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

// Compile-time interface check.
var _ domain.ReminderScheduler = (*Scheduler)(nil)

// Option configures the scheduler.
type Option func(*Scheduler)

// WithChime plays c right before each reminder is spoken.
func WithChime(c domain.Chimer) Option {
	return func(s *Scheduler) {
		s.chime = c
	}
}

// WithClock overrides the time source used to compute fire times.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// Scheduler starts reminders and tracks the ones that have not fired yet.
type Scheduler struct {
	notifier domain.Notifier
	chime    domain.Chimer
	log      *logger.Logger
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[string]domain.Reminder
	stopped bool
}

// New creates a scheduler that is ready to accept reminders.
func New(notifier domain.Notifier, log *logger.Logger, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		notifier: notifier,
		log:      log,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[string]domain.Reminder),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule arranges for "Reminder: text" to be announced once after delay.
// It returns immediately with the reminder ID.
func (s *Scheduler) Schedule(text string, delay time.Duration) (string, error) {
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return "", domain.ErrStopped
	}

	r := domain.Reminder{
		ID:     uuid.NewString(),
		Text:   text,
		FireAt: s.now().Add(delay),
	}
	s.pending[r.ID] = r
	s.wg.Add(1)

	go s.wait(r, delay)

	s.log.Info("reminder %s scheduled in %s: %q", r.ID, delay, text)
	return r.ID, nil
}

// wait sleeps until the reminder is due, then announces it.
func (s *Scheduler) wait(r domain.Reminder, delay time.Duration) {
	defer s.wg.Done()
	defer s.forget(r.ID)

	t := time.NewTimer(delay)
	defer t.Stop()

	select {
	case <-s.ctx.Done():
		s.log.Debug("reminder %s cancelled", r.ID)
		return
	case <-t.C:
	}

	s.log.Debug("reminder %s fired", r.ID)

	if s.chime != nil {
		if err := s.chime.Play(s.ctx); err != nil {
			s.log.Warn("reminder %s: chime: %v", r.ID, err)
		}
	}

	msg := fmt.Sprintf("Reminder: %s", r.Text)
	if err := s.notifier.NotifyUrgent(s.ctx, msg); err != nil {
		s.log.Error("reminder %s: notify: %v", r.ID, err)
	}
}

func (s *Scheduler) forget(id string) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

// Pending returns the reminders that have not fired yet, soonest first.
func (s *Scheduler) Pending() []domain.Reminder {
	s.mu.Lock()
	out := make([]domain.Reminder, 0, len(s.pending))
	for _, r := range s.pending {
		out = append(out, r)
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b domain.Reminder) int {
		return a.FireAt.Compare(b.FireAt)
	})
	return out
}

// Wait blocks until every scheduled reminder has fired or been cancelled.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Stop cancels every reminder that has not fired and waits for their
// goroutines to exit. Schedule fails with domain.ErrStopped afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	n := len(s.pending)
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	s.log.Info("reminder scheduler stopped (%d cancelled)", n)
}
