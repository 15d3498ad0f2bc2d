package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Hossain-2402/class-routine-reminder/internal/domain"
	"github.com/Hossain-2402/class-routine-reminder/internal/store"
)

// Notifier is the minimal delivery capability the scheduler needs.
// notify.Fanout implements it.
type Notifier interface {
	Send(ctx context.Context, userID, title, body string) error
}

// Scheduler fires each user's daily reminder when the local clock reaches
// their configured HH:MM, at most once per calendar day. The once-per-day
// guard lives in the store (a conditional update on last_sent_date), so
// this is the single owner of delivery: no other component keeps its own
// "already sent" marker.
type Scheduler struct {
	repo     store.Repo
	log      *zap.Logger
	notifier Notifier
	now      func() time.Time
	interval time.Duration
}

// New creates a Scheduler polling once a minute. The check is a string
// comparison on "HH:MM", so the firing window is exactly one minute; a
// minute missed while the process is down is not backfilled.
func New(repo store.Repo, log *zap.Logger, notifier Notifier) *Scheduler {
	return &Scheduler{
		repo:     repo,
		log:      log,
		notifier: notifier,
		now:      time.Now,
		interval: time.Minute,
	}
}

// Run polls until ctx is canceled. It owns the only ticker; re-arming the
// scheduler means canceling this context and calling Run again.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// First check runs immediately in case we started inside the target minute.
	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick performs one cycle: find users due this minute, claim the guard,
// deliver. Every failure is logged and the cycle moves on; the next tick
// proceeds regardless.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.now()
	hhmm := now.Format("15:04")
	today := dateKey(now)

	due, err := s.repo.ListDue(ctx, hhmm, today)
	if err != nil {
		s.log.Error("ListDue failed", zap.Error(err))
		return
	}

	for _, p := range due {
		won, err := s.repo.MarkSent(ctx, p.UserID, today)
		if err != nil {
			s.log.Error("MarkSent failed", zap.Error(err), zap.String("userID", p.UserID))
			continue
		}
		if !won {
			// Another poller claimed today's send between ListDue and now.
			continue
		}
		if err := s.deliver(ctx, p.UserID, now); err != nil {
			s.log.Error("reminder delivery failed", zap.Error(err), zap.String("userID", p.UserID))
		}
	}
}

// deliver builds today's reminder from the stored routine and sends it.
func (s *Scheduler) deliver(ctx context.Context, userID string, now time.Time) error {
	title, body := s.compose(ctx, userID, now)
	return s.notifier.Send(ctx, userID, title, body)
}

// compose derives the reminder content. A missing routine is its own
// message, not an error: the user enabled reminders before saving one.
func (s *Scheduler) compose(ctx context.Context, userID string, now time.Time) (title, body string) {
	rec, err := s.repo.GetRoutine(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Warn("GetRoutine failed, sending fallback", zap.Error(err), zap.String("userID", userID))
		}
		return "No Routine Found", "Please add your class routine first"
	}
	return domain.BuildReminder(domain.TodayClasses(rec.Schedule, now))
}

// TestFire sends the user's current reminder immediately, bypassing the
// once-per-day guard. The guard state is left untouched.
func (s *Scheduler) TestFire(ctx context.Context, userID string) error {
	return s.deliver(ctx, userID, s.now())
}

// Reset clears the user's last-sent date without sending anything, so the
// reminder can fire again today.
func (s *Scheduler) Reset(ctx context.Context, userID string) error {
	return s.repo.ClearLastSent(ctx, userID)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
