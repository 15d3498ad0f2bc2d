package store

import (
	"context"
	"errors"

	"github.com/Hossain-2402/class-routine-reminder/internal/domain"
)

// ErrNotFound is returned when a record does not exist. For routines this is
// a normal empty state, not a failure.
var ErrNotFound = errors.New("not found")

// Repo defines storage operations for routines, reminder preferences and
// push subscriptions.
type Repo interface {
	// UpsertRoutine stores a user's routine, replacing any previous one.
	// CreatedAt is set on first insert only; UpdatedAt refreshes every time.
	UpsertRoutine(ctx context.Context, userID, rawText string, schedule domain.Schedule) (*domain.RoutineRecord, error)
	GetRoutine(ctx context.Context, userID string) (*domain.RoutineRecord, error)

	UpsertPreference(ctx context.Context, p *domain.Preference) error
	GetPreference(ctx context.Context, userID string) (*domain.Preference, error)
	SetEnabled(ctx context.Context, userID string, enabled bool) error

	// ListDue returns enabled preferences whose notify time equals hhmm and
	// whose last-sent date is not today.
	ListDue(ctx context.Context, hhmm, today string) ([]domain.Preference, error)
	// MarkSent sets the last-sent date to today only if it differs, in one
	// statement. It reports whether this caller won the once-per-day guard.
	MarkSent(ctx context.Context, userID, today string) (bool, error)
	ClearLastSent(ctx context.Context, userID string) error

	AddSubscription(ctx context.Context, sub *domain.PushSubscription) error
	ListSubscriptions(ctx context.Context, userID string) ([]domain.PushSubscription, error)
	RemoveSubscription(ctx context.Context, userID, id string) error

	Close() error
}
