package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Fanout tries every configured channel and succeeds if any one delivered.
// A channel answering ErrNoChannel is simply not set up for that user and
// does not count as a failure.
type Fanout struct {
	log      *zap.Logger
	channels []Notifier
}

// NewFanout builds a composite notifier over the given channels.
func NewFanout(log *zap.Logger, channels ...Notifier) *Fanout {
	return &Fanout{log: log, channels: channels}
}

// Send attempts delivery on all channels. It returns nil if at least one
// delivered, ErrNoChannel if no channel applied to the user, and the joined
// errors otherwise.
func (f *Fanout) Send(ctx context.Context, userID, title, body string) error {
	var delivered bool
	var errs []error
	for _, ch := range f.channels {
		err := ch.Send(ctx, userID, title, body)
		switch {
		case err == nil:
			delivered = true
		case errors.Is(err, ErrNoChannel):
			// Channel not configured for this user; keep going.
		default:
			errs = append(errs, err)
		}
	}
	if delivered {
		return nil
	}
	if len(errs) == 0 {
		return ErrNoChannel
	}
	return errors.Join(errs...)
}
