// Package notify delivers reminder messages to a user's registered
// channels: Web Push subscriptions (browser service worker) and, when a
// chat id is configured, Telegram.
package notify

import (
	"context"
	"errors"
)

// ErrNoChannel means the user has no working delivery channel. The caller
// treats it as a soft failure: logged, never retried.
var ErrNoChannel = errors.New("no delivery channel for user")

// Notifier sends one reminder to one user.
type Notifier interface {
	Send(ctx context.Context, userID, title, body string) error
}
