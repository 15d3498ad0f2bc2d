package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"github.com/Hossain-2402/class-routine-reminder/internal/store"
)

// pushTTL is how long the push service may hold an undelivered message.
// Reminders are stale after a few hours anyway.
const pushTTL = 4 * 3600

// pushPayload is what the service worker receives and renders.
type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
}

// WebPush sends reminders to the user's registered browser push endpoints.
// Delivery works with no page open: the browser wakes the installed service
// worker, which shows the notification.
type WebPush struct {
	repo store.Repo
	log  *zap.Logger
	opts webpush.Options
}

// NewWebPush creates a Web Push sender with the service's VAPID identity.
func NewWebPush(repo store.Repo, log *zap.Logger, vapidPublic, vapidPrivate, subject string) *WebPush {
	return &WebPush{
		repo: repo,
		log:  log,
		opts: webpush.Options{
			Subscriber:      subject,
			VAPIDPublicKey:  vapidPublic,
			VAPIDPrivateKey: vapidPrivate,
			TTL:             pushTTL,
		},
	}
}

// Send pushes the reminder to every subscription the user registered.
// Endpoints the push service reports as gone are pruned. Success means at
// least one endpoint accepted the message.
func (w *WebPush) Send(ctx context.Context, userID, title, body string) error {
	subs, err := w.repo.ListSubscriptions(ctx, userID)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return ErrNoChannel
	}

	payload, err := json.Marshal(pushPayload{Title: title, Body: body, Tag: "class-reminder"})
	if err != nil {
		return err
	}

	var delivered int
	var lastErr error
	for _, sub := range subs {
		target := &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys:     webpush.Keys{P256dh: sub.P256dh, Auth: sub.Auth},
		}
		opts := w.opts
		resp, err := webpush.SendNotificationWithContext(ctx, payload, target, &opts)
		if err != nil {
			lastErr = err
			w.log.Warn("web push failed",
				zap.String("userID", userID),
				zap.String("endpoint", sub.Endpoint),
				zap.Error(err),
			)
			continue
		}
		_ = resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusNotFound, http.StatusGone:
			// Subscription expired or was revoked; drop it.
			if err := w.repo.RemoveSubscription(ctx, userID, sub.ID.String()); err != nil {
				w.log.Warn("prune subscription failed", zap.String("userID", userID), zap.Error(err))
			}
		default:
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				delivered++
			} else {
				lastErr = errors.New("push service returned " + resp.Status)
			}
		}
	}

	if delivered == 0 {
		if lastErr != nil {
			return lastErr
		}
		return ErrNoChannel
	}
	return nil
}
