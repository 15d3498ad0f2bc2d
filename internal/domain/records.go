package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoutineRecord is a user's single saved routine: the verbatim submission
// plus its parsed schedule. At most one record exists per user; a new
// submission replaces the previous text and schedule.
type RoutineRecord struct {
	UserID    string    `json:"userId"`
	RawText   string    `json:"routineText"`
	Schedule  Schedule  `json:"schedule"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Preference holds a user's daily reminder settings. LastSentDate is the
// once-per-day guard: the local calendar date ("2006-01-02") of the last
// successful send, empty when the reminder may still fire today.
type Preference struct {
	UserID         string `json:"userId"`
	Enabled        bool   `json:"enabled"`
	NotifyTime     string `json:"time"` // "HH:MM", 24-hour
	LastSentDate   string `json:"lastSentDate,omitempty"`
	TelegramChatID int64  `json:"telegramChatId,omitempty"`
}

// DefaultNotifyTime is used until the user picks a reminder time.
const DefaultNotifyTime = "06:00"

// PushSubscription is a browser push endpoint registered by a user's
// service worker. One user may hold several (one per browser/device).
type PushSubscription struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"createdAt"`
}
