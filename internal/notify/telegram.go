package notify

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Hossain-2402/class-routine-reminder/internal/store"
)

// Telegram sends reminders to users who linked a chat id in their
// preferences. It is a secondary channel next to Web Push.
type Telegram struct {
	bot  *tgbotapi.BotAPI
	repo store.Repo
	log  *zap.Logger
}

// NewTelegram authenticates the bot with the given token.
func NewTelegram(token string, repo store.Repo, log *zap.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	return &Telegram{bot: bot, repo: repo, log: log}, nil
}

// Send delivers the reminder as a single text message. Users without a
// linked chat id report ErrNoChannel.
func (t *Telegram) Send(ctx context.Context, userID, title, body string) error {
	p, err := t.repo.GetPreference(ctx, userID)
	if err != nil {
		return err
	}
	if p.TelegramChatID == 0 {
		return ErrNoChannel
	}
	_, err = t.bot.Send(tgbotapi.NewMessage(p.TelegramChatID, title+"\n\n"+body))
	return err
}
