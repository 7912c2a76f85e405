// Package notify sends operator alerts (subscription changes, dead deliveries).
package notify

import (
	"context"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/justsurfingit/carreira-ia/internal/config"
	"github.com/justsurfingit/carreira-ia/internal/logger"
)

type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// New returns a Telegram notifier when a bot token is configured and a no-op otherwise.
func New(cfg config.TelegramConfig) Notifier {
	if cfg.Token == "" || cfg.ChatID == 0 {
		logger.LogWarn("Telegram alerts disabled: TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set")
		return Noop{}
	}
	t, err := NewTelegram(cfg)
	if err != nil {
		logger.LogError(err, "Telegram alerts disabled")
		return Noop{}
	}
	return t
}

type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(cfg config.TelegramConfig) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: cfg.ChatID}, nil
}

func (t *Telegram) Notify(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, formatMessage(subject, body))
	msg.ParseMode = "HTML"
	_, err := t.bot.Send(msg)
	return err
}

func formatMessage(subject, body string) string {
	return fmt.Sprintf("🔔 <b>%s</b>\n%s", html.EscapeString(subject), html.EscapeString(body))
}

type Noop struct{}

func (Noop) Notify(context.Context, string, string) error { return nil }
