// Package bot sends outage updates to a Telegram chat.
package bot

import (
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot posts changed outage items to a single configured chat.
type Bot struct {
	api    telegramAPI
	chatID int64
	log    *slog.Logger
}

// New creates a Bot for the given token and chat id.
func New(token, chatID string, log *slog.Logger) (*Bot, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat id %q: %w", chatID, err)
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return &Bot{api: api, chatID: id, log: log}, nil
}

// NotifyItems sends one message per changed item.
func (b *Bot) NotifyItems(items []model.OutageItem) {
	for _, item := range items {
		b.sendMessage(FormatUpdate(item))
	}
}

func (b *Bot) sendMessage(text string) {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", b.chatID, "error", err)
	}
}

// FormatUpdate formats a changed item as a chat message.
func FormatUpdate(item model.OutageItem) string {
	return fmt.Sprintf("New update (%s):\n%s\n%s", item.Date, item.Text, item.URL)
}
