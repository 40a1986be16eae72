package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram posts messages to a single chat through the Bot API.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Telegram{api: api, chatID: chatID}, nil
}

func newTelegramWithClient(token, endpoint string, chatID int64, client tgbotapi.HTTPClient) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Telegram{api: api, chatID: chatID}, nil
}

func (t *Telegram) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
