package notifier

import (
	"context"
	"strings"

	"PriceForecaster/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Reply is the answer to a command. Either field may be empty.
type Reply struct {
	Text      string
	Photo     []byte
	PhotoName string
}

// CommandHandler is called when a user command is received.
type CommandHandler func(ctx context.Context, command string) Reply

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
// Messages from chats other than the configured one are ignored.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	log := logger.FromContext(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.Bot.GetUpdatesChan(u)
	defer t.Bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			log.Info("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			m := update.Message
			if m == nil || m.Text == "" {
				continue
			}
			if m.Chat == nil || m.Chat.ID != t.ChatID {
				log.Warnw("ignoring message from unknown chat", "chat_id", chatID(m))
				continue
			}
			text := strings.TrimSpace(m.Text)
			log.Infow("received command", "command", text)
			t.reply(ctx, handler(ctx, text))
		}
	}
}

func (t *TelegramNotifier) reply(ctx context.Context, r Reply) {
	log := logger.FromContext(ctx)
	if r.Text != "" {
		if err := t.Send(r.Text); err != nil {
			log.Errorw("send reply", "error", err)
		}
	}
	if len(r.Photo) > 0 {
		if err := t.SendPhoto(r.PhotoName, r.Photo, ""); err != nil {
			log.Errorw("send reply chart", "error", err)
		}
	}
}

func chatID(m *tgbotapi.Message) int64 {
	if m.Chat == nil {
		return 0
	}
	return m.Chat.ID
}
