package out

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"davomat/internal/modules/conversation/domain"
	conversationout "davomat/internal/modules/conversation/port/out"
	"davomat/internal/platform/telegram"
)

type TelegramReplier struct {
	client telegram.Client
}

func NewTelegramReplier(client telegram.Client) *TelegramReplier {
	return &TelegramReplier{client: client}
}

var _ conversationout.Replier = (*TelegramReplier)(nil)

func (r *TelegramReplier) Reply(ctx context.Context, chatID int64, text string, keyboard *domain.Keyboard) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		msg.ReplyMarkup = Markup(*keyboard)
	}
	_, err := telegram.Send(ctx, r.client, msg)
	return err
}

func (r *TelegramReplier) ReplyDocument(ctx context.Context, chatID int64, path, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	_, err := telegram.Send(ctx, r.client, doc)
	return err
}

// Markup renders a keyboard as a resizable reply keyboard.
func Markup(k domain.Keyboard) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(k.Rows))
	for _, row := range k.Rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, b := range row {
			switch {
			case b.RequestContact:
				buttons = append(buttons, tgbotapi.NewKeyboardButtonContact(b.Text))
			case b.RequestLocation:
				buttons = append(buttons, tgbotapi.NewKeyboardButtonLocation(b.Text))
			default:
				buttons = append(buttons, tgbotapi.NewKeyboardButton(b.Text))
			}
		}
		rows = append(rows, buttons)
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.OneTimeKeyboard = k.OneTime
	return markup
}
