package out

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	notifyout "davomat/internal/modules/notify/port/out"
	"davomat/internal/platform/telegram"
)

type TelegramSender struct {
	client telegram.Client
}

func NewTelegramSender(client telegram.Client) *TelegramSender {
	return &TelegramSender{client: client}
}

var _ notifyout.Sender = (*TelegramSender)(nil)

func (s *TelegramSender) SendText(ctx context.Context, chatID, text string) error {
	chat, channel, err := telegram.Recipient(chatID)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chat, text)
	msg.ChannelUsername = channel
	return s.send(ctx, msg)
}

func (s *TelegramSender) SendPhoto(ctx context.Context, chatID, fileID, caption string) error {
	chat, channel, err := telegram.Recipient(chatID)
	if err != nil {
		return err
	}
	photo := tgbotapi.NewPhoto(chat, tgbotapi.FileID(fileID))
	photo.ChannelUsername = channel
	photo.Caption = caption
	return s.send(ctx, photo)
}

func (s *TelegramSender) SendVideoNote(ctx context.Context, chatID, fileID string, length int) error {
	chat, channel, err := telegram.Recipient(chatID)
	if err != nil {
		return err
	}
	note := tgbotapi.NewVideoNote(chat, length, tgbotapi.FileID(fileID))
	note.ChannelUsername = channel
	return s.send(ctx, note)
}

func (s *TelegramSender) SendLocation(ctx context.Context, chatID string, lat, lon float64) error {
	chat, channel, err := telegram.Recipient(chatID)
	if err != nil {
		return err
	}
	loc := tgbotapi.NewLocation(chat, lat, lon)
	loc.ChannelUsername = channel
	return s.send(ctx, loc)
}

func (s *TelegramSender) SendDocument(ctx context.Context, chatID, path, caption string) error {
	chat, channel, err := telegram.Recipient(chatID)
	if err != nil {
		return err
	}
	doc := tgbotapi.NewDocument(chat, tgbotapi.FilePath(path))
	doc.ChannelUsername = channel
	doc.Caption = caption
	return s.send(ctx, doc)
}

func (s *TelegramSender) SendSticker(ctx context.Context, chatID, fileID string) error {
	chat, channel, err := telegram.Recipient(chatID)
	if err != nil {
		return err
	}
	sticker := tgbotapi.NewSticker(chat, tgbotapi.FileID(fileID))
	sticker.ChannelUsername = channel
	return s.send(ctx, sticker)
}

func (s *TelegramSender) send(ctx context.Context, c tgbotapi.Chattable) error {
	_, err := telegram.Send(ctx, s.client, c)
	return err
}
