package out

import "context"

// Sender is the chat transport used for outbound notifications.
type Sender interface {
	SendText(ctx context.Context, chatID, text string) error
	SendPhoto(ctx context.Context, chatID, fileID, caption string) error
	SendVideoNote(ctx context.Context, chatID, fileID string, length int) error
	SendLocation(ctx context.Context, chatID string, lat, lon float64) error
	SendDocument(ctx context.Context, chatID, path, caption string) error
	SendSticker(ctx context.Context, chatID, fileID string) error
}
