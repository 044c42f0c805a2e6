package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	apperrors "davomat/internal/platform/errors"
)

// Client is the subset of *tgbotapi.BotAPI used for outbound calls.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// NewBot authenticates against the Bot API. The HTTP client timeout must
// exceed the long-poll timeout.
func NewBot(token string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("bot token: %w", apperrors.ErrMissingCredential)
	}
	client := &http.Client{Timeout: timeout + PollTimeout}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("connect bot api: %w", err)
	}
	return bot, nil
}

// PollTimeout is the server-side long-poll wait.
const PollTimeout = 30 * time.Second

// Recipient splits a configured chat id into a numeric id or a channel name.
func Recipient(chatID string) (int64, string, error) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return 0, "", fmt.Errorf("chat id is empty: %w", apperrors.ErrInvalidInput)
	}
	if n, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		return n, "", nil
	}
	if strings.HasPrefix(chatID, "@") {
		return 0, chatID, nil
	}
	return 0, "", fmt.Errorf("chat id %q: %w", chatID, apperrors.ErrInvalidInput)
}

// Send performs c and gives up when ctx ends first. The request itself keeps
// running until the HTTP client timeout.
func Send(ctx context.Context, client Client, c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if err := ctx.Err(); err != nil {
		return tgbotapi.Message{}, err
	}
	type result struct {
		msg tgbotapi.Message
		err error
	}
	done := make(chan result, 1)
	go func() {
		msg, err := client.Send(c)
		done <- result{msg: msg, err: err}
	}()
	select {
	case <-ctx.Done():
		return tgbotapi.Message{}, ctx.Err()
	case r := <-done:
		return r.msg, r.err
	}
}

// Offline stands in for the bot when no token is configured. Every call
// fails with apperrors.ErrMissingCredential.
type Offline struct{}

func (Offline) Send(tgbotapi.Chattable) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, fmt.Errorf("telegram offline: %w", apperrors.ErrMissingCredential)
}
