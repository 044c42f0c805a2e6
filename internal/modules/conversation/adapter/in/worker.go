package in

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	conversationin "davomat/internal/modules/conversation/port/in"
	"davomat/internal/platform/logging"
)

// DefaultUpdateTimeout bounds the handling of a single update.
const DefaultUpdateTimeout = 2 * time.Minute

// Worker drains one updates channel and handles each update to completion
// before taking the next.
type Worker struct {
	usecase conversationin.Usecase
	timeout time.Duration
	log     *slog.Logger
}

func NewWorker(usecase conversationin.Usecase, timeout time.Duration, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = logging.Discard()
	}
	if timeout <= 0 {
		timeout = DefaultUpdateTimeout
	}
	return &Worker{usecase: usecase, timeout: timeout, log: logger}
}

// Run returns when ctx ends or updates is closed.
func (w *Worker) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			w.handle(ctx, u)
		}
	}
}

func (w *Worker) handle(ctx context.Context, u tgbotapi.Update) {
	input, ok := ToUpdate(u)
	if !ok {
		return
	}
	updateCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("update handler panicked", "update", u.UpdateID, "panic", r)
		}
	}()
	if err := w.usecase.Handle(updateCtx, input); err != nil {
		w.log.Error("handle update", "update", u.UpdateID, "user", input.UserID, "kind", input.Kind, "error", err)
	}
}
