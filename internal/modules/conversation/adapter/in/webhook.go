package in

import (
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"

	"davomat/internal/platform/logging"
)

// Requester is the configuration half of *tgbotapi.BotAPI.
type Requester interface {
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// SetWebhook points the bot at url. An empty url removes the webhook so long
// polling can take over.
func SetWebhook(bot Requester, url string) error {
	if url == "" {
		_, err := bot.Request(tgbotapi.DeleteWebhookConfig{})
		return err
	}
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return err
	}
	wh.AllowedUpdates = []string{"message"}
	_, err = bot.Request(wh)
	return err
}

// WebhookHandler accepts pushed updates and queues them for the Worker.
type WebhookHandler struct {
	updates chan<- tgbotapi.Update
	log     *slog.Logger
}

func NewWebhookHandler(updates chan<- tgbotapi.Update, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &WebhookHandler{updates: updates, log: logger}
}

func (h *WebhookHandler) RegisterRoutes(e *echo.Echo, path string) {
	e.POST(path, h.Receive)
	e.GET("/healthz", h.Health)
}

// Receive queues one update.
// POST <webhook path>
func (h *WebhookHandler) Receive(c echo.Context) error {
	var update tgbotapi.Update
	if err := c.Bind(&update); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid update"})
	}
	select {
	case h.updates <- update:
		return c.NoContent(http.StatusOK)
	case <-c.Request().Context().Done():
		h.log.Warn("webhook update dropped", "update", update.UpdateID)
		return c.NoContent(http.StatusServiceUnavailable)
	}
}

// Health reports liveness.
// GET /healthz
func (h *WebhookHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
