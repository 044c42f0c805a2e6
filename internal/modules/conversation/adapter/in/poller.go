package in

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UpdateSource is the long-polling half of *tgbotapi.BotAPI.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Poller feeds a Worker from getUpdates.
type Poller struct {
	source  UpdateSource
	timeout int
}

func NewPoller(source UpdateSource, timeoutSeconds int) *Poller {
	return &Poller{source: source, timeout: timeoutSeconds}
}

func (p *Poller) Updates() tgbotapi.UpdatesChannel {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = p.timeout
	cfg.AllowedUpdates = []string{"message"}
	return p.source.GetUpdatesChan(cfg)
}

func (p *Poller) Stop() {
	p.source.StopReceivingUpdates()
}
