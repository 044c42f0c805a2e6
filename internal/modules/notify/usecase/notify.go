package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"davomat/internal/modules/notify/domain"
	"davomat/internal/modules/notify/dto"
	notifyin "davomat/internal/modules/notify/port/in"
	notifyout "davomat/internal/modules/notify/port/out"
	"davomat/internal/modules/notify/service"
	"davomat/internal/platform/logging"
)

const DefaultSendTimeout = 10 * time.Second

// Config names the chats and the admin stickers. Empty chat ids disable the
// corresponding target.
type Config struct {
	AdminChat string
	GroupChat string
	Stickers  []string
	Timeout   time.Duration
}

type Dispatcher struct {
	sender notifyout.Sender
	cfg    Config
	log    *slog.Logger
	pick   func(n int) int
}

func NewDispatcher(sender notifyout.Sender, cfg Config, logger *slog.Logger) notifyin.Usecase {
	return newDispatcher(sender, cfg, logger, rand.Intn)
}

// NewDispatcherWithPicker fixes sticker selection for tests.
func NewDispatcherWithPicker(sender notifyout.Sender, cfg Config, logger *slog.Logger, pick func(n int) int) notifyin.Usecase {
	return newDispatcher(sender, cfg, logger, pick)
}

func newDispatcher(sender notifyout.Sender, cfg Config, logger *slog.Logger, pick func(n int) int) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSendTimeout
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Dispatcher{sender: sender, cfg: cfg, log: logger, pick: pick}
}

func (d *Dispatcher) Broadcast(ctx context.Context, payload dto.PayloadInput) dto.ReportOutput {
	return d.deliver(ctx, payload, domain.AudienceAdmin, domain.AudienceGroup)
}

func (d *Dispatcher) Admin(ctx context.Context, payload dto.PayloadInput) dto.ReportOutput {
	return d.deliver(ctx, payload, domain.AudienceAdmin)
}

func (d *Dispatcher) deliver(ctx context.Context, input dto.PayloadInput, audiences ...domain.Audience) dto.ReportOutput {
	report := dto.ReportOutput{}
	steps, err := service.Steps(toPayload(input))
	if err != nil {
		d.log.Warn("notification dropped", "kind", input.Kind, "err", err)
		return report
	}
	for _, audience := range audiences {
		target := d.target(audience)
		if target.ChatID == "" {
			d.log.Info("notification target not configured", "audience", audience)
			continue
		}
		if audience == domain.AudienceAdmin {
			d.sendSticker(ctx, target)
		}
		delivery := d.send(ctx, target, steps)
		out := dto.DeliveryOutput{Audience: string(audience), ChatID: target.ChatID}
		if delivery.Err != nil {
			out.Error = delivery.Err.Error()
			d.log.Warn("notification failed", "audience", audience, "chat", target.ChatID, "err", delivery.Err)
		} else {
			d.log.Debug("notification sent", "audience", audience, "chat", target.ChatID, "kind", input.Kind)
		}
		report.Deliveries = append(report.Deliveries, out)
	}
	return report
}

func (d *Dispatcher) target(audience domain.Audience) domain.Target {
	if audience == domain.AudienceAdmin {
		return domain.Target{Audience: audience, ChatID: d.cfg.AdminChat}
	}
	return domain.Target{Audience: audience, ChatID: d.cfg.GroupChat}
}

func (d *Dispatcher) sendSticker(ctx context.Context, target domain.Target) {
	if len(d.cfg.Stickers) == 0 {
		return
	}
	sticker := d.cfg.Stickers[d.pick(len(d.cfg.Stickers))]
	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()
	if err := d.sender.SendSticker(sendCtx, target.ChatID, sticker); err != nil {
		d.log.Debug("sticker not sent", "chat", target.ChatID, "err", err)
	}
}

// send stops at the first failing step of a target.
func (d *Dispatcher) send(ctx context.Context, target domain.Target, steps []domain.Step) domain.Delivery {
	for _, step := range steps {
		sendCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
		err := d.sendStep(sendCtx, target.ChatID, step)
		cancel()
		if err != nil {
			return domain.Delivery{Target: target, Err: fmt.Errorf("%s: %w", step.Kind, err)}
		}
	}
	return domain.Delivery{Target: target}
}

func (d *Dispatcher) sendStep(ctx context.Context, chatID string, step domain.Step) error {
	switch step.Kind {
	case domain.KindPhoto:
		return d.sender.SendPhoto(ctx, chatID, step.FileID, step.Text)
	case domain.KindVideoNote:
		return d.sender.SendVideoNote(ctx, chatID, step.FileID, step.Length)
	case domain.KindLocation:
		return d.sender.SendLocation(ctx, chatID, step.Latitude, step.Longitude)
	case domain.KindDocument:
		return d.sender.SendDocument(ctx, chatID, step.FilePath, step.Text)
	default:
		return d.sender.SendText(ctx, chatID, step.Text)
	}
}

func toPayload(in dto.PayloadInput) domain.Payload {
	return domain.Payload{
		Kind:      domain.Kind(in.Kind),
		Text:      in.Text,
		FileID:    in.FileID,
		FilePath:  in.FilePath,
		Length:    in.Length,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	}
}
