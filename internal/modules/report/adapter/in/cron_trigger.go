package in

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	reportin "davomat/internal/modules/report/port/in"
	"davomat/internal/platform/logging"
)

const DefaultDailySchedule = "59 23 * * *"

// DailyTrigger runs SendDaily on a cron schedule evaluated in a fixed zone.
type DailyTrigger struct {
	cron    *cron.Cron
	usecase reportin.Usecase
	timeout time.Duration
	log     *slog.Logger
}

func NewDailyTrigger(usecase reportin.Usecase, schedule string, zone *time.Location, logger *slog.Logger) (*DailyTrigger, error) {
	if schedule == "" {
		schedule = DefaultDailySchedule
	}
	if zone == nil {
		zone = time.Local
	}
	if logger == nil {
		logger = logging.Discard()
	}
	t := &DailyTrigger{
		cron:    cron.New(cron.WithLocation(zone)),
		usecase: usecase,
		timeout: 2 * time.Minute,
		log:     logger,
	}
	if _, err := t.cron.AddFunc(schedule, func() { t.Fire(context.Background()) }); err != nil {
		return nil, fmt.Errorf("daily report schedule %q: %w", schedule, err)
	}
	return t, nil
}

func (t *DailyTrigger) Start() {
	t.cron.Start()
	t.log.Info("daily report scheduled", "entries", len(t.cron.Entries()))
}

// Stop halts the scheduler and waits for a running job.
func (t *DailyTrigger) Stop() {
	<-t.cron.Stop().Done()
}

// Next reports when the job fires next; zero before Start.
func (t *DailyTrigger) Next() time.Time {
	entries := t.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (t *DailyTrigger) Fire(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	t.log.Info("sending daily report")
	if err := t.usecase.SendDaily(ctx); err != nil {
		t.log.Error("daily report failed", "err", err)
	}
}
