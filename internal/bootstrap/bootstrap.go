package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	conversationinadapter "davomat/internal/modules/conversation/adapter/in"
	conversationoutadapter "davomat/internal/modules/conversation/adapter/out"
	conversationin "davomat/internal/modules/conversation/port/in"
	conversationusecase "davomat/internal/modules/conversation/usecase"
	notifyinadapter "davomat/internal/modules/notify/adapter/in"
	notifyoutadapter "davomat/internal/modules/notify/adapter/out"
	notifyusecase "davomat/internal/modules/notify/usecase"
	profileinadapter "davomat/internal/modules/profile/adapter/in"
	profileoutadapter "davomat/internal/modules/profile/adapter/out"
	profileservice "davomat/internal/modules/profile/service"
	profileusecase "davomat/internal/modules/profile/usecase"
	reportinadapter "davomat/internal/modules/report/adapter/in"
	reportoutadapter "davomat/internal/modules/report/adapter/out"
	reportservice "davomat/internal/modules/report/service"
	reportusecase "davomat/internal/modules/report/usecase"
	sessioninadapter "davomat/internal/modules/session/adapter/in"
	sessiondto "davomat/internal/modules/session/dto"
	sessionoutadapter "davomat/internal/modules/session/adapter/out"
	sessionservice "davomat/internal/modules/session/service"
	sessionusecase "davomat/internal/modules/session/usecase"
	"davomat/internal/platform/clock"
	"davomat/internal/platform/config"
	"davomat/internal/platform/datalock"
	apperrors "davomat/internal/platform/errors"
	"davomat/internal/platform/id"
	"davomat/internal/platform/logging"
	"davomat/internal/platform/ratelimit"
	"davomat/internal/platform/telegram"
	uiapp "davomat/internal/ui/app"
)

// App holds the wired modules. Bot is nil when no token is configured; the
// notification and reply paths then fail instead of sending.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Bot    *tgbotapi.BotAPI

	Conversation conversationin.Usecase

	ProfileCLI      profileinadapter.CLIHandler
	SessionCLI      sessioninadapter.CLIHandler
	ReportCLI       reportinadapter.CLIHandler
	NotifyCLI       notifyinadapter.CLIHandler
	ConversationCLI conversationinadapter.CLIHandler
	DailyTrigger    *reportinadapter.DailyTrigger

	index *sessionoutadapter.SQLiteArchiveIndex
	lock  *datalock.Lock
}

// Options selects what New connects to. Online requires a bot token.
// Exclusive takes the data directory writer lock; commands that change
// open shifts need it.
type Options struct {
	Online    bool
	Exclusive bool
}

func New(cfg config.Config, opts Options) (app *App, err error) {
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	locale, err := clock.NewLocale(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	clk := clock.SystemClock{}

	var lock *datalock.Lock
	if opts.Exclusive {
		if lock, err = datalock.Acquire(cfg.DataDir); err != nil {
			return nil, err
		}
		defer func() {
			if err != nil {
				_ = lock.Release()
			}
		}()
	}

	var bot *tgbotapi.BotAPI
	var client telegram.Client = telegram.Offline{}
	if opts.Online {
		if err := cfg.RequireToken(); err != nil {
			return nil, err
		}
		bot, err = telegram.NewBot(cfg.BotToken, cfg.SendTimeout)
		if err != nil {
			return nil, err
		}
		client = bot
		logger.Info("connected to bot api", "bot", bot.Self.UserName)
	}

	profileStore, err := profileoutadapter.NewJSONProfileStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open profile store: %w", err)
	}
	profileUC := profileusecase.NewInteractor(profileservice.NewProfileService(clk), profileStore)

	notifyUC := notifyusecase.NewDispatcher(notifyoutadapter.NewTelegramSender(client), notifyusecase.Config{
		AdminChat: cfg.AdminID,
		GroupChat: cfg.GroupTarget(),
		Stickers:  cfg.AdminSticker,
		Timeout:   cfg.SendTimeout,
	}, logger.With("module", "notify"))

	archive, err := sessionoutadapter.NewJSONArchiveStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	reportUC := reportusecase.NewInteractor(reportusecase.Deps{
		Service:   reportservice.NewReportService(clk, locale),
		Archive:   archive,
		People:    reportoutadapter.NewProfileDirectoryAdapter(profileUC),
		Sheets:    reportoutadapter.NewExcelWorkbook(cfg.DataDir),
		Publisher: reportoutadapter.NewNotifyPublisherAdapter(notifyUC),
		DataDir:   cfg.DataDir,
		Logger:    logger.With("module", "report"),
	})

	openSessions, err := sessionoutadapter.NewJSONOpenSessionStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	index, err := sessionoutadapter.NewSQLiteArchiveIndex(cfg.IndexPath())
	if err != nil {
		return nil, fmt.Errorf("open archive index: %w", err)
	}
	sessionUC := sessionusecase.NewInteractor(sessionusecase.Deps{
		Service:  sessionservice.NewSessionService(clk, locale, id.UUID{}),
		Sessions: openSessions,
		Archive:  archive,
		Roster:   sessionoutadapter.NewReportRosterAdapter(reportUC),
		Profiles: sessionoutadapter.NewProfileDirectoryAdapter(profileUC),
		Index:    index,
		Tx:       index.Transactions(),
		Logger:   logger.With("module", "session"),
	})

	machine := conversationusecase.NewMachine(conversationusecase.Deps{
		Profiles: profileUC,
		Sessions: sessionUC,
		Notifier: notifyUC,
		Reports:  reportUC,
		States:   conversationoutadapter.NewMemoryStateStore(),
		Replier:  conversationoutadapter.NewTelegramReplier(client),
		Limiter:  ratelimit.NewMinuteCounter(clk, cfg.RateLimitPerMinute),
		Clock:    clk,
		Locale:   locale,
		AdminID:  cfg.AdminID,
		Timeout:  cfg.SendTimeout,
		Logger:   logger.With("module", "conversation"),
	})

	trigger, err := reportinadapter.NewDailyTrigger(reportUC, cfg.DailyReportCron, locale.Zone, logger.With("module", "cron"))
	if err != nil {
		_ = index.Close()
		return nil, err
	}

	return &App{
		Config:          cfg,
		Logger:          logger,
		Bot:             bot,
		Conversation:    machine,
		ProfileCLI:      profileinadapter.NewCLIHandler(profileUC),
		SessionCLI:      sessioninadapter.NewCLIHandler(sessionUC),
		ReportCLI:       reportinadapter.NewCLIHandler(reportUC),
		NotifyCLI:       notifyinadapter.NewCLIHandler(notifyUC),
		ConversationCLI: conversationinadapter.NewCLIHandler(machine),
		DailyTrigger:    trigger,
		index:           index,
		lock:            lock,
	}, nil
}

// Exclusive reports whether this process holds the writer lock.
func (a *App) Exclusive() bool { return a.lock != nil }

// Close releases the archive index and the writer lock.
func (a *App) Close() error {
	var err error
	if a.index != nil {
		err = a.index.Close()
	}
	if lockErr := a.lock.Release(); err == nil {
		err = lockErr
	}
	return err
}

// dashboardSessions refuses finalize while another process owns the data
// directory.
type dashboardSessions struct {
	sessioninadapter.CLIHandler
	readOnly bool
}

func (d dashboardSessions) Finalize(ctx context.Context, userID string) (sessiondto.ArchivedOutput, error) {
	if d.readOnly {
		return sessiondto.ArchivedOutput{}, fmt.Errorf("finalize %s: stop serve first: %w", userID, apperrors.ErrDataDirBusy)
	}
	return d.CLIHandler.Finalize(ctx, userID)
}

// RunTUI blocks until the dashboard exits. Without the writer lock the
// dashboard only reads.
func RunTUI(app *App) error {
	sessions := dashboardSessions{CLIHandler: app.SessionCLI, readOnly: !app.Exclusive()}
	model := uiapp.NewModel(sessions, app.ReportCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
