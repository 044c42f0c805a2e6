package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"davomat/internal/bootstrap"
	conversationinadapter "davomat/internal/modules/conversation/adapter/in"
	"davomat/internal/platform/config"
	apperrors "davomat/internal/platform/errors"
	"davomat/internal/platform/telegram"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "davomat",
		Short:         "Worker attendance bot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default davomat.yaml if present)")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newDashboardCmd(&configPath))
	root.AddCommand(newExportCmd(&configPath))
	root.AddCommand(newWorkersCmd(&configPath))
	root.AddCommand(newSessionCmd(&configPath))
	root.AddCommand(newStatsCmd(&configPath))
	root.AddCommand(newReindexCmd(&configPath))
	root.AddCommand(newDailyCmd(&configPath))
	root.AddCommand(newNotifyCmd(&configPath))
	return root
}

func loadApp(configPath string, opts bootstrap.Options) (*bootstrap.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, opts)
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot with long polling, or a webhook when webhook_url is set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, bootstrap.Options{Online: true, Exclusive: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app.DailyTrigger.Start()
			defer app.DailyTrigger.Stop()

			worker := conversationinadapter.NewWorker(app.Conversation, conversationinadapter.DefaultUpdateTimeout, app.Logger.With("component", "worker"))
			if app.Config.WebhookURL == "" {
				return servePolling(ctx, app, worker)
			}
			return serveWebhook(ctx, app, worker)
		},
	}
}

func servePolling(ctx context.Context, app *bootstrap.App, worker *conversationinadapter.Worker) error {
	if err := conversationinadapter.SetWebhook(app.Bot, ""); err != nil {
		return fmt.Errorf("remove webhook: %w", err)
	}
	poller := conversationinadapter.NewPoller(app.Bot, int(telegram.PollTimeout/time.Second))
	updates := poller.Updates()
	app.Logger.Info("polling for updates", "next_daily_report", app.DailyTrigger.Next())

	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx, updates)
	}()
	<-ctx.Done()
	poller.Stop()
	<-done
	logUnfinished(app)
	return nil
}

func serveWebhook(ctx context.Context, app *bootstrap.App, worker *conversationinadapter.Worker) error {
	hook, err := url.Parse(app.Config.WebhookURL)
	if err != nil {
		return fmt.Errorf("webhook url: %w", err)
	}
	path := hook.Path
	if path == "" {
		path = "/"
	}

	updates := make(chan tgbotapi.Update, 64)
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			app.Logger.Debug("request", "uri", v.URI, "status", v.Status)
			return nil
		},
	}))
	conversationinadapter.NewWebhookHandler(updates, app.Logger.With("component", "webhook")).RegisterRoutes(e, path)

	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx, updates)
	}()

	serverErr := make(chan error, 1)
	go func() {
		app.Logger.Info("listening for webhook", "addr", app.Config.HTTPAddr, "path", path)
		if err := e.Start(app.Config.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	if err := conversationinadapter.SetWebhook(app.Bot, app.Config.WebhookURL); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("http shutdown", "err", err)
	}
	<-done
	logUnfinished(app)
	return nil
}

// logUnfinished records conversations that were mid-flow at shutdown. Their
// steps are not persisted.
func logUnfinished(app *bootstrap.App) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	states, err := app.ConversationCLI.States(ctx)
	if err != nil {
		app.Logger.Error("list conversation steps", "err", err)
		return
	}
	for _, s := range states {
		app.Logger.Info("conversation step dropped", "user", s.UserID, "state", s.State)
	}
	app.Logger.Info("stopped", "conversations", len(states))
}

func newDashboardCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Browse open shifts, totals and workers in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, bootstrap.Options{Exclusive: true})
			if errors.Is(err, apperrors.ErrDataDirBusy) {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "data directory in use, dashboard is read-only")
				app, err = loadApp(*configPath, bootstrap.Options{})
			}
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(app)
		},
	}
}

func newExportCmd(configPath *string) *cobra.Command {
	var from, to string
	var preview bool
	export := &cobra.Command{
		Use:   "export",
		Short: "Write archived shifts in a date range to a spreadsheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			w := cmd.OutOrStdout()
			if preview {
				rows, err := app.ReportCLI.Preview(cmd.Context(), from, to)
				if err != nil {
					return err
				}
				if len(rows) == 0 {
					_, _ = fmt.Fprintln(w, "no shifts")
					return nil
				}
				for _, r := range rows {
					_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s-%s\t%s\t%.0f\n", r.Number, r.Date, r.Name, r.Object, r.StartTime, r.EndTime, r.Duration, r.TotalExpense)
				}
				return nil
			}
			out, err := app.ReportCLI.Export(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			if out.Path == "" {
				_, _ = fmt.Fprintln(w, "no shifts")
				return nil
			}
			_, _ = fmt.Fprintf(w, "wrote %d rows to %s\n", out.Rows, out.Path)
			return nil
		},
	}
	export.Flags().StringVar(&from, "from", "", "first date yyyy-mm-dd")
	export.Flags().StringVar(&to, "to", "", "last date yyyy-mm-dd")
	export.Flags().BoolVar(&preview, "preview", false, "print rows instead of writing a file")
	return export
}

func newWorkersCmd(configPath *string) *cobra.Command {
	var write bool
	workers := &cobra.Command{
		Use:   "workers",
		Short: "List registered workers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			w := cmd.OutOrStdout()
			if write {
				out, err := app.ReportCLI.WriteWorkers(cmd.Context())
				if err != nil {
					return err
				}
				if out.Path == "" {
					_, _ = fmt.Fprintln(w, "no workers")
					return nil
				}
				_, _ = fmt.Fprintf(w, "wrote %d workers to %s\n", out.Rows, out.Path)
				return nil
			}
			list, err := app.ReportCLI.Workers(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				_, _ = fmt.Fprintln(w, "no workers")
				return nil
			}
			for _, p := range list {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.Number, p.Name, p.Handle, p.Phone)
			}
			return nil
		},
	}
	workers.Flags().BoolVar(&write, "write", false, "write the list to a spreadsheet")

	var userID string
	show := &cobra.Command{
		Use:   "show --id <telegram id>",
		Short: "Show a worker profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(userID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(*configPath, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			p, err := app.ProfileCLI.Get(cmd.Context(), userID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %s\nname: %s\nhandle: %s\nphone: %s\npassport: %s (%d photos)\ndiploma: %s\nobject: %s\nlocation: %s\nregistered: %s\n",
				p.ID, p.Name, p.Handle, p.Phone, p.PassportSerial, len(p.PassportPhotos), p.DiplomaStatus, p.CurrentObject, p.LastLocation, p.RegisteredAt.Format(time.RFC3339))
			return nil
		},
	}
	show.Flags().StringVar(&userID, "id", "", "telegram id")
	workers.AddCommand(show)
	return workers
}

func newSessionCmd(configPath *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Inspect and settle shifts"}

	session.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List open shifts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			open, err := app.SessionCLI.ListOpen(cmd.Context())
			if err != nil {
				return err
			}
			if len(open) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no open shifts")
				return nil
			}
			for _, s := range open {
				state := "open"
				if s.EndedAt != nil {
					state = "ended " + s.EndTime
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s %s\t%s\texpenses=%.0f\n", s.UserID, s.Object, s.Date, s.StartTime, state, s.TotalExpense)
			}
			return nil
		},
	})

	var userID string
	finalize := &cobra.Command{
		Use:   "finalize --user <telegram id>",
		Short: "Retry archiving an ended shift",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(userID) == "" {
				return fmt.Errorf("--user is required")
			}
			app, err := loadApp(*configPath, bootstrap.Options{Exclusive: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.Finalize(cmd.Context(), userID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "archived %s %s %s duration=%s\n", out.TelegramID, out.Object, out.Date, out.Duration)
			return nil
		},
	}
	finalize.Flags().StringVar(&userID, "user", "", "telegram id")

	session.AddCommand(finalize)
	return session
}

func newStatsCmd(configPath *string) *cobra.Command {
	var from, to string
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Summarize hours and expenses per worker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			summaries, err := app.SessionCLI.Stats(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no shifts")
				return nil
			}
			for _, s := range summaries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tshifts=%d\thours=%d:%02d\texpenses=%.0f\n", s.TelegramID, s.Name, s.Shifts, s.Minutes/60, s.Minutes%60, s.TotalExpense)
			}
			return nil
		},
	}
	stats.Flags().StringVar(&from, "from", "", "first date yyyy-mm-dd")
	stats.Flags().StringVar(&to, "to", "", "last date yyyy-mm-dd")
	return stats
}

func newReindexCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the SQLite index from the archive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			n, err := app.SessionCLI.Reindex(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reindexed %d shifts\n", n)
			return nil
		},
	}
}

func newDailyCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Send today's report to the admin and group now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, bootstrap.Options{Online: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if err := app.ReportCLI.SendDaily(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "daily report sent")
			return nil
		},
	}
}

func newNotifyCmd(configPath *string) *cobra.Command {
	notify := &cobra.Command{Use: "notify", Short: "Notification checks"}
	notify.AddCommand(&cobra.Command{
		Use:   "ping [text]",
		Short: "Send a text to the admin and group chats",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := "ping"
			if len(args) == 1 {
				text = args[0]
			}
			app, err := loadApp(*configPath, bootstrap.Options{Online: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			report := app.NotifyCLI.Ping(cmd.Context(), text)
			if len(report.Deliveries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no targets configured")
				return nil
			}
			for _, d := range report.Deliveries {
				status := "ok"
				if d.Error != "" {
					status = d.Error
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", d.Audience, d.ChatID, status)
			}
			if failed := report.Failed(); failed > 0 {
				return fmt.Errorf("%d deliveries failed", failed)
			}
			return nil
		},
	})
	return notify
}
