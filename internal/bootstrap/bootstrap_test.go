package bootstrap_test

import (
	"context"
	"errors"
	"testing"

	"davomat/internal/bootstrap"
	conversationdto "davomat/internal/modules/conversation/dto"
	"davomat/internal/platform/config"
	apperrors "davomat/internal/platform/errors"
)

func offlineConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.DataDir = t.TempDir()
	cfg.LogLevel = "error"
	cfg.AdminID = "1"
	return cfg
}

func TestNewOfflineWiresModules(t *testing.T) {
	t.Parallel()
	app, err := bootstrap.New(offlineConfig(t), bootstrap.Options{})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	ctx := context.Background()

	if app.Bot != nil {
		t.Fatalf("expected no bot offline")
	}
	err = app.Conversation.Handle(ctx, conversationdto.UpdateInput{ChatID: 42, UserID: "42", Username: "ali", Private: true, Kind: "start"})
	if err != nil {
		t.Fatalf("handle start: %v", err)
	}
	profile, err := app.ProfileCLI.Get(ctx, "42")
	if err != nil {
		t.Fatalf("registered profile: %v", err)
	}
	if profile.Username != "ali" {
		t.Fatalf("unexpected username %q", profile.Username)
	}
	states, err := app.ConversationCLI.States(ctx)
	if err != nil || len(states) != 1 || states[0].State != "awaiting_name" {
		t.Fatalf("unexpected states %+v err=%v", states, err)
	}

	open, err := app.SessionCLI.ListOpen(ctx)
	if err != nil || len(open) != 0 {
		t.Fatalf("unexpected open sessions %+v err=%v", open, err)
	}
	n, err := app.SessionCLI.Reindex(ctx)
	if err != nil || n != 0 {
		t.Fatalf("reindex empty archive: n=%d err=%v", n, err)
	}
	out, err := app.ReportCLI.Export(ctx, "", "")
	if err != nil || out.Path != "" {
		t.Fatalf("export of empty archive: %+v err=%v", out, err)
	}
	if report := app.NotifyCLI.Ping(ctx, "ping"); report.Failed() == 0 {
		t.Fatalf("offline ping should fail, got %+v", report)
	}
}

func TestNewOnlineRequiresToken(t *testing.T) {
	t.Parallel()
	_, err := bootstrap.New(offlineConfig(t), bootstrap.Options{Online: true})
	if !errors.Is(err, apperrors.ErrMissingCredential) {
		t.Fatalf("expected missing credential, got %v", err)
	}
}

func TestExclusiveAppsShareNoDataDir(t *testing.T) {
	t.Parallel()
	cfg := offlineConfig(t)
	first, err := bootstrap.New(cfg, bootstrap.Options{Exclusive: true})
	if err != nil {
		t.Fatalf("first app: %v", err)
	}
	if !first.Exclusive() {
		t.Fatalf("first app should hold the writer lock")
	}
	if _, err := bootstrap.New(cfg, bootstrap.Options{Exclusive: true}); !errors.Is(err, apperrors.ErrDataDirBusy) {
		t.Fatalf("expected ErrDataDirBusy, got %v", err)
	}

	reader, err := bootstrap.New(cfg, bootstrap.Options{})
	if err != nil {
		t.Fatalf("shared app: %v", err)
	}
	if reader.Exclusive() {
		t.Fatalf("shared app must not hold the lock")
	}
	_ = reader.Close()

	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	again, err := bootstrap.New(cfg, bootstrap.Options{Exclusive: true})
	if err != nil {
		t.Fatalf("lock after close: %v", err)
	}
	_ = again.Close()
}
