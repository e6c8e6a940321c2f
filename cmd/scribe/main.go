package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/scribe/internal/api"
	"github.com/MikeSquared-Agency/scribe/internal/config"
	"github.com/MikeSquared-Agency/scribe/internal/hermes"
	"github.com/MikeSquared-Agency/scribe/internal/ingest"
	"github.com/MikeSquared-Agency/scribe/internal/processor"
	"github.com/MikeSquared-Agency/scribe/internal/slack"
	"github.com/MikeSquared-Agency/scribe/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	if len(os.Args) > 1 && os.Args[1] == "backfill" {
		runBackfill(cfg, os.Args[2:])
		return
	}

	slog.Info("scribe starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	// NATS/Hermes
	hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer hermesClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	// Slack poster (optional — scribe works without Slack, just no notifications)
	var slackPoster *slack.Poster
	if cfg.SlackToken != "" && cfg.SlackChannel != "" {
		slackPoster = slack.NewPoster(cfg.SlackToken, cfg.SlackChannel, slog.Default())
		slog.Info("slack poster ready", "channel", cfg.SlackChannel)
	} else {
		slog.Warn("slack not configured — running without notifications")
	}

	// Processor — ingests exports dropped on the bus
	chatDir := ingest.ExpandHome(cfg.ChatDir)
	proc := processor.New(db, hermesClient, slackPoster, chatDir, slog.Default())

	if err := hermesClient.Subscribe(hermes.SubjectExportDropped, proc.HandleExportDropped); err != nil {
		slog.Error("failed to subscribe to export events", "error", err)
		os.Exit(1)
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, db, hermesClient, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if err := hermesClient.Publish(hermes.SubjectRegistered, map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      cfg.Port,
	}); err != nil {
		slog.Warn("failed to publish registration", "error", err)
	}

	slog.Info("scribe ready", "port", cfg.Port, "chat_dir", chatDir)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("scribe stopped")
}

// runBackfill ingests a directory of chat export files in one pass,
// then exits. Resumable via the state file.
func runBackfill(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("backfill", flag.ExitOnError)
	dir := fs.String("dir", cfg.ChatDir, "directory of chat export files")
	dryRun := fs.Bool("dry-run", false, "parse and report without writing to the database")
	singleFile := fs.String("file", "", "process a single export file")
	minMessages := fs.Int("min-messages", 1, "skip files with fewer parsed messages")
	fs.Parse(args)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var db *store.Store
	if !*dryRun {
		if cfg.DatabaseURL == "" {
			slog.Error("DATABASE_URL is required")
			os.Exit(1)
		}
		var err error
		db, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	var hermesClient *hermes.Client
	if !*dryRun {
		var err error
		hermesClient, err = hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Warn("NATS unavailable, backfilling without events", "error", err)
		} else {
			defer hermesClient.Close()
		}
	}

	runner := ingest.NewRunner(ingest.Config{
		ChatDir:      *dir,
		DryRun:       *dryRun,
		MinMessages:  *minMessages,
		SingleFile:   *singleFile,
		Source:       "backfill",
		SlackToken:   cfg.SlackToken,
		SlackChannel: cfg.SlackChannel,
	}, db, hermesClient, slog.Default())

	if err := runner.Run(ctx); err != nil {
		slog.Error("backfill failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
