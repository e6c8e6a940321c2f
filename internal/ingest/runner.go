package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/scribe/internal/chat"
	"github.com/MikeSquared-Agency/scribe/internal/hermes"
	"github.com/MikeSquared-Agency/scribe/internal/slack"
	"github.com/MikeSquared-Agency/scribe/internal/store"
)

// Config holds the backfill command configuration.
type Config struct {
	ChatDir      string
	DryRun       bool
	MinMessages  int
	SingleFile   string // process a single file only
	Source       string // source label for persisted records (default: "backfill")
	SlackToken   string // optional: Slack bot token for posting summaries
	SlackChannel string // optional: Slack channel for summaries
}

// FileSummary accumulates per-file results for the batch summary.
type FileSummary struct {
	Path          string
	Date          string
	Messages      int
	Conversations int
	Warnings      int
	Errors        int
}

// Runner orchestrates directory backfill: discover exports, decode,
// parse, dedup re-exports, persist and announce.
type Runner struct {
	cfg    Config
	store  *store.Store
	parser *chat.Parser
	hermes *hermes.Client
	slack  *slack.Poster
	logger *slog.Logger
}

// NewRunner creates a backfill runner. hermes may be nil (no events
// published, e.g. dry runs without a bus).
func NewRunner(cfg Config, s *store.Store, h *hermes.Client, logger *slog.Logger) *Runner {
	r := &Runner{
		cfg:    cfg,
		store:  s,
		parser: chat.NewParser(logger),
		hermes: h,
		logger: logger,
	}

	if cfg.SlackToken != "" && cfg.SlackChannel != "" {
		r.slack = slack.NewPoster(cfg.SlackToken, cfg.SlackChannel, logger)
	}

	return r
}

func (r *Runner) sourceLabel() string {
	if r.cfg.Source != "" {
		return r.cfg.Source
	}
	return "backfill"
}

// Run executes the backfill process.
func (r *Runner) Run(ctx context.Context) error {
	state, err := LoadState()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	files, err := r.discoverFiles()
	if err != nil {
		return fmt.Errorf("discover files: %w", err)
	}
	r.logger.Info("files discovered", "count", len(files))

	// Parse everything up front so re-exports can be fingerprinted
	// against each other before any write happens.
	type parsedFile struct {
		path string
		res  *chat.Result
		fp   fileFingerprint
	}

	var parsed []parsedFile
	for _, path := range files {
		if state.IsProcessed(path) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("failed to read export", "path", path, "error", err)
			state.AddError(fmt.Sprintf("read %s: %v", path, err))
			continue
		}
		res := r.parser.Parse(DecodeText(data))
		if len(res.Messages) < r.cfg.MinMessages {
			continue
		}
		fp := BuildFingerprint(path, res.Messages)
		parsed = append(parsed, parsedFile{path: path, res: res, fp: fp})
	}

	// Dedup: each file is checked against those accepted before it.
	var accepted []parsedFile
	var acceptedFPs []fileFingerprint
	for _, pf := range parsed {
		if dup := FindDuplicates(acceptedFPs, []fileFingerprint{pf.fp}); dup[pf.path] {
			r.logger.Info("skipping re-exported chat", "path", pf.path)
			state.MarkProcessed(pf.path)
			continue
		}
		accepted = append(accepted, pf)
		acceptedFPs = append(acceptedFPs, pf.fp)
	}

	state.FilesRemaining = len(accepted)
	r.logger.Info("files to process",
		"total", len(accepted),
		"skipped_duplicates", len(parsed)-len(accepted),
	)

	var summaries []FileSummary

	for _, pf := range accepted {
		select {
		case <-ctx.Done():
			r.logger.Info("backfill interrupted, saving state")
			_ = state.Save()
			r.postBatchSummary(ctx, summaries)
			return ctx.Err()
		default:
		}

		r.logger.Info("processing export",
			"path", pf.path,
			"messages", len(pf.res.Messages),
			"conversations", len(pf.res.Conversations),
			"warnings", len(pf.res.Warnings),
		)

		fs := FileSummary{
			Path:          pf.path,
			Messages:      len(pf.res.Messages),
			Conversations: len(pf.res.Conversations),
			Warnings:      len(pf.res.Warnings),
		}
		if len(pf.res.Messages) > 0 && !pf.res.Messages[0].Timestamp.IsZero() {
			fs.Date = pf.res.Messages[0].Timestamp.Format("2006-01-02")
		}

		if !r.cfg.DryRun {
			id, err := r.store.WriteTranscript(ctx, filepath.Base(pf.path), r.sourceLabel(), pf.res)
			if err != nil {
				r.logger.Error("persist failed", "path", pf.path, "error", err)
				state.AddError(fmt.Sprintf("persist %s: %v", pf.path, err))
				fs.Errors++
				summaries = append(summaries, fs)
				continue
			}

			if r.hermes != nil {
				event := hermes.IngestedEvent{
					TranscriptID:  id.String(),
					Name:          filepath.Base(pf.path),
					Source:        r.sourceLabel(),
					Messages:      len(pf.res.Messages),
					Conversations: len(pf.res.Conversations),
					Warnings:      len(pf.res.Warnings),
					IngestedAt:    time.Now().UTC().Format(time.RFC3339),
				}
				if err := r.hermes.Publish(hermes.SubjectIngested, event); err != nil {
					r.logger.Warn("failed to publish ingest event", "path", pf.path, "error", err)
				}
			}
		}

		state.MessagesParsed += len(pf.res.Messages)
		state.ConversationsFound += len(pf.res.Conversations)
		state.MarkProcessed(pf.path)
		state.FilesRemaining--
		summaries = append(summaries, fs)
		_ = state.Save()
	}

	_ = state.Save()
	r.postBatchSummary(ctx, summaries)

	r.logger.Info("backfill complete",
		"files_processed", len(accepted),
		"messages_parsed", state.MessagesParsed,
		"conversations_found", state.ConversationsFound,
		"dry_run", r.cfg.DryRun,
	)

	fmt.Printf("\n=== Ingest Summary ===\n")
	fmt.Printf("Files processed: %d\n", len(accepted))
	fmt.Printf("Messages parsed: %d\n", state.MessagesParsed)
	fmt.Printf("Conversations found: %d\n", state.ConversationsFound)
	fmt.Printf("Errors: %d\n", len(state.Errors))
	if r.cfg.DryRun {
		fmt.Printf("Mode: DRY RUN (no DB writes)\n")
	}
	fmt.Printf("State file: %s\n", ExpandHome(defaultStatePath))

	return nil
}

// postBatchSummary posts an ingest summary to Slack, grouped by date.
// If Slack is not configured, it logs the summary instead.
func (r *Runner) postBatchSummary(ctx context.Context, summaries []FileSummary) {
	if len(summaries) == 0 {
		return
	}

	text := FormatBatchSummary(summaries)

	if r.slack == nil {
		r.logger.Info("ingest batch summary (no Slack configured)", "summary", text)
		return
	}

	if err := r.slack.PostMessage(ctx, text); err != nil {
		r.logger.Warn("failed to post batch summary to Slack, logging instead",
			"error", err,
			"summary", text,
		)
	}
}

// FormatBatchSummary formats file summaries grouped by first-message date.
func FormatBatchSummary(summaries []FileSummary) string {
	byDate := make(map[string][]FileSummary)
	for _, s := range summaries {
		date := s.Date
		if date == "" {
			date = "unknown"
		}
		byDate[date] = append(byDate[date], s)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var sb strings.Builder
	sb.WriteString("*Scribe Ingest Summary*\n")

	for _, date := range dates {
		files := byDate[date]
		totalMsgs, totalConvs := 0, 0
		for _, f := range files {
			totalMsgs += f.Messages
			totalConvs += f.Conversations
		}
		fmt.Fprintf(&sb, "\n*%s* (%d files, %d messages, %d conversations)\n", date, len(files), totalMsgs, totalConvs)
		for _, f := range files {
			name := filepath.Base(f.Path)
			fmt.Fprintf(&sb, "  - %s: %d msgs, %d convs", name, f.Messages, f.Conversations)
			if f.Warnings > 0 {
				fmt.Fprintf(&sb, " (%d warnings)", f.Warnings)
			}
			if f.Errors > 0 {
				fmt.Fprintf(&sb, " (%d errors)", f.Errors)
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (r *Runner) discoverFiles() ([]string, error) {
	if r.cfg.SingleFile != "" {
		path := ExpandHome(r.cfg.SingleFile)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("single file not found: %s", path)
		}
		return []string{path}, nil
	}

	dir := ExpandHome(r.cfg.ChatDir)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("chat dir not found: %s", dir)
	}

	var files []string
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".txt") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		r.logger.Warn("error walking chat dir", "dir", dir, "error", err)
	}

	sort.Strings(files)
	return files, nil
}
