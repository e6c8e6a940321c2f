package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/scribe/internal/chat"
	"github.com/MikeSquared-Agency/scribe/internal/hermes"
	"github.com/MikeSquared-Agency/scribe/internal/ingest"
	"github.com/MikeSquared-Agency/scribe/internal/slack"
	"github.com/MikeSquared-Agency/scribe/internal/store"
)

// Processor reacts to export-dropped events on the swarm bus and runs
// each dropped file through the parse/store pipeline.
type Processor struct {
	store   *store.Store
	hermes  *hermes.Client
	slack   *slack.Poster
	parser  *chat.Parser
	logger  *slog.Logger
	chatDir string
}

func New(s *store.Store, h *hermes.Client, sl *slack.Poster, chatDir string, logger *slog.Logger) *Processor {
	return &Processor{
		store:   s,
		hermes:  h,
		slack:   sl,
		parser:  chat.NewParser(logger),
		logger:  logger,
		chatDir: chatDir,
	}
}

// HandleExportDropped is the NATS handler for swarm.chronicle.export.dropped.
func (p *Processor) HandleExportDropped(subject string, data []byte) {
	ctx := context.Background()

	var evt hermes.ExportDroppedEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse export event", "error", err)
		return
	}

	path, err := p.resolvePath(evt)
	if err != nil {
		p.logger.Error("rejected export path", "path", evt.Path, "error", err)
		return
	}

	p.logger.Info("processing dropped export", "path", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		p.logger.Error("failed to read export", "path", path, "error", err)
		return
	}

	res := p.parser.Parse(ingest.DecodeText(raw))
	if len(res.Messages) == 0 {
		p.logger.Warn("export produced no messages, skipping", "path", path)
		return
	}

	name := evt.Name
	if name == "" {
		name = filepath.Base(path)
	}

	id, err := p.store.WriteTranscript(ctx, name, "bus", res)
	if err != nil {
		p.logger.Error("failed to persist export", "path", path, "error", err)
		return
	}

	p.logger.Info("export ingested",
		"transcript_id", id,
		"messages", len(res.Messages),
		"conversations", len(res.Conversations),
		"warnings", len(res.Warnings),
	)

	if p.hermes != nil {
		event := hermes.IngestedEvent{
			TranscriptID:  id.String(),
			Name:          name,
			Source:        "bus",
			Messages:      len(res.Messages),
			Conversations: len(res.Conversations),
			Warnings:      len(res.Warnings),
			IngestedAt:    time.Now().UTC().Format(time.RFC3339),
		}
		if err := p.hermes.Publish(hermes.SubjectIngested, event); err != nil {
			p.logger.Warn("failed to publish ingested event", "error", err)
		}
	}

	if p.slack != nil {
		text := fmt.Sprintf(":inbox_tray: Ingested *%s*: %d messages, %d conversations",
			name, len(res.Messages), len(res.Conversations))
		if err := p.slack.PostMessage(ctx, text); err != nil {
			p.logger.Warn("failed to post slack notification", "error", err)
		}
	}
}

// resolvePath confines event paths to the configured chat directory so a
// bus message cannot make us read arbitrary files.
func (p *Processor) resolvePath(evt hermes.ExportDroppedEvent) (string, error) {
	path := evt.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.chatDir, path)
	}
	path = filepath.Clean(path)

	dir := filepath.Clean(p.chatDir)
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes chat directory %q", evt.Path, dir)
	}
	return path, nil
}
