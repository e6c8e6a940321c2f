package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/MikeSquared-Agency/scribe/internal/chat"
	"github.com/MikeSquared-Agency/scribe/internal/hermes"
	"github.com/MikeSquared-Agency/scribe/internal/ingest"
	"github.com/MikeSquared-Agency/scribe/internal/stats"
)

type uploadResponse struct {
	ID            uuid.UUID `json:"id"`
	Messages      int       `json:"messages"`
	Conversations int       `json:"conversations"`
	Warnings      []string  `json:"warnings"`
}

func (s *Server) uploadTranscript(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 64<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "no input provided")
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload-" + time.Now().UTC().Format("20060102-150405")
	}

	res := s.parser.Parse(ingest.DecodeText(body))

	id, err := s.store.WriteTranscript(r.Context(), name, "api", res)
	if err != nil {
		s.logger.Error("failed to persist transcript", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to persist transcript")
		return
	}

	if s.bus != nil {
		event := hermes.IngestedEvent{
			TranscriptID:  id.String(),
			Name:          name,
			Source:        "api",
			Messages:      len(res.Messages),
			Conversations: len(res.Conversations),
			Warnings:      len(res.Warnings),
			IngestedAt:    time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.bus.Publish(hermes.SubjectIngested, event); err != nil {
			s.logger.Warn("failed to publish ingested event", "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		ID:            id,
		Messages:      len(res.Messages),
		Conversations: len(res.Conversations),
		Warnings:      res.Warnings,
	})
}

func (s *Server) listTranscripts(w http.ResponseWriter, r *http.Request) {
	transcripts, err := s.store.ListTranscripts(r.Context())
	if err != nil {
		s.logger.Error("failed to list transcripts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transcripts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transcripts": transcripts})
}

func (s *Server) loadMessages(w http.ResponseWriter, r *http.Request) ([]chat.Message, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transcript id")
		return nil, false
	}
	if _, err := s.store.GetTranscript(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "transcript not found")
		} else {
			s.logger.Error("failed to load transcript", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load transcript")
		}
		return nil, false
	}
	msgs, err := s.store.ListMessages(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to load messages", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load messages")
		return nil, false
	}
	return msgs, true
}

type messageRow struct {
	Timestamp      *time.Time `json:"timestamp"`
	Username       string     `json:"username"`
	Message        string     `json:"message"`
	Type           string     `json:"type"`
	ConversationID int        `json:"conversation_id"`
}

func (s *Server) getMessages(w http.ResponseWriter, r *http.Request) {
	msgs, ok := s.loadMessages(w, r)
	if !ok {
		return
	}
	rows := make([]messageRow, 0, len(msgs))
	for _, m := range msgs {
		row := messageRow{
			Username:       m.Username,
			Message:        m.Text,
			Type:           m.Type,
			ConversationID: m.ConversationID,
		}
		if !m.Timestamp.IsZero() {
			ts := m.Timestamp
			row.Timestamp = &ts
		}
		rows = append(rows, row)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"columns": []string{"timestamp", "username", "message", "type", "conversation_id"},
		"rows":    rows,
	})
}

func (s *Server) getMessagesCSV(w http.ResponseWriter, r *http.Request) {
	msgs, ok := s.loadMessages(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="messages.csv"`)
	if err := ingest.WriteCSV(w, msgs); err != nil {
		s.logger.Error("failed to write csv", "error", err)
	}
}

func (s *Server) getUserStats(w http.ResponseWriter, r *http.Request) {
	msgs, ok := s.loadMessages(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": stats.PerUser(msgs)})
}

func (s *Server) getOverview(w http.ResponseWriter, r *http.Request) {
	msgs, ok := s.loadMessages(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"overview":         stats.ComputeOverview(msgs),
		"daily_volume":     stats.DailyVolume(msgs),
		"hourly_histogram": stats.HourlyHistogram(msgs),
		"type_breakdown":   stats.TypeBreakdown(msgs),
		"top_contributors": stats.TopContributors(msgs, 10),
	})
}
