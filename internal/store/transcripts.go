package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/MikeSquared-Agency/scribe/internal/chat"
)

// Transcript is one ingested chat export.
// Tables: transcripts, messages.
type Transcript struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Source        string    `json:"source"`
	Messages      int       `json:"messages"`
	Conversations int       `json:"conversations"`
	Warnings      []string  `json:"warnings"`
	IngestedAt    time.Time `json:"ingested_at"`
}

// WriteTranscript writes a parse result as one transcript plus its
// message rows in a single transaction. Absent timestamps are stored as
// NULL, never as a zero date.
func (s *Store) WriteTranscript(ctx context.Context, name, source string, res *chat.Result) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	transcriptID := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO transcripts (id, name, source, message_count, conversation_count, warnings, ingested_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`,
		transcriptID, name, source, len(res.Messages), len(res.Conversations), res.Warnings,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert transcript: %w", err)
	}

	for seq, m := range res.Messages {
		var ts *time.Time
		if !m.Timestamp.IsZero() {
			t := m.Timestamp
			ts = &t
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO messages (id, transcript_id, seq, ts, username, message, type, conversation_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), transcriptID, seq, ts, m.Username, m.Text, m.Type, m.ConversationID,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert message %d: %w", seq, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}

	return transcriptID, nil
}

// GetTranscript fetches one transcript's metadata.
func (s *Store) GetTranscript(ctx context.Context, id uuid.UUID) (Transcript, error) {
	var t Transcript
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, source, message_count, conversation_count, warnings, ingested_at
		FROM transcripts WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Source, &t.Messages, &t.Conversations, &t.Warnings, &t.IngestedAt)
	if err != nil {
		return Transcript{}, fmt.Errorf("get transcript: %w", err)
	}
	return t, nil
}

// ListTranscripts returns all transcripts, newest first.
func (s *Store) ListTranscripts(ctx context.Context) ([]Transcript, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, source, message_count, conversation_count, warnings, ingested_at
		FROM transcripts ORDER BY ingested_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	defer rows.Close()

	var out []Transcript
	for rows.Next() {
		var t Transcript
		if err := rows.Scan(&t.ID, &t.Name, &t.Source, &t.Messages, &t.Conversations, &t.Warnings, &t.IngestedAt); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListMessages returns a transcript's records in source order. NULL
// fields are filled with the parser's sentinels so callers never see
// absent usernames or bodies.
func (s *Store) ListMessages(ctx context.Context, transcriptID uuid.UUID) ([]chat.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ts, username, message, type, conversation_id
		FROM messages WHERE transcript_id = $1 ORDER BY seq`, transcriptID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []chat.Message
	for rows.Next() {
		var (
			ts       *time.Time
			username *string
			body     *string
			m        chat.Message
		)
		if err := rows.Scan(&ts, &username, &body, &m.Type, &m.ConversationID); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if ts != nil {
			m.Timestamp = *ts
		}
		if username != nil && *username != "" {
			m.Username = *username
		} else {
			m.Username = chat.UnknownUser
		}
		if body != nil {
			m.Text = *body
		}
		if m.Type == "" {
			m.Type = chat.TypeText
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteTranscript removes a transcript and its messages.
func (s *Store) DeleteTranscript(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE transcript_id = $1`, id); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM transcripts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete transcript: %w", err)
	}
	return tx.Commit(ctx)
}
