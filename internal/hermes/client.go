package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects scribe speaks on the swarm bus.
const (
	// SubjectIngested announces a transcript that has been parsed and
	// stored, for downstream consumers (dashboard cache, chronicle).
	SubjectIngested = "swarm.scribe.transcript.ingested"

	// SubjectExportDropped is published by upload collaborators when a
	// new chat export file lands; scribe subscribes and ingests it.
	SubjectExportDropped = "swarm.chronicle.export.dropped"

	// SubjectRegistered announces scribe coming online.
	SubjectRegistered = "swarm.agent.scribe.registered"
)

// IngestedEvent is the payload published on SubjectIngested.
type IngestedEvent struct {
	TranscriptID  string `json:"transcript_id"`
	Name          string `json:"name"`
	Source        string `json:"source"` // "upload", "backfill" or "bus"
	Messages      int    `json:"messages"`
	Conversations int    `json:"conversations"`
	Warnings      int    `json:"warnings"`
	IngestedAt    string `json:"ingested_at"` // RFC 3339
}

// ExportDroppedEvent is the payload received on SubjectExportDropped.
type ExportDroppedEvent struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
