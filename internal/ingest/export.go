package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/MikeSquared-Agency/scribe/internal/chat"
)

// csvColumns is the tabular output contract consumed by the dashboard
// layer, one row per record in source order.
var csvColumns = []string{"timestamp", "username", "message", "type", "conversation_id"}

// WriteCSV renders parsed messages as CSV. The header row is always
// written, so zero records still produce the columns. Absent timestamps
// become empty cells; parsed ones are RFC 3339.
func WriteCSV(w io.Writer, msgs []chat.Message) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, m := range msgs {
		ts := ""
		if !m.Timestamp.IsZero() {
			ts = m.Timestamp.Format(time.RFC3339)
		}
		row := []string{ts, m.Username, m.Text, m.Type, strconv.Itoa(m.ConversationID)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
