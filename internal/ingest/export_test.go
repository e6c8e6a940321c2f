package ingest

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/scribe/internal/chat"
)

func TestWriteCSV_Rows(t *testing.T) {
	base := time.Date(2023, 1, 2, 9, 5, 0, 0, time.UTC)
	msgs := []chat.Message{
		{Timestamp: base, Username: "Alice", Text: "hello, world", Type: chat.TypeText, ConversationID: 0},
		{Username: "Bob", Text: "no clock", Type: chat.TypeText, ConversationID: 1},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, msgs); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}

	header := strings.Join(records[0], ",")
	if header != "timestamp,username,message,type,conversation_id" {
		t.Errorf("header = %q", header)
	}
	if records[1][0] != "2023-01-02T09:05:00Z" {
		t.Errorf("row 1 timestamp = %q", records[1][0])
	}
	if records[1][2] != "hello, world" {
		t.Errorf("row 1 message = %q (comma must survive quoting)", records[1][2])
	}
	// Absent timestamp is an empty cell.
	if records[2][0] != "" {
		t.Errorf("row 2 timestamp = %q, want empty", records[2][0])
	}
	if records[2][4] != "1" {
		t.Errorf("row 2 conversation_id = %q, want 1", records[2][4])
	}
}

func TestWriteCSV_EmptyStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	out := strings.TrimSpace(buf.String())
	if out != "timestamp,username,message,type,conversation_id" {
		t.Errorf("empty export = %q, want header only", out)
	}
}
