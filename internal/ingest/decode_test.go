package ingest

import (
	"testing"
	"unicode/utf8"
)

func TestDecodeText_ValidUTF8(t *testing.T) {
	in := []byte("[1/2/23, 9:05 AM] Alice: caffè 🎉")
	got := DecodeText(in)
	if got != string(in) {
		t.Errorf("DecodeText changed valid UTF-8: %q", got)
	}
}

func TestDecodeText_Latin1Fallback(t *testing.T) {
	// "café" in Latin-1: é is a lone 0xE9 byte, invalid as UTF-8.
	in := []byte{'c', 'a', 'f', 0xE9}
	got := DecodeText(in)

	if !utf8.ValidString(got) {
		t.Fatalf("fallback produced invalid UTF-8: %q", got)
	}
	if got != "café" {
		t.Errorf("DecodeText = %q, want 'café'", got)
	}
}

func TestDecodeText_Empty(t *testing.T) {
	if got := DecodeText(nil); got != "" {
		t.Errorf("DecodeText(nil) = %q, want empty", got)
	}
}
