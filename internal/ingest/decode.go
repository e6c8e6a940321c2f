package ingest

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeText interprets raw export bytes as UTF-8, falling back to a
// Latin-1 decode when the bytes are not valid UTF-8. No other encodings
// are attempted; the parser itself only ever sees valid text.
func DecodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}
