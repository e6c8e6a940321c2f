package processor

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/MikeSquared-Agency/scribe/internal/hermes"
)

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	p := New(nil, nil, nil, dir, slog.Default())

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"relative inside", "export.txt", filepath.Join(dir, "export.txt"), false},
		{"absolute inside", filepath.Join(dir, "a", "export.txt"), filepath.Join(dir, "a", "export.txt"), false},
		{"traversal", "../outside.txt", "", true},
		{"absolute outside", "/etc/passwd", "", true},
		{"cleaned traversal", "sub/../../outside.txt", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.resolvePath(hermes.ExportDroppedEvent{Path: tt.path})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got path %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
