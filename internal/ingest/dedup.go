package ingest

import (
	"time"

	"github.com/MikeSquared-Agency/scribe/internal/chat"
)

// dedupWindow is the tolerance for matching message timestamps across
// two exports of the same chat.
const dedupWindow = 1 * time.Second

// overlapThreshold is the fraction of timestamps that must match for two
// exports to be considered the same chat re-exported.
const overlapThreshold = 0.8

// fileFingerprint holds timing + content info for re-export detection.
type fileFingerprint struct {
	Path       string
	Timestamps []time.Time
	Previews   []string // first 3 message texts (trimmed)
}

// BuildFingerprint creates a fingerprint from parsed messages.
func BuildFingerprint(path string, msgs []chat.Message) fileFingerprint {
	fp := fileFingerprint{Path: path}

	for _, m := range msgs {
		if !m.Timestamp.IsZero() {
			fp.Timestamps = append(fp.Timestamps, m.Timestamp)
		}
	}

	for i, m := range msgs {
		if i >= 3 {
			break
		}
		text := m.Text
		if len(text) > 100 {
			text = text[:100]
		}
		fp.Previews = append(fp.Previews, text)
	}

	return fp
}

// FindDuplicates returns candidate file paths whose content overlaps an
// already-accepted file (earlier exports win).
func FindDuplicates(accepted, candidates []fileFingerprint) map[string]bool {
	duplicates := make(map[string]bool)

	for _, cand := range candidates {
		if len(cand.Timestamps) == 0 {
			continue
		}
		for _, acc := range accepted {
			if isOverlapping(acc, cand) {
				duplicates[cand.Path] = true
				break
			}
		}
	}

	return duplicates
}

// isOverlapping checks if >80% of b's timestamps appear in a within the
// dedupWindow.
func isOverlapping(a, b fileFingerprint) bool {
	if len(b.Timestamps) == 0 {
		return false
	}

	matches := 0
	for _, bt := range b.Timestamps {
		for _, at := range a.Timestamps {
			diff := bt.Sub(at)
			if diff < 0 {
				diff = -diff
			}
			if diff <= dedupWindow {
				matches++
				break
			}
		}
	}

	return float64(matches)/float64(len(b.Timestamps)) >= overlapThreshold
}
