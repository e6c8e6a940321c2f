package chat

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order: two-digit year without seconds,
// four-digit year without seconds, then the same pair with seconds.
// All use a 12-hour clock with a meridiem marker.
//
// Two-digit years follow the stdlib time package's century rule:
// 69–99 parse as 19xx, 00–68 as 20xx.
var timestampLayouts = []string{
	"1/2/06, 3:04 PM",
	"1/2/2006, 3:04 PM",
	"1/2/06, 3:04:05 PM",
	"1/2/2006, 3:04:05 PM",
}

// parseTimestamp converts a (date, time) string pair into a time.Time.
// The meridiem marker is accepted in any case; layouts require upper.
// Returns the zero time if no layout matches.
func parseTimestamp(dateStr, timeStr string) (time.Time, bool) {
	raw := dateStr + ", " + strings.ToUpper(strings.TrimSpace(timeStr))
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
