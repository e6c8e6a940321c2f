package stats

import (
	"sort"
	"time"
	"unicode/utf8"

	"github.com/MikeSquared-Agency/scribe/internal/chat"
)

// UserStats holds per-username aggregates over a parsed record sequence.
// Lengths are counted in characters (code points), not bytes.
// MostActiveHour, FirstMessage and LastMessage are nil when the user has
// no timestamped messages.
type UserStats struct {
	Username         string     `json:"username"`
	MessageCount     int        `json:"message_count"`
	AvgMessageLength float64    `json:"avg_message_length"`
	MostActiveHour   *int       `json:"most_active_hour"`
	FirstMessage     *time.Time `json:"first_message"`
	LastMessage      *time.Time `json:"last_message"`
}

// PerUser computes statistics for every distinct username with at least
// one record, including the SYSTEM and UNKNOWN sentinels. Results are
// ordered by message count descending, username ascending on ties.
func PerUser(msgs []chat.Message) []UserStats {
	byUser := make(map[string][]chat.Message)
	for _, m := range msgs {
		byUser[m.Username] = append(byUser[m.Username], m)
	}

	out := make([]UserStats, 0, len(byUser))
	for user, userMsgs := range byUser {
		out = append(out, computeUser(user, userMsgs))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].MessageCount != out[j].MessageCount {
			return out[i].MessageCount > out[j].MessageCount
		}
		return out[i].Username < out[j].Username
	})
	return out
}

func computeUser(user string, msgs []chat.Message) UserStats {
	s := UserStats{
		Username:     user,
		MessageCount: len(msgs),
	}

	totalLen := 0
	var hours [24]int
	timestamped := 0
	var first, last time.Time

	for _, m := range msgs {
		totalLen += utf8.RuneCountInString(m.Text)
		if m.Timestamp.IsZero() {
			continue
		}
		hours[m.Timestamp.Hour()]++
		timestamped++
		if first.IsZero() || m.Timestamp.Before(first) {
			first = m.Timestamp
		}
		if last.IsZero() || m.Timestamp.After(last) {
			last = m.Timestamp
		}
	}

	if len(msgs) > 0 {
		s.AvgMessageLength = float64(totalLen) / float64(len(msgs))
	}

	// Modal hour; ties break toward the smallest hour. Users with only
	// absent timestamps have no mode.
	if timestamped > 0 {
		best := 0
		for h := 1; h < 24; h++ {
			if hours[h] > hours[best] {
				best = h
			}
		}
		hour := best
		s.MostActiveHour = &hour
		s.FirstMessage = &first
		s.LastMessage = &last
	}

	return s
}

// Overview is the top-level summary consumed by the dashboard layer.
type Overview struct {
	TotalMessages int `json:"total_messages"`
	ActiveUsers   int `json:"active_users"`
	DaysActive    int `json:"days_active"`
	MediaShared   int `json:"media_shared"`
}

// ComputeOverview summarizes the full record sequence. DaysActive is the
// span in days between the earliest and latest timestamped message;
// zero when fewer than two days are covered or no timestamps parsed.
func ComputeOverview(msgs []chat.Message) Overview {
	o := Overview{TotalMessages: len(msgs)}

	users := make(map[string]struct{})
	var first, last time.Time
	for _, m := range msgs {
		users[m.Username] = struct{}{}
		if m.Type == chat.TypeMedia {
			o.MediaShared++
		}
		if m.Timestamp.IsZero() {
			continue
		}
		if first.IsZero() || m.Timestamp.Before(first) {
			first = m.Timestamp
		}
		if last.IsZero() || m.Timestamp.After(last) {
			last = m.Timestamp
		}
	}
	o.ActiveUsers = len(users)
	if !first.IsZero() {
		fd := first.Truncate(24 * time.Hour)
		ld := last.Truncate(24 * time.Hour)
		o.DaysActive = int(ld.Sub(fd).Hours() / 24)
	}
	return o
}

// DayCount is one day's message volume.
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// DailyVolume counts timestamped messages per calendar day, sorted by day.
func DailyVolume(msgs []chat.Message) []DayCount {
	byDay := make(map[string]int)
	for _, m := range msgs {
		if m.Timestamp.IsZero() {
			continue
		}
		byDay[m.Timestamp.Format("2006-01-02")]++
	}

	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	out := make([]DayCount, len(days))
	for i, d := range days {
		out[i] = DayCount{Date: d, Count: byDay[d]}
	}
	return out
}

// HourlyHistogram counts timestamped messages per hour of day (0-23).
func HourlyHistogram(msgs []chat.Message) [24]int {
	var hours [24]int
	for _, m := range msgs {
		if !m.Timestamp.IsZero() {
			hours[m.Timestamp.Hour()]++
		}
	}
	return hours
}

// TypeBreakdown counts messages per type.
func TypeBreakdown(msgs []chat.Message) map[string]int {
	counts := make(map[string]int)
	for _, m := range msgs {
		counts[m.Type]++
	}
	return counts
}

// Contributor is a username with its message count.
type Contributor struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

// TopContributors returns up to n usernames by message count, descending,
// username ascending on ties.
func TopContributors(msgs []chat.Message, n int) []Contributor {
	counts := make(map[string]int)
	for _, m := range msgs {
		counts[m.Username]++
	}

	out := make([]Contributor, 0, len(counts))
	for u, c := range counts {
		out = append(out, Contributor{Username: u, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Username < out[j].Username
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
