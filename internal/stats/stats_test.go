package stats

import (
	"testing"
	"time"

	"github.com/MikeSquared-Agency/scribe/internal/chat"
)

func msg(user, text string, ts time.Time) chat.Message {
	return chat.Message{Username: user, Text: text, Type: chat.TypeText, Timestamp: ts}
}

func TestPerUser_Basic(t *testing.T) {
	base := time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC)
	msgs := []chat.Message{
		msg("Alice", "hello", base),
		msg("Alice", "hi", base.Add(10*time.Minute)),
		msg("Bob", "hey there", base.Add(20*time.Minute)),
	}

	users := PerUser(msgs)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	alice := users[0]
	if alice.Username != "Alice" {
		t.Fatalf("expected Alice first (2 messages), got %q", alice.Username)
	}
	if alice.MessageCount != 2 {
		t.Errorf("alice count = %d, want 2", alice.MessageCount)
	}
	if alice.AvgMessageLength != 3.5 { // (5 + 2) / 2
		t.Errorf("alice avg length = %v, want 3.5", alice.AvgMessageLength)
	}
	if alice.MostActiveHour == nil || *alice.MostActiveHour != 9 {
		t.Errorf("alice most active hour = %v, want 9", alice.MostActiveHour)
	}
	if alice.FirstMessage == nil || !alice.FirstMessage.Equal(base) {
		t.Errorf("alice first = %v, want %v", alice.FirstMessage, base)
	}
	if alice.LastMessage == nil || !alice.LastMessage.Equal(base.Add(10*time.Minute)) {
		t.Errorf("alice last = %v", alice.LastMessage)
	}
}

func TestPerUser_LengthInCharactersNotBytes(t *testing.T) {
	msgs := []chat.Message{msg("Alice", "🎉🎉", time.Time{})}

	users := PerUser(msgs)
	if users[0].AvgMessageLength != 2 {
		t.Errorf("avg length = %v, want 2 (code points)", users[0].AvgMessageLength)
	}
}

func TestPerUser_OnlyAbsentTimestamps(t *testing.T) {
	msgs := []chat.Message{
		msg("Ghost", "no clock", time.Time{}),
		msg("Ghost", "still none", time.Time{}),
	}

	users := PerUser(msgs)
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	g := users[0]
	if g.MostActiveHour != nil {
		t.Errorf("most active hour = %v, want nil", *g.MostActiveHour)
	}
	if g.FirstMessage != nil || g.LastMessage != nil {
		t.Errorf("first/last should be nil, got %v / %v", g.FirstMessage, g.LastMessage)
	}
}

func TestPerUser_ModalHourTieBreaksLow(t *testing.T) {
	msgs := []chat.Message{
		msg("A", "x", time.Date(2023, 1, 2, 21, 0, 0, 0, time.UTC)),
		msg("A", "y", time.Date(2023, 1, 2, 9, 30, 0, 0, time.UTC)),
	}

	users := PerUser(msgs)
	if users[0].MostActiveHour == nil || *users[0].MostActiveHour != 9 {
		t.Errorf("tie should break to the smaller hour, got %v", users[0].MostActiveHour)
	}
}

func TestPerUser_IncludesSentinelUsers(t *testing.T) {
	msgs := []chat.Message{
		{Username: chat.SystemUser, Text: "Dana created this group", Type: chat.TypeSystem},
		{Username: chat.UnknownUser, Text: "orphan", Type: chat.TypeText},
	}

	users := PerUser(msgs)
	if len(users) != 2 {
		t.Fatalf("expected sentinel users counted, got %d", len(users))
	}
}

func TestComputeOverview(t *testing.T) {
	msgs := []chat.Message{
		msg("Alice", "a", time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC)),
		msg("Bob", "b", time.Date(2023, 1, 5, 9, 0, 0, 0, time.UTC)),
		{Username: "Bob", Text: "image omitted", Type: chat.TypeMedia,
			Timestamp: time.Date(2023, 1, 5, 10, 0, 0, 0, time.UTC)},
	}

	o := ComputeOverview(msgs)
	if o.TotalMessages != 3 {
		t.Errorf("total = %d, want 3", o.TotalMessages)
	}
	if o.ActiveUsers != 2 {
		t.Errorf("users = %d, want 2", o.ActiveUsers)
	}
	if o.DaysActive != 3 {
		t.Errorf("days = %d, want 3", o.DaysActive)
	}
	if o.MediaShared != 1 {
		t.Errorf("media = %d, want 1", o.MediaShared)
	}
}

func TestComputeOverview_Empty(t *testing.T) {
	o := ComputeOverview(nil)
	if o.TotalMessages != 0 || o.ActiveUsers != 0 || o.DaysActive != 0 || o.MediaShared != 0 {
		t.Errorf("expected zero overview, got %+v", o)
	}
}

func TestDailyVolume_SortedByDay(t *testing.T) {
	msgs := []chat.Message{
		msg("A", "x", time.Date(2023, 1, 5, 9, 0, 0, 0, time.UTC)),
		msg("A", "y", time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC)),
		msg("A", "z", time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC)),
		msg("A", "untimed", time.Time{}),
	}

	days := DailyVolume(msgs)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Date != "2023-01-02" || days[0].Count != 2 {
		t.Errorf("day[0] = %+v", days[0])
	}
	if days[1].Date != "2023-01-05" || days[1].Count != 1 {
		t.Errorf("day[1] = %+v", days[1])
	}
}

func TestHourlyHistogram(t *testing.T) {
	msgs := []chat.Message{
		msg("A", "x", time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC)),
		msg("A", "y", time.Date(2023, 1, 3, 9, 30, 0, 0, time.UTC)),
		msg("A", "z", time.Date(2023, 1, 2, 23, 0, 0, 0, time.UTC)),
		msg("A", "untimed", time.Time{}),
	}

	hours := HourlyHistogram(msgs)
	if hours[9] != 2 {
		t.Errorf("hours[9] = %d, want 2", hours[9])
	}
	if hours[23] != 1 {
		t.Errorf("hours[23] = %d, want 1", hours[23])
	}
	total := 0
	for _, c := range hours {
		total += c
	}
	if total != 3 {
		t.Errorf("histogram total = %d, want 3 (untimed excluded)", total)
	}
}

func TestTypeBreakdown(t *testing.T) {
	msgs := []chat.Message{
		{Username: "A", Type: chat.TypeText},
		{Username: "A", Type: chat.TypeText},
		{Username: "B", Type: chat.TypeMedia},
		{Username: chat.SystemUser, Type: chat.TypeSystem},
	}

	counts := TypeBreakdown(msgs)
	if counts[chat.TypeText] != 2 || counts[chat.TypeMedia] != 1 || counts[chat.TypeSystem] != 1 {
		t.Errorf("breakdown = %v", counts)
	}
}

func TestTopContributors_LimitAndOrder(t *testing.T) {
	msgs := []chat.Message{
		{Username: "A"}, {Username: "A"}, {Username: "A"},
		{Username: "B"}, {Username: "B"},
		{Username: "C"}, {Username: "C"},
		{Username: "D"},
	}

	top := TopContributors(msgs, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 contributors, got %d", len(top))
	}
	if top[0].Username != "A" || top[0].Count != 3 {
		t.Errorf("top[0] = %+v", top[0])
	}
	// B and C tie at 2; username order breaks the tie.
	if top[1].Username != "B" || top[2].Username != "C" {
		t.Errorf("tie order wrong: %+v, %+v", top[1], top[2])
	}
}
