package usecase

import (
	"testing"

	"github.com/mmursyidd/pesanin/internal/domain"
	"github.com/mmursyidd/pesanin/internal/store"
)

// stubPresence is a fixed registry view
type stubPresence struct {
	online map[string]bool
	names  map[string]string
}

func (p stubPresence) IsOnline(identity string) bool { return p.online[identity] }

func (p stubPresence) DisplayName(identity string) (string, bool) {
	name, ok := p.names[identity]
	return name, ok
}

func TestProjectSummaryEmptyConversation(t *testing.T) {
	s := store.New()
	c := s.GetOrCreate("+15550001", "+15550002")

	sum := ProjectSummary(c, "+15550001", stubPresence{})

	if sum.ID != c.Key() {
		t.Errorf("ID = %q, want conversation key", sum.ID)
	}
	if sum.PhoneNumber != "+15550002" {
		t.Errorf("PhoneNumber = %q, want counterpart", sum.PhoneNumber)
	}
	if sum.LastMessage != "" || sum.Timestamp != "" {
		t.Errorf("Empty log must project empty preview, got %q / %q", sum.LastMessage, sum.Timestamp)
	}
	if sum.UnreadCount != 0 || sum.Online {
		t.Errorf("Summary = %+v", sum)
	}
}

func TestProjectSummaryNameFallsBackToIdentity(t *testing.T) {
	s := store.New()
	c := s.GetOrCreate("a", "b")

	sum := ProjectSummary(c, "a", stubPresence{})
	if sum.Name != "b" {
		t.Errorf("Name = %q, want identity fallback", sum.Name)
	}

	sum = ProjectSummary(c, "a", stubPresence{names: map[string]string{"b": "Budi"}})
	if sum.Name != "Budi" {
		t.Errorf("Name = %q, want registered name", sum.Name)
	}
}

func TestProjectSummaryUnreadAndPreview(t *testing.T) {
	s := store.New()
	c := s.GetOrCreate("a", "b")
	c.Append("b", "a", "hello")
	c.Append("b", "a", "are you there")

	sum := ProjectSummary(c, "a", stubPresence{online: map[string]bool{"b": true}})

	if sum.UnreadCount != 2 {
		t.Errorf("UnreadCount = %d, want 2", sum.UnreadCount)
	}
	if sum.LastMessage != "are you there" {
		t.Errorf("LastMessage = %q", sum.LastMessage)
	}
	if len(sum.Timestamp) != len(domain.TimeLayout) {
		t.Errorf("Timestamp = %q, want %q form", sum.Timestamp, domain.TimeLayout)
	}
	if !sum.Online {
		t.Error("Online = false for a connected counterpart")
	}

	// The sender's own view counts nothing unread
	if got := ProjectSummary(c, "b", stubPresence{}).UnreadCount; got != 0 {
		t.Errorf("Sender UnreadCount = %d, want 0", got)
	}
}

func TestProjectSummaryNeverStale(t *testing.T) {
	s := store.New()
	c := s.GetOrCreate("a", "b")
	c.Append("b", "a", "ping")

	p := stubPresence{online: map[string]bool{}}
	before := ProjectSummary(c, "a", p)
	c.MarkRead("a")
	after := ProjectSummary(c, "a", p)

	if before.UnreadCount != 1 || after.UnreadCount != 0 {
		t.Errorf("UnreadCount before/after = %d/%d, want 1/0", before.UnreadCount, after.UnreadCount)
	}
}

func TestFallbackName(t *testing.T) {
	cases := map[string]string{
		"+15550001": "User 0001",
		"42":        "User 42",
		"":          "User ",
	}
	for identity, want := range cases {
		if got := FallbackName(identity); got != want {
			t.Errorf("FallbackName(%q) = %q, want %q", identity, got, want)
		}
	}
}
