package usecase

import (
	"github.com/mmursyidd/pesanin/internal/domain"
	"github.com/mmursyidd/pesanin/internal/store"
)

// Presence is the registry view a projection reads: who is connected
// and under what display name.
type Presence interface {
	IsOnline(identity string) bool
	DisplayName(identity string) (string, bool)
}

// ProjectSummary derives viewer's summary of a conversation. Pure with
// respect to its inputs: nothing is cached, every call recomputes from
// the record and the current presence state, so a summary can never go
// stale relative to its sources. Empty-log conversations project empty
// preview fields.
func ProjectSummary(c *store.Conversation, viewer string, p Presence) domain.ConversationSummary {
	v := c.ViewFor(viewer)

	name, ok := p.DisplayName(v.Counterpart)
	if !ok || name == "" {
		name = v.Counterpart
	}

	s := domain.ConversationSummary{
		ID:          v.Key,
		Name:        name,
		PhoneNumber: v.Counterpart,
		UnreadCount: v.Unread,
		Online:      p.IsOnline(v.Counterpart),
	}
	if v.HasMessages {
		s.LastMessage = v.LastText
		s.Timestamp = v.LastAt.Format(domain.TimeLayout)
	}
	return s
}

// FallbackName builds the default display name for an identity that
// authenticated without one: "User " plus its trailing digits.
func FallbackName(identity string) string {
	runes := []rune(identity)
	if len(runes) > domain.FallbackNameDigits {
		runes = runes[len(runes)-domain.FallbackNameDigits:]
	}
	return "User " + string(runes)
}
