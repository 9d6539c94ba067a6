package store

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Validation failures surfaced by Append. The dispatch layer drops the
// offending frame silently; nothing is echoed to the sender.
var (
	// ErrEmptyText rejects messages whose text is empty or blank
	ErrEmptyText = errors.New("store: empty message text")

	// ErrSelfConversation rejects messages addressed to their own sender
	ErrSelfConversation = errors.New("store: recipient equals sender")
)

// Message is one entry in a conversation log: sender, recipient, text,
// creation time and the set of identities that have read it. Fields are
// immutable after creation; only the read-set grows.
type Message struct {
	ID     string
	ChatID string
	From   string
	To     string
	Text   string
	SentAt time.Time

	mu     sync.Mutex
	readBy map[string]struct{}
}

// ReadBy reports whether identity is in the message's read-set
func (m *Message) ReadBy(identity string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.readBy[identity]
	return ok
}

// markRead adds identity to the read-set, reporting whether it was new
func (m *Message) markRead(identity string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.readBy[identity]; ok {
		return false
	}
	m.readBy[identity] = struct{}{}
	return true
}

// newMessageID builds a unique id: decimal creation millis plus a short
// random suffix. Uniqueness is required, ordering by id is not.
func newMessageID(at time.Time) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return strconv.FormatInt(at.UnixMilli(), 10) + suffix
}

// Conversation is the append-only message log between exactly two
// identities. Slot assignment (A/B) is fixed by whichever ordering
// first created the record and never changes afterwards.
type Conversation struct {
	key string
	a   string
	b   string

	mu       sync.Mutex
	messages []*Message
}

// Key returns the conversation's order-independent identifier
func (c *Conversation) Key() string { return c.key }

// Participants returns the two identities in slot order
func (c *Conversation) Participants() (string, string) { return c.a, c.b }

// Append validates and appends a message, returning it with the sender
// already in its own read-set.
func (c *Conversation) Append(from, to, text string) (*Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if from == to {
		return nil, ErrSelfConversation
	}

	now := time.Now()
	msg := &Message{
		ID:     newMessageID(now),
		ChatID: c.key,
		From:   from,
		To:     to,
		Text:   text,
		SentAt: now,
		readBy: map[string]struct{}{from: {}},
	}

	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()

	return msg, nil
}

// MarkRead adds reader to the read-set of every message addressed to
// reader. Idempotent per message; returns how many were newly read.
func (c *Conversation) MarkRead(reader string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	newlyRead := 0
	for _, m := range c.messages {
		if m.To != reader {
			continue
		}
		if m.markRead(reader) {
			newlyRead++
		}
	}
	return newlyRead
}

// View is a consistent snapshot of the fields a summary projection
// needs for one viewer.
type View struct {
	Key         string
	Counterpart string
	LastText    string
	LastAt      time.Time
	HasMessages bool
	Unread      int
}

// ViewFor snapshots the conversation from viewer's side: counterpart
// identity, last message preview and the count of messages addressed
// to viewer that viewer has not read.
func (c *Conversation) ViewFor(viewer string) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{Key: c.key, Counterpart: c.a}
	if viewer == c.a {
		v.Counterpart = c.b
	}

	for _, m := range c.messages {
		if m.To == viewer && !m.ReadBy(viewer) {
			v.Unread++
		}
	}

	if n := len(c.messages); n > 0 {
		last := c.messages[n-1]
		v.LastText = last.Text
		v.LastAt = last.SentAt
		v.HasMessages = true
	}
	return v
}

// Len returns the number of messages in the log
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Store owns every conversation record, indexed by the deterministic
// unordered-pair key. Records are created lazily on first send and
// never deleted.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
}

// New creates an empty Store
func New() *Store {
	return &Store{conversations: make(map[string]*Conversation)}
}

// KeyFor derives the conversation key for an identity pair. Commutative:
// KeyFor(a, b) == KeyFor(b, a).
func KeyFor(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// GetOrCreate returns the single record for the pair, creating it if
// absent. Creation is exactly-once: concurrent first-sends from both
// directions resolve to the same record, with slots fixed in the order
// passed by whichever call won.
func (s *Store) GetOrCreate(a, b string) *Conversation {
	key := KeyFor(a, b)

	s.mu.RLock()
	c, ok := s.conversations[key]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.conversations[key]; ok {
		return c
	}
	c = &Conversation{key: key, a: a, b: b}
	s.conversations[key] = c
	return c
}

// Get returns the record for the pair if one exists
func (s *Store) Get(a, b string) (*Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conversations[KeyFor(a, b)]
	return c, ok
}

// ConversationsFor returns every record in which identity participates,
// in no particular order.
func (s *Store) ConversationsFor(identity string) []*Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Conversation
	for _, c := range s.conversations {
		if c.a == identity || c.b == identity {
			out = append(out, c)
		}
	}
	return out
}
