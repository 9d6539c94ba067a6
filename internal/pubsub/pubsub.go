package pubsub

import "sync"

// EventKind names one category of event on the bus
type EventKind string

// Handler receives the payload published for a kind it subscribed to
type Handler func(payload any)

// Token identifies a single subscription so it can be removed later
type Token struct {
	kind EventKind
	id   uint64
}

// Bus is a typed publish/subscribe fan-out: subscriber sets are keyed
// by event kind and invoked synchronously on publish. Handlers run
// without the bus lock held, so a handler may subscribe or unsubscribe.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[EventKind]map[uint64]Handler
}

// New creates an empty Bus
func New() *Bus {
	return &Bus{subs: make(map[EventKind]map[uint64]Handler)}
}

// Subscribe registers a handler for one event kind and returns the
// token that removes it
func (b *Bus) Subscribe(kind EventKind, h Handler) Token {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[kind]; !ok {
		b.subs[kind] = make(map[uint64]Handler)
	}

	b.nextID++
	b.subs[kind][b.nextID] = h
	return Token{kind: kind, id: b.nextID}
}

// Unsubscribe removes the subscription identified by token. Unknown or
// already-removed tokens are a no-op.
func (b *Bus) Unsubscribe(t Token) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if handlers, ok := b.subs[t.kind]; ok {
		delete(handlers, t.id)
		if len(handlers) == 0 {
			delete(b.subs, t.kind)
		}
	}
}

// Publish delivers payload to every handler subscribed to kind. The
// handler set is snapshotted under the read lock and invoked after it
// is released.
func (b *Bus) Publish(kind EventKind, payload any) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[kind]))
	for _, h := range b.subs[kind] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}
