package registry

import (
	"log"
	"sync"

	"github.com/mmursyidd/pesanin/internal/domain"
)

// Conn is the minimal transport surface the registry needs: a
// non-blocking, best-effort write of one encoded frame. Send reports
// whether the frame was accepted for writing.
type Conn interface {
	Send(frame []byte) bool
}

type entry struct {
	identity string
	name     string
	conn     Conn
}

// Registry maps an identity to its single live connection. A second
// registration for the same identity replaces the first: last writer
// wins, the displaced connection is not closed or notified.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register stores the connection for identity, unconditionally
// overwriting any existing entry
func (r *Registry) Register(identity, name string, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[identity] = &entry{identity: identity, name: name, conn: c}
}

// Unregister removes the entry for identity only if it still points at
// c, so a delayed close can never evict a newer connection. Reports
// whether an entry was removed.
func (r *Registry) Unregister(identity string, c Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[identity]
	if !ok || e.conn != c {
		return false
	}
	delete(r.entries, identity)
	return true
}

// IsOnline reports whether identity has a live connection
func (r *Registry) IsOnline(identity string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[identity]
	return ok
}

// DisplayName returns the registered display name for identity
func (r *Registry) DisplayName(identity string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[identity]
	if !ok {
		return "", false
	}
	return e.name, true
}

// Online returns how many identities currently have a live connection
func (r *Registry) Online() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// SendTo encodes a frame and hands it to identity's live connection.
// Best effort: no entry, a full send buffer or an encoding failure all
// drop the frame. Reports whether the frame was accepted; callers never
// surface a miss to the sender.
func (r *Registry) SendTo(identity string, t domain.FrameType, payload any) bool {
	r.mu.RLock()
	e, ok := r.entries[identity]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	frame, err := domain.EncodeFrame(t, payload)
	if err != nil {
		log.Printf("registry: encoding %s frame for %s: %v", t, identity, err)
		return false
	}
	return e.conn.Send(frame)
}
