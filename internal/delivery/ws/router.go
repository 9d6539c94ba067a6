package ws

import (
	"encoding/json"
	"log"
	"sort"

	"github.com/gorilla/websocket"

	"github.com/mmursyidd/pesanin/internal/domain"
	"github.com/mmursyidd/pesanin/internal/pubsub"
	"github.com/mmursyidd/pesanin/internal/registry"
	"github.com/mmursyidd/pesanin/internal/store"
	"github.com/mmursyidd/pesanin/internal/usecase"
)

// Router is the connection-event and frame dispatcher: it validates
// inbound frames, mutates the conversation store and fans the results
// out through the registry. Per-connection frames arrive sequentially
// from that connection's read pump; frames from different connections
// run concurrently against the shared store and registry.
//
// Every rejected frame is dropped silently per the relay's error
// policy. Nothing is echoed to the sender; each drop is logged and
// published so operators can still see them.
type Router struct {
	registry     *registry.Registry
	store        *store.Store
	bus          *pubsub.Bus
	maxFrameSize int
}

// NewRouter wires a Router over the shared registry, store and bus
func NewRouter(reg *registry.Registry, st *store.Store, bus *pubsub.Bus, maxFrameSize int) *Router {
	if maxFrameSize <= 0 {
		maxFrameSize = domain.MaxMessageSize
	}
	return &Router{registry: reg, store: st, bus: bus, maxFrameSize: maxFrameSize}
}

// ServeConn attaches a freshly upgraded connection to the relay and
// starts its pumps
func (r *Router) ServeConn(conn *websocket.Conn) *Client {
	c := NewClient(r, conn)
	r.bus.Publish(domain.EventConnectionOpened, c.id)
	go c.WritePump()
	go c.ReadPump()
	return c
}

// HandleFrame dispatches one raw inbound frame. Only auth is accepted
// before authentication; everything else is dropped until it succeeds.
func (r *Router) HandleFrame(c *Client, raw []byte) {
	var f domain.Frame
	if err := json.Unmarshal(raw, &f); err != nil || f.Type == "" {
		r.drop(domain.DropMalformed, "undecodable frame")
		return
	}
	r.bus.Publish(domain.EventFrameReceived, string(f.Type))

	if f.Type != domain.FrameAuth && c.identity == "" {
		r.drop(domain.DropPremature, string(f.Type)+" before auth")
		return
	}

	switch f.Type {
	case domain.FrameAuth:
		r.handleAuth(c, f.Payload)
	case domain.FrameMessageSend:
		r.handleSend(c, f.Payload)
	case domain.FrameChatOpen:
		r.handleOpen(c, f.Payload)
	default:
		r.drop(domain.DropUnknownType, string(f.Type))
	}
}

// HandleClose runs when a connection's read loop exits: registry
// cleanup only, guarded against evicting a newer connection. No
// offline broadcast; counterparts observe the change at their next
// projection.
func (r *Router) HandleClose(c *Client) {
	if c.identity != "" {
		r.registry.Unregister(c.identity, c)
	}
	r.bus.Publish(domain.EventConnectionClosed, c.identity)
}

func (r *Router) handleAuth(c *Client, raw json.RawMessage) {
	var p domain.AuthPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.Phone == "" {
		r.drop(domain.DropInvalidPayload, "auth missing phone")
		return
	}

	name := p.Name
	if name == "" {
		name = usecase.FallbackName(p.Phone)
	}

	// Last registration wins; a displaced connection is not notified.
	// Re-auth on a live connection simply re-registers it.
	c.identity = p.Phone
	r.registry.Register(p.Phone, name, c)
	r.bus.Publish(domain.EventAuthenticated, p.Phone)

	// chat:list goes to this connection only, not through the registry:
	// a racing re-auth for the same identity must not steal it
	frame, err := domain.EncodeFrame(domain.FrameChatList, r.summariesFor(p.Phone))
	if err != nil {
		log.Printf("ws: encoding chat:list for %s: %v", p.Phone, err)
		return
	}
	c.Send(frame)
}

func (r *Router) handleSend(c *Client, raw json.RawMessage) {
	var p domain.MessageSendPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.To == "" || p.Text == "" {
		r.drop(domain.DropInvalidPayload, "message:send missing recipient or text")
		return
	}
	if p.To == c.identity {
		r.drop(domain.DropSelfConversation, c.identity)
		return
	}

	conv := r.store.GetOrCreate(c.identity, p.To)
	msg, err := conv.Append(c.identity, p.To, p.Text)
	if err != nil {
		switch err {
		case store.ErrEmptyText:
			r.drop(domain.DropEmptyText, c.identity)
		case store.ErrSelfConversation:
			r.drop(domain.DropSelfConversation, c.identity)
		default:
			r.drop(domain.DropInvalidPayload, err.Error())
		}
		return
	}
	r.bus.Publish(domain.EventMessageAppended, conv.Key())

	// All store locks are released by now; a stalled peer cannot stall
	// the conversation
	ts := msg.SentAt.Format(domain.TimeLayout)
	for _, viewer := range []string{msg.From, msg.To} {
		dto := domain.MessageDTO{
			ID:        msg.ID,
			ChatID:    msg.ChatID,
			Text:      msg.Text,
			Timestamp: ts,
			Sent:      msg.From == viewer,
			Delivered: true,
			Read:      msg.From == viewer,
			From:      msg.From,
			To:        msg.To,
		}
		if !r.registry.SendTo(viewer, domain.FrameMessageNew, dto) {
			r.bus.Publish(domain.EventDeliveryDropped, viewer)
		}
	}

	r.fanOutUpdate(conv)
}

func (r *Router) handleOpen(c *Client, raw json.RawMessage) {
	var p domain.ChatOpenPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.WithPhone == "" {
		r.drop(domain.DropInvalidPayload, "chat:open missing withPhone")
		return
	}

	conv, ok := r.store.Get(c.identity, p.WithPhone)
	if !ok {
		// No conversation with that counterpart yet
		return
	}

	conv.MarkRead(c.identity)
	r.bus.Publish(domain.EventChatOpened, conv.Key())
	r.fanOutUpdate(conv)
}

// fanOutUpdate re-projects the conversation for each participant and
// delivers chat:update to whichever of them is connected. Each side
// receives only its own summary, keyed by its identity.
func (r *Router) fanOutUpdate(conv *store.Conversation) {
	a, b := conv.Participants()
	for _, viewer := range []string{a, b} {
		payload := map[string]domain.ConversationSummary{
			viewer: usecase.ProjectSummary(conv, viewer, r.registry),
		}
		if !r.registry.SendTo(viewer, domain.FrameChatUpdate, payload) {
			r.bus.Publish(domain.EventDeliveryDropped, viewer)
		}
	}
}

// summariesFor projects every conversation involving identity, most
// recent activity first, records with no messages last
func (r *Router) summariesFor(identity string) []domain.ConversationSummary {
	convs := r.store.ConversationsFor(identity)

	type projected struct {
		summary domain.ConversationSummary
		view    store.View
	}
	items := make([]projected, 0, len(convs))
	for _, conv := range convs {
		items = append(items, projected{
			summary: usecase.ProjectSummary(conv, identity, r.registry),
			view:    conv.ViewFor(identity),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		vi, vj := items[i].view, items[j].view
		if vi.HasMessages != vj.HasMessages {
			return vi.HasMessages
		}
		return vi.LastAt.After(vj.LastAt)
	})

	summaries := make([]domain.ConversationSummary, 0, len(items))
	for _, it := range items {
		summaries = append(summaries, it.summary)
	}
	return summaries
}

func (r *Router) drop(reason, detail string) {
	log.Printf("ws: dropped frame (%s): %s", reason, detail)
	r.bus.Publish(domain.EventFrameDropped, reason)
}
