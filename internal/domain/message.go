package domain

import "encoding/json"

// FrameType identifies one kind of frame on the wire
type FrameType string

// Inbound frame types (client -> relay)
const (
	FrameAuth        FrameType = "auth"
	FrameMessageSend FrameType = "message:send"
	FrameChatOpen    FrameType = "chat:open"
)

// Outbound frame types (relay -> client)
const (
	FrameChatList   FrameType = "chat:list"
	FrameChatUpdate FrameType = "chat:update"
	FrameMessageNew FrameType = "message:new"
)

// Frame is one discrete JSON object exchanged over the websocket.
// The envelope is symmetric: both directions carry {type, payload}.
type Frame struct {
	Type    FrameType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeFrame marshals a payload into a complete wire frame
func EncodeFrame(t FrameType, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Type: t, Payload: raw})
}

// AuthPayload is the payload of an "auth" frame. Phone is the
// self-asserted identity; Name is optional.
type AuthPayload struct {
	Phone string `json:"phone"`
	Name  string `json:"name,omitempty"`
}

// MessageSendPayload is the payload of a "message:send" frame
type MessageSendPayload struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// ChatOpenPayload is the payload of a "chat:open" frame
type ChatOpenPayload struct {
	WithPhone string `json:"withPhone"`
}

// ConversationSummary is the per-viewer projection of a conversation:
// counterpart identity and name, last message preview, unread count and
// the counterpart's presence. Always computed fresh, never stored.
type ConversationSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	LastMessage string `json:"lastMessage"`
	Timestamp   string `json:"timestamp"`
	UnreadCount int    `json:"unreadCount"`
	Online      bool   `json:"online"`
}

// MessageDTO is the "message:new" payload. Sent and Read are computed
// for the receiving connection, not stored; Delivered is always true
// because the relay gives no delivery guarantee to signal against.
type MessageDTO struct {
	ID        string `json:"id"`
	ChatID    string `json:"chatId"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Sent      bool   `json:"sent"`
	Delivered bool   `json:"delivered"`
	Read      bool   `json:"read"`
	From      string `json:"from"`
	To        string `json:"to"`
}
