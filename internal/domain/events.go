package domain

import "github.com/mmursyidd/pesanin/internal/pubsub"

// Event kinds published on the relay's internal bus. Payloads are
// plain strings unless noted; subscribers must type-assert.
const (
	// EventConnectionOpened fires after a successful websocket upgrade
	EventConnectionOpened pubsub.EventKind = "connection:opened"

	// EventConnectionClosed fires when a connection's read loop exits.
	// Payload: authenticated identity, or "" if the connection never authed.
	EventConnectionClosed pubsub.EventKind = "connection:closed"

	// EventAuthenticated fires when an auth frame is accepted. Payload: identity.
	EventAuthenticated pubsub.EventKind = "relay:authenticated"

	// EventFrameReceived fires for every decodable inbound frame. Payload: frame type.
	EventFrameReceived pubsub.EventKind = "relay:frame_received"

	// EventFrameDropped fires for every silently dropped frame. Payload: drop reason.
	EventFrameDropped pubsub.EventKind = "relay:frame_dropped"

	// EventMessageAppended fires after a message lands in a conversation
	// log. Payload: conversation key.
	EventMessageAppended pubsub.EventKind = "relay:message_appended"

	// EventChatOpened fires after a chat:open marks messages read.
	// Payload: conversation key.
	EventChatOpened pubsub.EventKind = "relay:chat_opened"

	// EventDeliveryDropped fires when a fan-out target had no sendable
	// connection. Payload: target identity.
	EventDeliveryDropped pubsub.EventKind = "relay:delivery_dropped"
)

// Drop reasons carried by EventFrameDropped, mirroring the relay's
// silent-drop taxonomy.
const (
	DropMalformed        = "malformed"
	DropPremature        = "premature"
	DropInvalidPayload   = "invalid_payload"
	DropUnknownType      = "unknown_type"
	DropEmptyText        = "empty_text"
	DropSelfConversation = "self_conversation"
)
