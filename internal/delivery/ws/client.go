package ws

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10
)

// Client is one websocket connection and its relay-side state. The
// connection id is distinct from the authenticated identity: identity
// stays empty until an auth frame is accepted.
type Client struct {
	id       string
	identity string
	router   *Router
	conn     *websocket.Conn
	send     chan []byte
}

// NewClient wraps a freshly upgraded connection
func NewClient(router *Router, conn *websocket.Conn) *Client {
	return &Client{
		id:     uuid.New().String(),
		router: router,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
}

// Send queues one encoded frame for delivery, reporting whether the
// buffer accepted it. Never blocks: a stalled peer drops frames rather
// than stalling the caller.
func (c *Client) Send(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// ReadPump pumps frames from the websocket connection into the router
func (c *Client) ReadPump() {
	defer func() {
		c.router.HandleClose(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(int64(c.router.maxFrameSize))
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		c.router.HandleFrame(c, raw)
	}
}

// WritePump pumps queued frames to the websocket connection and keeps
// the peer alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// One JSON object per websocket frame; queued frames are
			// never coalesced
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
