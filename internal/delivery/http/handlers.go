package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mmursyidd/pesanin/internal/config"
	"github.com/mmursyidd/pesanin/internal/delivery/ws"
)

// isOriginAllowed checks if the origin is in the allowed list
func isOriginAllowed(origin string) bool {
	// Empty origin is allowed (same-origin and non-browser clients)
	if origin == "" {
		return true
	}

	for _, allowed := range config.AppConfig.AllowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return isOriginAllowed(r.Header.Get("Origin"))
	},
}

// Handler serves the relay's HTTP surface: the websocket upgrade and
// the liveness probe
type Handler struct {
	router *ws.Router
}

// NewHandler builds a Handler over the dispatch engine
func NewHandler(router *ws.Router) *Handler {
	return &Handler{router: router}
}

// HandleWebSocket upgrades HTTP to WebSocket and attaches the
// connection to the relay. The connection starts unauthenticated; the
// first accepted frame must be auth.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.router.ServeConn(conn)
}

// HandleHealth reports process liveness
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
