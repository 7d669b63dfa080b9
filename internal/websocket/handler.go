package websocket

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: limit your cors, don't get true so easy in production
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	Hub            *Hub
	MaxConnections int

	authenticator AuthenticatorFunc
}

func NewWebSocketHandler(hub *Hub, authenticator AuthenticatorFunc) *WebSocketHandler {
	return &WebSocketHandler{
		Hub:            hub,
		MaxConnections: 10000,
		authenticator:  authenticator,
	}
}

// HandleWS authenticates the handshake, upgrades the connection and
// registers it on the user's personal channel. Room channels are joined
// later via joinChat events.
func (h *WebSocketHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	userID, err := h.authenticator(r)
	if err != nil {
		log.Warn().Err(err).Msg("ws: authentication failed")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if h.MaxConnections > 0 && h.Hub.GetHubStats().TotalClients >= h.MaxConnections {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws: upgrade failed")
		return
	}

	client := newClient(uuid.New().String(), userID, conn, h.Hub)
	h.Hub.Register(client)
}
