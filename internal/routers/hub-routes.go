package routers

import (
	"github.com/go-chi/chi/v5"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/handlers"
	hub_handler "github.com/manan-abhishek/Raabta-ChatApp/internal/handlers/hub-handler"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/middleware"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/websocket"
	"github.com/manan-abhishek/Raabta-ChatApp/state"
)

func HubRouter(r chi.Router, state *state.AppState, hubHandler *hub_handler.HubHandler, wsHandler *websocket.WebSocketHandler) {
	// the socket authenticates inside the handshake, not via JWTAuth
	r.Get("/ws", wsHandler.HandleWS)

	r.Get("/api/v1/health", hubHandler.HandleHealth)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))
		protected.Get("/api/v1/stats", handlers.WrapHandler(hubHandler.HandleGetStats))
		protected.Get("/api/v1/rooms/{roomId}/stats", handlers.WrapHandler(hubHandler.HandleGetRoomStats))
	})
}
