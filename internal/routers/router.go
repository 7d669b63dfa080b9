package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chat_handler "github.com/manan-abhishek/Raabta-ChatApp/internal/handlers/chat-handler"
	hub_handler "github.com/manan-abhishek/Raabta-ChatApp/internal/handlers/hub-handler"
	notification_handler "github.com/manan-abhishek/Raabta-ChatApp/internal/handlers/notification-handler"
	user_handler "github.com/manan-abhishek/Raabta-ChatApp/internal/handlers/user-handler"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/middleware"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/websocket"
	"github.com/manan-abhishek/Raabta-ChatApp/state"
)

// Handlers carries the constructed handler set into the router so every
// route shares the same service instances.
type Handlers struct {
	User         *user_handler.UserHandler
	Chat         *chat_handler.ChatHandler
	Notification *notification_handler.NotificationHandler
	Hub          *hub_handler.HubHandler
	WS           *websocket.WebSocketHandler
}

func NewRouter(state *state.AppState, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.WithRequestId)

	UserRouter(r, state, h.User)
	ChatRouter(r, state, h.Chat)
	NotificationRouter(r, state, h.Notification)
	HubRouter(r, state, h.Hub, h.WS)

	return r
}
