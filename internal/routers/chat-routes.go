package routers

import (
	"github.com/go-chi/chi/v5"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/handlers"
	chat_handler "github.com/manan-abhishek/Raabta-ChatApp/internal/handlers/chat-handler"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/middleware"
	"github.com/manan-abhishek/Raabta-ChatApp/state"
)

func ChatRouter(r chi.Router, state *state.AppState, chatHandler *chat_handler.ChatHandler) {
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))

		protected.Post("/api/v1/chats/direct", handlers.WrapHandler(chatHandler.CreateDirectChat))
		protected.Post("/api/v1/chats/group", handlers.WrapHandler(chatHandler.CreateGroupChat))
		protected.Get("/api/v1/chats", handlers.WrapHandler(chatHandler.ListChats))
		protected.Get("/api/v1/chats/{roomId}", handlers.WrapHandler(chatHandler.GetChat))

		protected.Post("/api/v1/messages", handlers.WrapHandler(chatHandler.SendMessage))
		protected.Get("/api/v1/messages/{roomId}", handlers.WrapHandler(chatHandler.GetMessages))
		protected.Put("/api/v1/messages/read/{roomId}", handlers.WrapHandler(chatHandler.MarkMessagesRead))
	})
}
