package routers

import (
	"github.com/go-chi/chi/v5"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/handlers"
	user_handler "github.com/manan-abhishek/Raabta-ChatApp/internal/handlers/user-handler"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/middleware"
	"github.com/manan-abhishek/Raabta-ChatApp/state"
)

func UserRouter(r chi.Router, state *state.AppState, userHandler *user_handler.UserHandler) {
	r.Post("/api/v1/users/register", handlers.WrapHandler(userHandler.Register))
	r.Post("/api/v1/users/login", handlers.WrapHandler(userHandler.Login))

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))
		protected.Get("/api/v1/users", handlers.WrapHandler(userHandler.ListUsers))
		protected.Get("/api/v1/users/search", handlers.WrapHandler(userHandler.SearchUsers))
	})
}
