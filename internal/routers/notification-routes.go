package routers

import (
	"github.com/go-chi/chi/v5"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/handlers"
	notification_handler "github.com/manan-abhishek/Raabta-ChatApp/internal/handlers/notification-handler"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/middleware"
	"github.com/manan-abhishek/Raabta-ChatApp/state"
)

func NotificationRouter(r chi.Router, state *state.AppState, notifHandler *notification_handler.NotificationHandler) {
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))

		protected.Get("/api/v1/notifications", handlers.WrapHandler(notifHandler.ListNotifications))
		protected.Get("/api/v1/notifications/summary", handlers.WrapHandler(notifHandler.UnreadSummary))
		protected.Put("/api/v1/notifications/read-all", handlers.WrapHandler(notifHandler.MarkAllNotificationsRead))
		protected.Put("/api/v1/notifications/read/{notificationId}", handlers.WrapHandler(notifHandler.MarkNotificationRead))
	})
}
