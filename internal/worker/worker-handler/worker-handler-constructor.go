package worker_handler

import (
	notification_service "github.com/manan-abhishek/Raabta-ChatApp/internal/use-case/notification-case"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/websocket"
)

type WorkerHandler struct {
	Hub          *websocket.Hub
	NotifService notification_service.NotificationServiceContract
}

func NewWorkerHandler(hub *websocket.Hub, notifService notification_service.NotificationServiceContract) *WorkerHandler {
	return &WorkerHandler{
		Hub:          hub,
		NotifService: notifService,
	}
}
