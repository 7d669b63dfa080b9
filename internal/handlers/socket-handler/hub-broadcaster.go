package socket_handler

import (
	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/chat_dto"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/websocket"
)

// HubBroadcaster adapts the hub to the message service's broadcaster
// dependency so the service layer never imports the websocket package.
type HubBroadcaster struct {
	Hub *websocket.Hub
}

func NewHubBroadcaster(hub *websocket.Hub) *HubBroadcaster {
	return &HubBroadcaster{Hub: hub}
}

func (b *HubBroadcaster) BroadcastMessage(roomID string, msg *chat_dto.MessageResponse) {
	b.Hub.BroadcastToRoom(roomID, websocket.OutgoingEvent{
		Event: websocket.EventMessageReceived,
		Data:  msg,
	})
}
