package message_service

import (
	"context"

	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/chat_dto"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
)

type MessageServiceContract interface {
	// SendMessage appends to the room log, advances the last-message
	// pointer, broadcasts to the room channel, and queues best-effort
	// notification fan-out for members off the room channel.
	SendMessage(ctx context.Context, senderID string, req chat_dto.SendMessageRequest) (*chat_dto.MessageResponse, *app_error.AppError)
	// GetHistory pages the room log oldest-first and marks everything
	// the caller has now seen as read.
	GetHistory(ctx context.Context, callerID, roomID string, page, limit int) (*chat_dto.HistoryResponse, *app_error.AppError)
	MarkRoomRead(ctx context.Context, callerID, roomID string) (*chat_dto.MarkReadResponse, *app_error.AppError)
}

// Broadcaster delivers a freshly appended message to the room channel.
// Implemented by the websocket layer; nil-safe for transports without a
// live channel (tests, CLI tools).
type Broadcaster interface {
	BroadcastMessage(roomID string, msg *chat_dto.MessageResponse)
}
