package worker_handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/chat_dto"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/user_dto"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/utils/types"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/websocket"
	"github.com/rs/zerolog/log"
)

// HandleNotifyMembers persists message notifications for every room
// member except the sender, then pushes a live notification event to
// each member's personal channel. Offline members still get the stored
// notification.
func (wh *WorkerHandler) HandleNotifyMembers(ctx context.Context, raw json.RawMessage) error {
	var payload types.NotifyMembersPayload

	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid notify payload: %w", err)
	}

	if _, err := wh.NotifService.CreateForMessage(ctx, payload); err != nil {
		return fmt.Errorf("create notifications: %s", err.Message)
	}

	broadcast := chat_dto.NotificationBroadcast{
		RoomID: payload.RoomID,
		Message: &chat_dto.MessageResponse{
			MessageID: payload.MessageID,
			RoomID:    payload.RoomID,
			Content:   payload.Content,
			CreatedAt: payload.CreatedAt,
			Sender: user_dto.UserSummary{
				ID:       payload.SenderID,
				Username: payload.Sender,
			},
		},
	}

	evt := websocket.OutgoingEvent{
		Event: websocket.EventNotification,
		Data:  broadcast,
	}

	for _, memberID := range payload.MemberIDs {
		if memberID == payload.SenderID {
			continue
		}
		wh.Hub.BroadcastToUser(memberID, evt)
	}

	log.Debug().
		Str("messageID", payload.MessageID).
		Str("roomID", payload.RoomID).
		Int("members", len(payload.MemberIDs)).
		Msg("notification fan-out completed")

	return nil
}
