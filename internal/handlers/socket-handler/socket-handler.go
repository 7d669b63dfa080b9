package socket_handler

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/chat_dto"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/presence"
	message_service "github.com/manan-abhishek/Raabta-ChatApp/internal/use-case/message-case"
	room_service "github.com/manan-abhishek/Raabta-ChatApp/internal/use-case/room-case"
	user_service "github.com/manan-abhishek/Raabta-ChatApp/internal/use-case/user-case"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/websocket"
	"github.com/rs/zerolog/log"
)

// SocketHandler dispatches every live-channel event. It implements
// websocket.EventHandler and owns the presence transitions tied to
// connection lifecycle.
type SocketHandler struct {
	Hub        *websocket.Hub
	Tracker    *presence.Tracker
	UserSvc    user_service.UserServiceContract
	RoomSvc    room_service.RoomServiceContract
	MessageSvc message_service.MessageServiceContract

	// username cache for typing broadcasts, filled on connect
	usernamesMu sync.RWMutex
	usernames   map[string]string
}

func NewSocketHandler(
	hub *websocket.Hub,
	tracker *presence.Tracker,
	userSvc user_service.UserServiceContract,
	roomSvc room_service.RoomServiceContract,
	messageSvc message_service.MessageServiceContract,
) *SocketHandler {
	return &SocketHandler{
		Hub:        hub,
		Tracker:    tracker,
		UserSvc:    userSvc,
		RoomSvc:    roomSvc,
		MessageSvc: messageSvc,
		usernames:  make(map[string]string),
	}
}

func (s *SocketHandler) HandleConnect(c *websocket.Client) {
	ctx := context.Background()

	if summary, err := s.UserSvc.GetSummary(ctx, c.UserID); err == nil {
		s.usernamesMu.Lock()
		s.usernames[c.UserID] = summary.Username
		s.usernamesMu.Unlock()
	}

	transition := s.Tracker.Connect(c.UserID)
	if transition == nil {
		return
	}

	if err := s.UserSvc.SetPresence(ctx, c.UserID, true, transition.LastSeen); err != nil {
		log.Error().Err(err).Str("userID", c.UserID).Msg("failed to persist online presence")
	}

	s.Hub.BroadcastToAll(websocket.OutgoingEvent{
		Event: websocket.EventUserOnline,
		Data:  chat_dto.PresenceBroadcast{UserID: c.UserID},
	})
}

func (s *SocketHandler) HandleDisconnect(c *websocket.Client) {
	transition := s.Tracker.Disconnect(c.UserID)
	if transition == nil {
		return
	}

	s.usernamesMu.Lock()
	delete(s.usernames, c.UserID)
	s.usernamesMu.Unlock()

	ctx := context.Background()
	if err := s.UserSvc.SetPresence(ctx, c.UserID, false, transition.LastSeen); err != nil {
		log.Error().Err(err).Str("userID", c.UserID).Msg("failed to persist offline presence")
	}

	s.Hub.BroadcastToAll(websocket.OutgoingEvent{
		Event: websocket.EventUserOffline,
		Data:  chat_dto.PresenceBroadcast{UserID: c.UserID},
	})
}

func (s *SocketHandler) HandleEvent(c *websocket.Client, evt websocket.IncomingEvent) {
	switch evt.Event {
	case websocket.EventSetup:
		c.SendEvent(websocket.OutgoingEvent{
			Event: websocket.EventConnected,
			Data:  map[string]string{"userId": c.UserID},
		})

	case websocket.EventJoinChat:
		s.handleJoinChat(c, evt.Data)

	case websocket.EventSendMessage:
		s.handleSendMessage(c, evt.Data)

	case websocket.EventTyping, websocket.EventStopTyping:
		s.handleTyping(c, evt.Event, evt.Data)

	default:
		c.SendEvent(websocket.ErrorEvent("unknown event: " + evt.Event))
	}
}

// handleJoinChat subscribes the connection to a room channel. A
// non-member join is declined without an error event so membership
// cannot be probed over the socket.
func (s *SocketHandler) handleJoinChat(c *websocket.Client, data json.RawMessage) {
	var payload chat_dto.JoinChatPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.RoomID == "" {
		c.SendEvent(websocket.ErrorEvent("invalid joinChat payload"))
		return
	}

	member, err := s.RoomSvc.IsMember(context.Background(), payload.RoomID, c.UserID)
	if err != nil || !member {
		log.Debug().Str("userID", c.UserID).Str("roomID", payload.RoomID).Msg("joinChat declined")
		return
	}

	s.Hub.JoinRoom(payload.RoomID, c)
}

func (s *SocketHandler) handleSendMessage(c *websocket.Client, data json.RawMessage) {
	var req chat_dto.SendMessageRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.SendEvent(websocket.ErrorEvent("invalid sendMessage payload"))
		return
	}

	// room broadcast happens inside the service; failures only go back
	// to the sending connection
	if _, err := s.MessageSvc.SendMessage(context.Background(), c.UserID, req); err != nil {
		c.SendEvent(websocket.ErrorEvent(err.Message))
	}
}

func (s *SocketHandler) handleTyping(c *websocket.Client, event string, data json.RawMessage) {
	var payload chat_dto.TypingPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.RoomID == "" {
		return
	}

	// typing is ephemeral: only connections already subscribed to the
	// room channel may emit it, and it is never persisted
	if !s.Hub.IsSubscribed(payload.RoomID, c) {
		return
	}

	s.usernamesMu.RLock()
	username := s.usernames[c.UserID]
	s.usernamesMu.RUnlock()

	s.Hub.BroadcastToRoomExcept(payload.RoomID, websocket.OutgoingEvent{
		Event: event,
		Data: chat_dto.TypingBroadcast{
			UserID:   c.UserID,
			Username: username,
			RoomID:   payload.RoomID,
		},
	}, c)
}
