package chat_dto

// Payload shapes carried in the data field of live-channel events.

type JoinChatPayload struct {
	RoomID string `json:"roomId"`
}

type TypingPayload struct {
	RoomID string `json:"roomId"`
}
