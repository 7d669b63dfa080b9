package chat_dto

type TypingBroadcast struct {
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	RoomID   string `json:"roomId"`
}

type PresenceBroadcast struct {
	UserID string `json:"userId"`
}

type NotificationBroadcast struct {
	RoomID  string           `json:"roomId"`
	Message *MessageResponse `json:"message"`
}
