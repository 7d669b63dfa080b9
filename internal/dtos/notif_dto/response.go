package notif_dto

import "time"

type NotificationResponse struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	RoomID    string     `json:"room_id"`
	MessageID string     `json:"message_id,omitempty"`
	FromID    string     `json:"from_id"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	Total         int64                  `json:"total"`
}

type RoomUnread struct {
	RoomID      string `json:"room_id"`
	UnreadCount int64  `json:"unread_count"`
}

type UnreadSummaryResponse struct {
	Rooms       []RoomUnread `json:"rooms"`
	TotalUnread int64        `json:"total_unread"`
}

type MarkAllReadResponse struct {
	UpdatedCount int64 `json:"updated_count"`
}
