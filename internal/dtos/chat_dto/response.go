package chat_dto

import (
	"time"

	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/user_dto"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/entity"
)

type RoomResponse struct {
	RoomID        string                  `json:"room_id"`
	Name          string                  `json:"name,omitempty"`
	IsGroup       bool                    `json:"is_group"`
	CreatedBy     string                  `json:"created_by"`
	Members       []user_dto.UserSummary  `json:"members"`
	LastMessage   *MessageResponse        `json:"last_message,omitempty"`
	LastMessageAt *time.Time              `json:"last_message_at,omitempty"`
	UnreadCount   int64                   `json:"unread_count"`
	CreatedAt     time.Time               `json:"created_at"`
}

type MessageResponse struct {
	MessageID string                `json:"message_id"`
	RoomID    string                `json:"room_id"`
	Sender    user_dto.UserSummary  `json:"sender"`
	Content   string                `json:"content"`
	ReadBy    []entity.ReadReceipt  `json:"read_by"`
	CreatedAt time.Time             `json:"created_at"`
}

type HistoryResponse struct {
	Messages   []MessageResponse `json:"messages"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Total      int64             `json:"total"`
	TotalPages int64             `json:"total_pages"`
}

type MarkReadResponse struct {
	RoomID       string `json:"room_id"`
	UpdatedCount int64  `json:"updated_count"`
}
