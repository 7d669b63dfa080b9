package types

import "time"

// NotifyMembersPayload is the job payload carried on the Redis queue for
// the best-effort notification fan-out after a message is persisted.
type NotifyMembersPayload struct {
	MessageID string    `json:"message_id"`
	RoomID    string    `json:"room_id"`
	SenderID  string    `json:"sender_id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	MemberIDs []string  `json:"member_ids"`
	CreatedAt time.Time `json:"created_at"`
}
