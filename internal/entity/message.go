package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ReadReceipt records that a user has seen a message. The sender gets a
// receipt at insert time, so absence of a receipt means genuinely unread.
type ReadReceipt struct {
	UserID string    `bson:"user_id" json:"user_id"`
	ReadAt time.Time `bson:"read_at" json:"read_at"`
}

type Message struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	RoomID    string        `bson:"room_id"`
	SenderID  string        `bson:"sender_id"`
	Content   string        `bson:"content"`
	ReadBy    []ReadReceipt `bson:"read_by"`
	CreatedAt time.Time     `bson:"created_at"`
}
