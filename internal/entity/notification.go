package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	NotificationKindMessage    = "message"
	NotificationKindRoomInvite = "room_invite"
	NotificationKindMention    = "mention"
)

type Notification struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    string        `bson:"user_id"`
	Kind      string        `bson:"kind"`
	MessageID bson.ObjectID `bson:"message_id,omitempty"`
	RoomID    string        `bson:"room_id"`
	FromID    string        `bson:"from_id"`
	IsRead    bool          `bson:"is_read"`
	ReadAt    *time.Time    `bson:"read_at,omitempty"`
	CreatedAt time.Time     `bson:"created_at"`
}
