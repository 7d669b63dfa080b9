package entity

import (
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID      uuid.UUID `gorm:"primaryKey"`
	Name    string    // empty for direct rooms
	IsGroup bool      `gorm:"not null;index"`
	// Normalized direct-pair identity (lower id first, NULL for groups).
	// The unique index makes concurrent creates for the same pair lose
	// with a duplicate-key error instead of a second room.
	PairLo        *string    `gorm:"index:idx_direct_pair,unique"`
	PairHi        *string    `gorm:"index:idx_direct_pair,unique"`
	CreatedBy     string     `gorm:"not null"`
	LastMessageID string
	LastMessageAt *time.Time `gorm:"index"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

type RoomMember struct {
	ID       int64     `gorm:"primaryKey"`
	RoomID   string    `gorm:"not null;index:idx_room_user,unique"`
	UserID   string    `gorm:"not null;index:idx_room_user,unique"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}
