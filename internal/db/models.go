package db

import (
	"time"

	"gorm.io/datatypes"
)

// Room mirrors the persisted room document. Players and LastSpin hold
// the wire-contract JSON; seat order lives in the room_players rows.
type Room struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"size:8;uniqueIndex;not null"`
	Phase     string         `gorm:"size:32;not null"`
	Pot       int            `gorm:"not null;default:0"`
	Turn      string         `gorm:"size:64;not null;default:''"`
	SeedCoins int            `gorm:"not null;default:10"`
	Players   datatypes.JSON `gorm:"type:jsonb;not null"`
	LastSpin  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	Seats     []RoomPlayer
	Spins     []SpinEvent
}

type RoomPlayer struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null;uniqueIndex:idx_room_players_room_name"`
	Name      string    `gorm:"size:64;not null;uniqueIndex:idx_room_players_room_name"`
	JoinedAt  time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type SpinEvent struct {
	ID         uint      `gorm:"primaryKey"`
	RoomID     uint      `gorm:"index;not null"`
	Actor      string    `gorm:"size:64;not null"`
	Outcome    string    `gorm:"size:8;not null"`
	Summary    string    `gorm:"size:140;not null"`
	OccurredAt int64     `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}
