package store

import (
	"time"

	"gorm.io/datatypes"
)

type Block struct {
	ID        uint      `gorm:"primaryKey"`
	Index     int       `gorm:"uniqueIndex;not null"`
	Hash      string    `gorm:"size:64;uniqueIndex;not null"`
	PrevHash  string    `gorm:"size:64;not null"`
	ActionID  string    `gorm:"size:36;not null"`
	Caller    string    `gorm:"size:128;index"`
	Method    string    `gorm:"size:32;not null"`
	Value     uint64    `gorm:"not null;default:0"`
	Seed      string    `gorm:"size:64"`
	Timestamp time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

type Event struct {
	ID         uint           `gorm:"primaryKey"`
	BlockIndex int            `gorm:"index;not null"`
	GameID     *uint64        `gorm:"index"`
	Type       string         `gorm:"size:64;not null"`
	Payload    datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time      `gorm:"not null"`
}

type Transfer struct {
	ID         uint      `gorm:"primaryKey"`
	BlockIndex int       `gorm:"index;not null"`
	FromAcct   string    `gorm:"size:128;index"`
	ToAcct     string    `gorm:"size:128;index;not null"`
	Amount     uint64    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}
