package db

import (
	"time"

	"gorm.io/datatypes"
)

// Session is the durable snapshot of one game, keyed by its resume
// code. State holds the whole game aggregate as JSON; everything else
// is queryable metadata.
type Session struct {
	Key       string         `gorm:"primaryKey;size:64"`
	Phase     string         `gorm:"size:16;not null"`
	State     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	Players   []Player       `gorm:"foreignKey:SessionKey;references:Key"`
	Events    []Event        `gorm:"foreignKey:SessionKey;references:Key"`
}

type Player struct {
	ID         uint      `gorm:"primaryKey"`
	SessionKey string    `gorm:"size:64;index;not null;uniqueIndex:idx_players_session_name"`
	Name       string    `gorm:"size:32;not null;uniqueIndex:idx_players_session_name"`
	Color      string    `gorm:"size:16;not null"`
	JoinedAt   time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

type Event struct {
	ID         uint           `gorm:"primaryKey"`
	SessionKey string         `gorm:"size:64;index;not null"`
	PlayerID   *uint          `gorm:"index"`
	Type       string         `gorm:"size:64;not null"`
	Payload    datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time      `gorm:"not null"`
}
