package model

import (
	"time"
)

// ChatSession tracks one end user's conversation. Sessions are keyed by the
// external user identifier (API user_id or messaging sender id). LastActive
// drives idle-session cleanup.
type ChatSession struct {
	UserId     string    `gorm:"type:text;primaryKey"`
	LastActive time.Time `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
