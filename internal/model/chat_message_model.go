package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one stored transcript turn.
type ChatMessage struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    string    `gorm:"type:text;not null;index"`
	Role      string    `gorm:"type:varchar(50);not null"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
