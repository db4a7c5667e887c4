package entity

import (
	"time"
)

// Turn is a single transcript entry in a user's conversation.
type Turn struct {
	Role      string
	Text      string
	CreatedAt time.Time
}
