package dto

import "time"

// RebuildRequestMessage is the payload queued for the rebuild consumer.
type RebuildRequestMessage struct {
	Trigger     string    `json:"trigger"`
	RequestedAt time.Time `json:"requested_at"`
}
