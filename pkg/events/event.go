package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "KNOWLEDGE_REBUILT").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewKnowledgeRebuilt is emitted after a new index version goes live.
func NewKnowledgeRebuilt(version string, chunkCount int, trigger string) Event {
	return BaseEvent{
		Type: "KNOWLEDGE_REBUILT",
		Data: map[string]interface{}{
			"version":     version,
			"chunk_count": chunkCount,
			"trigger":     trigger,
		},
		OccurredAt: time.Now(),
	}
}

// NewAssistantAnswered is emitted after each answered question.
func NewAssistantAnswered(userId string, channel string) Event {
	return BaseEvent{
		Type: "ASSISTANT_ANSWERED",
		Data: map[string]interface{}{
			"user_id": userId,
			"channel": channel,
		},
		OccurredAt: time.Now(),
	}
}
