package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-support-chatbot-be/internal/dto"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains manual rebuild requests. Queuing them through
// the bus keeps the HTTP endpoint fast and lets the knowledge service
// serialize rebuilds with its own lock.
type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	knowledgeService IKnowledgeService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	knowledgeService IKnowledgeService,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		knowledgeService: knowledgeService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.RebuildRequestMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal rebuild request: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	trigger := payload.Trigger
	if trigger == "" {
		trigger = "manual"
	}

	log.Printf("[INFO] Processing rebuild request (trigger: %s)", trigger)

	if err := cs.knowledgeService.Rebuild(ctx, trigger); err != nil {
		log.Printf("[ERROR] Rebuild failed: %v", err)
		// The current index stays live. The request is not retried;
		// the watcher or another manual request picks it up later.
		msg.Ack()
		return
	}

	msg.Ack()
}
