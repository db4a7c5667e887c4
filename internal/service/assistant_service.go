package service

import (
	"context"
	"time"

	"ai-support-chatbot-be/internal/constant"
	"ai-support-chatbot-be/internal/dto"
	"ai-support-chatbot-be/internal/entity"
	"ai-support-chatbot-be/internal/pkg/logger"
	"ai-support-chatbot-be/internal/repository/contract"
	"ai-support-chatbot-be/pkg/events"
	pktNats "ai-support-chatbot-be/pkg/nats"
	"ai-support-chatbot-be/pkg/rag"
)

type IAssistantService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)

	// CleanupIdleSessions drops conversations idle longer than maxIdle.
	CleanupIdleSessions(ctx context.Context, maxIdle time.Duration) error
}

type assistantService struct {
	pipeline       *rag.Pipeline
	historyRepo    contract.HistoryRepository
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
	historyLimit   int
}

func NewAssistantService(
	pipeline *rag.Pipeline,
	historyRepo contract.HistoryRepository,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	historyLimit int,
) IAssistantService {
	if historyLimit <= 0 {
		historyLimit = constant.DefaultHistoryLimit
	}
	return &assistantService{
		pipeline:       pipeline,
		historyRepo:    historyRepo,
		eventPublisher: eventPublisher,
		log:            log,
		historyLimit:   historyLimit,
	}
}

func (s *assistantService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	userId := req.ResolveUserId()

	history, err := s.historyRepo.Get(ctx, userId, s.historyLimit)
	if err != nil {
		// A broken history backend should not block the answer.
		s.log.Warn("assistant", "failed to load history, answering without it", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userId,
		})
		history = nil
	}

	answer, err := s.pipeline.Answer(ctx, req.Question, history)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	turns := []entity.Turn{
		{Role: constant.ChatRoleUser, Text: req.Question, CreatedAt: now},
		{Role: constant.ChatRoleAssistant, Text: answer, CreatedAt: now.Add(time.Millisecond)},
	}
	if err := s.historyRepo.Append(ctx, userId, turns); err != nil {
		s.log.Warn("assistant", "failed to persist history", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userId,
		})
	}

	evt := events.NewAssistantAnswered(userId, channelFor(req))
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("assistant", "failed to publish answered event", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return &dto.AskResponse{Response: answer}, nil
}

func (s *assistantService) CleanupIdleSessions(ctx context.Context, maxIdle time.Duration) error {
	removed, err := s.historyRepo.CleanupIdle(ctx, time.Now().Add(-maxIdle))
	if err != nil {
		return err
	}
	if removed > 0 {
		s.log.Info("assistant", "cleaned up idle sessions", map[string]interface{}{
			"removed": removed,
		})
	}
	return nil
}

func channelFor(req *dto.AskRequest) string {
	switch {
	case req.WhatsappId != "":
		return "whatsapp"
	case req.TwitterId != "":
		return "twitter"
	default:
		return "web"
	}
}
