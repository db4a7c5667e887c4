package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-support-chatbot-be/internal/constant"
	"ai-support-chatbot-be/internal/dto"
	"ai-support-chatbot-be/internal/repository/memory"
	"ai-support-chatbot-be/pkg/knowledge"
	"ai-support-chatbot-be/pkg/llm"
	"ai-support-chatbot-be/pkg/rag"
	"ai-support-chatbot-be/pkg/vectorstore"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type scriptedLLM struct {
	answers []string
	calls   int
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	answer := s.answers[s.calls%len(s.answers)]
	s.calls++
	return answer, nil
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, nil, opts...)
}

type staticIndex struct {
	chunks []vectorstore.ScoredChunk
}

func (s *staticIndex) Rebuild(ctx context.Context, chunks []knowledge.Chunk) error { return nil }

func (s *staticIndex) Query(ctx context.Context, text string, topK int) ([]vectorstore.ScoredChunk, error) {
	return s.chunks, nil
}

func (s *staticIndex) Version() string { return "v1" }

func newTestService(provider llm.LLMProvider) (IAssistantService, *memory.HistoryRepository) {
	index := &staticIndex{chunks: []vectorstore.ScoredChunk{
		{Chunk: knowledge.Chunk{Index: 0, Text: "Name: Kettle\nPrice: 20\nStock: 4"}, Score: 0.9},
	}}
	pipeline := rag.NewPipeline(provider, index, nopLogger{}, rag.BusinessProfile{
		Name:    "ElectroNest",
		Website: "electronest.com",
		Phone:   "07069117393",
		Email:   "electronest@gmail.com",
	}, rag.PipelineConfig{TopK: 5, StockThreshold: 5})

	historyRepo := memory.NewHistoryRepository(time.Hour)
	svc := NewAssistantService(pipeline, historyRepo, nil, nopLogger{}, 5)
	return svc, historyRepo.(*memory.HistoryRepository)
}

func TestAskAnswersAndPersistsTurns(t *testing.T) {
	svc, historyRepo := newTestService(&scriptedLLM{answers: []string{"The kettle costs $20."}})

	res, err := svc.Ask(context.Background(), &dto.AskRequest{
		Question: "How much is the kettle?",
		UserId:   "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "The kettle costs $20.", res.Response)

	turns, err := historyRepo.Get(context.Background(), "user-1", 5)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, constant.ChatRoleUser, turns[0].Role)
	assert.Equal(t, "How much is the kettle?", turns[0].Text)
	assert.Equal(t, constant.ChatRoleAssistant, turns[1].Role)
	assert.Equal(t, "The kettle costs $20.", turns[1].Text)
}

func TestAskKeepsConversationsSeparatePerUser(t *testing.T) {
	svc, historyRepo := newTestService(&scriptedLLM{answers: []string{"answer"}})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "q1", UserId: "alpha"})
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), &dto.AskRequest{Question: "q2", WhatsappId: "beta"})
	require.NoError(t, err)

	alphaTurns, err := historyRepo.Get(context.Background(), "alpha", 5)
	require.NoError(t, err)
	betaTurns, err := historyRepo.Get(context.Background(), "beta", 5)
	require.NoError(t, err)

	require.Len(t, alphaTurns, 2)
	require.Len(t, betaTurns, 2)
	assert.Equal(t, "q1", alphaTurns[0].Text)
	assert.Equal(t, "q2", betaTurns[0].Text)
}

func TestAskHistoryStaysOldestFirstAndCapped(t *testing.T) {
	svc, historyRepo := newTestService(&scriptedLLM{answers: []string{"a1", "a2", "a3", "a4"}})

	questions := []string{"q1", "q2", "q3", "q4"}
	for _, q := range questions {
		_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: q, UserId: "user-1"})
		require.NoError(t, err)
	}

	// 8 turns stored, limit 5 returns the most recent five oldest-first.
	turns, err := historyRepo.Get(context.Background(), "user-1", 5)
	require.NoError(t, err)
	require.Len(t, turns, 5)
	assert.Equal(t, constant.ChatRoleAssistant, turns[0].Role)
	assert.Equal(t, "q3", turns[1].Text)
	assert.Equal(t, "q4", turns[3].Text)
	for i := 1; i < len(turns); i++ {
		assert.False(t, turns[i].CreatedAt.Before(turns[i-1].CreatedAt))
	}
}

func TestResolveUserIdPrecedence(t *testing.T) {
	tests := []struct {
		name string
		req  dto.AskRequest
		want string
	}{
		{name: "user id wins", req: dto.AskRequest{UserId: "u", WhatsappId: "w", TwitterId: "t"}, want: "u"},
		{name: "whatsapp next", req: dto.AskRequest{WhatsappId: "w", TwitterId: "t"}, want: "w"},
		{name: "twitter last", req: dto.AskRequest{TwitterId: "t"}, want: "t"},
		{name: "none", req: dto.AskRequest{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.ResolveUserId())
		})
	}
}
