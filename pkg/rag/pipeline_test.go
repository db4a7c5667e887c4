package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-support-chatbot-be/internal/constant"
	"ai-support-chatbot-be/internal/entity"
	"ai-support-chatbot-be/pkg/knowledge"
	"ai-support-chatbot-be/pkg/llm"
	"ai-support-chatbot-be/pkg/vectorstore"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeLLM struct {
	calls   [][]llm.Message
	answers []string
	errs    []error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	call := len(f.calls)
	f.calls = append(f.calls, history)
	var err error
	if call < len(f.errs) {
		err = f.errs[call]
	}
	answer := ""
	if call < len(f.answers) {
		answer = f.answers[call]
	}
	return answer, err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

type fakeIndex struct {
	queries []string
	chunks  []vectorstore.ScoredChunk
	err     error
}

func (f *fakeIndex) Rebuild(ctx context.Context, chunks []knowledge.Chunk) error { return nil }

func (f *fakeIndex) Query(ctx context.Context, text string, topK int) ([]vectorstore.ScoredChunk, error) {
	f.queries = append(f.queries, text)
	return f.chunks, f.err
}

func (f *fakeIndex) Version() string { return "v-test" }

var testProfile = BusinessProfile{
	Name:    "ElectroNest",
	Website: "electronest.com",
	Phone:   "07069117393",
	Email:   "electronest@gmail.com",
}

func scored(texts ...string) []vectorstore.ScoredChunk {
	out := make([]vectorstore.ScoredChunk, len(texts))
	for i, text := range texts {
		out[i] = vectorstore.ScoredChunk{
			Chunk: knowledge.Chunk{Index: i, Text: text},
			Score: 1.0 - float64(i)*0.1,
		}
	}
	return out
}

func TestAnswerEmptyRetrievalReturnsFallback(t *testing.T) {
	provider := &fakeLLM{}
	index := &fakeIndex{}
	p := NewPipeline(provider, index, nopLogger{}, testProfile, PipelineConfig{TopK: 5, StockThreshold: 5})

	answer, err := p.Answer(context.Background(), "How much is the iPhone?", nil)
	require.NoError(t, err)

	assert.Contains(t, answer, "electronest.com")
	assert.Contains(t, answer, "07069117393")
	assert.Contains(t, answer, "electronest@gmail.com")

	// Generation must not run without grounding context.
	assert.Empty(t, provider.calls)
}

func TestAnswerRetrievalErrorReturnsFallback(t *testing.T) {
	provider := &fakeLLM{}
	index := &fakeIndex{err: errors.New("index unavailable")}
	p := NewPipeline(provider, index, nopLogger{}, testProfile, PipelineConfig{})

	answer, err := p.Answer(context.Background(), "Anything in stock?", nil)
	require.NoError(t, err)
	assert.Equal(t, FallbackMessage(testProfile), answer)
	assert.Empty(t, provider.calls)
}

func TestAnswerGroundsOnRedactedContext(t *testing.T) {
	provider := &fakeLLM{answers: []string{"The iPhone 15 costs $999."}}
	index := &fakeIndex{chunks: scored("Name: iPhone 15\nPrice: 999\nStock: 120", "Name: Bulb\nStock: 2")}
	p := NewPipeline(provider, index, nopLogger{}, testProfile, PipelineConfig{TopK: 5, StockThreshold: 5})

	answer, err := p.Answer(context.Background(), "How much is the iPhone 15?", nil)
	require.NoError(t, err)
	assert.Equal(t, "The iPhone 15 costs $999.", answer)

	// No history means no reformulation call; the single call is generation.
	require.Len(t, provider.calls, 1)
	require.Equal(t, []string{"How much is the iPhone 15?"}, index.queries)

	systemPrompt := provider.calls[0][0].Content
	assert.Contains(t, systemPrompt, "Stock: plenty in stock")
	assert.NotContains(t, systemPrompt, "Stock: 120")
	assert.Contains(t, systemPrompt, "Stock: 2")
}

func TestAnswerReformulatesWithHistory(t *testing.T) {
	provider := &fakeLLM{answers: []string{"What is the price of the iPhone 15?", "It costs $999."}}
	index := &fakeIndex{chunks: scored("Name: iPhone 15\nPrice: 999")}
	p := NewPipeline(provider, index, nopLogger{}, testProfile, PipelineConfig{TopK: 5, StockThreshold: 5})

	history := []entity.Turn{
		{Role: constant.ChatRoleUser, Text: "Do you sell iPhones?"},
		{Role: constant.ChatRoleAssistant, Text: "Yes, we have the iPhone 15 in store."},
	}

	answer, err := p.Answer(context.Background(), "How much is it?", history)
	require.NoError(t, err)
	assert.Equal(t, "It costs $999.", answer)

	// Retrieval runs on the rewritten question, not the raw one.
	require.Equal(t, []string{"What is the price of the iPhone 15?"}, index.queries)

	// Both stages carry the conversation turns.
	require.Len(t, provider.calls, 2)
	reformulation := provider.calls[0]
	assert.Equal(t, "Do you sell iPhones?", reformulation[1].Content)
	assert.Equal(t, "assistant", reformulation[2].Role)
	assert.Equal(t, "How much is it?", reformulation[len(reformulation)-1].Content)

	generation := provider.calls[1]
	assert.Equal(t, "How much is it?", generation[len(generation)-1].Content)
}

func TestAnswerReformulationFailureFallsBackToRawQuestion(t *testing.T) {
	provider := &fakeLLM{
		answers: []string{"", "Answer text."},
		errs:    []error{errors.New("model overloaded"), nil},
	}
	index := &fakeIndex{chunks: scored("Name: Kettle\nStock: 4")}
	p := NewPipeline(provider, index, nopLogger{}, testProfile, PipelineConfig{})

	history := []entity.Turn{{Role: constant.ChatRoleUser, Text: "hi"}}
	answer, err := p.Answer(context.Background(), "Do you have kettles?", history)
	require.NoError(t, err)
	assert.Equal(t, "Answer text.", answer)
	assert.Equal(t, []string{"Do you have kettles?"}, index.queries)
}

func TestAnswerGenerationFailureReturnsFallback(t *testing.T) {
	provider := &fakeLLM{errs: []error{errors.New("quota exceeded")}}
	index := &fakeIndex{chunks: scored("Name: Kettle")}
	p := NewPipeline(provider, index, nopLogger{}, testProfile, PipelineConfig{})

	answer, err := p.Answer(context.Background(), "Do you have kettles?", nil)
	require.NoError(t, err)
	assert.Equal(t, FallbackMessage(testProfile), answer)
}

func TestAnswerTrimsWhitespace(t *testing.T) {
	provider := &fakeLLM{answers: []string{"  padded answer \n"}}
	index := &fakeIndex{chunks: scored("doc")}
	p := NewPipeline(provider, index, nopLogger{}, testProfile, PipelineConfig{})

	answer, err := p.Answer(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Equal(t, "padded answer", answer)
	assert.False(t, strings.ContainsAny(answer, "\n"))
}
