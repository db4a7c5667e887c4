package rag

import (
	"context"
	"strings"

	"ai-support-chatbot-be/internal/constant"
	"ai-support-chatbot-be/internal/entity"
	"ai-support-chatbot-be/internal/pkg/logger"
	"ai-support-chatbot-be/pkg/llm"
	"ai-support-chatbot-be/pkg/vectorstore"
)

type PipelineConfig struct {
	TopK           int
	StockThreshold int
}

// Pipeline runs the three answer stages: history-aware reformulation,
// vector retrieval, and persona-grounded generation. Every stage
// degrades instead of failing the request.
type Pipeline struct {
	llm     llm.LLMProvider
	index   vectorstore.VectorIndex
	log     logger.ILogger
	profile BusinessProfile
	cfg     PipelineConfig
}

func NewPipeline(
	provider llm.LLMProvider,
	index vectorstore.VectorIndex,
	log logger.ILogger,
	profile BusinessProfile,
	cfg PipelineConfig,
) *Pipeline {
	if cfg.TopK <= 0 {
		cfg.TopK = vectorstore.DefaultTopK
	}
	return &Pipeline{
		llm:     provider,
		index:   index,
		log:     log,
		profile: profile,
		cfg:     cfg,
	}
}

// Answer produces a reply for question given the prior conversation
// turns, oldest first. It always returns a usable string; errors from
// individual stages are logged and absorbed.
func (p *Pipeline) Answer(ctx context.Context, question string, history []entity.Turn) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	query := p.reformulate(ctx, question, history)

	chunks, err := p.index.Query(ctx, query, p.cfg.TopK)
	if err != nil {
		p.log.Error("rag", "retrieval failed", map[string]interface{}{
			"error": err.Error(),
		})
		chunks = nil
	}
	if len(chunks) == 0 {
		// Nothing to ground an answer on. Skip generation so the
		// model cannot hallucinate product facts.
		return FallbackMessage(p.profile), nil
	}

	docs := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		docs = append(docs, chunk.Text)
	}
	context := RedactStockCounts(strings.Join(docs, "\n\n"), p.cfg.StockThreshold)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "user", Content: AnswerPrompt(p.profile, context)})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, llm.Message{Role: "user", Content: question})

	answer, err := p.llm.Chat(ctx, messages)
	if err != nil {
		p.log.Error("rag", "generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return FallbackMessage(p.profile), nil
	}
	return strings.TrimSpace(answer), nil
}

// reformulate rewrites question into a standalone retrieval query. On
// any failure the raw question is used as-is.
func (p *Pipeline) reformulate(ctx context.Context, question string, history []entity.Turn) string {
	if len(history) == 0 {
		return question
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "user", Content: ReformulationPrompt(p.profile)})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, llm.Message{Role: "user", Content: question})

	rewritten, err := p.llm.Chat(ctx, messages)
	if err != nil {
		p.log.Warn("rag", "reformulation failed, using raw question", map[string]interface{}{
			"error": err.Error(),
		})
		return question
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return question
	}
	return rewritten
}

func historyMessages(history []entity.Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(history))
	for _, turn := range history {
		role := "user"
		if turn.Role == constant.ChatRoleAssistant {
			role = "assistant"
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Text})
	}
	return messages
}
