package factory

import (
	"fmt"

	"ai-support-chatbot-be/pkg/llm"
	"ai-support-chatbot-be/pkg/llm/gemini"
	"ai-support-chatbot-be/pkg/llm/ollama"
)

// NewLLMProvider creates an LLM provider based on the configured type.
// Gemini is the default; Ollama is available for local development.
func NewLLMProvider(providerType, modelName, baseURL, geminiApiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "gemini", "":
		if geminiApiKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewGeminiProvider(geminiApiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if modelName == "" {
			modelName = "llama3.2"
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unknown llm provider type: %s", providerType)
	}
}
