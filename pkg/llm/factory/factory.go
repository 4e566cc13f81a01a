package factory

import (
	"fmt"
	"time"

	"report-assistant-be/pkg/llm"
	"report-assistant-be/pkg/llm/huggingface"
	"report-assistant-be/pkg/llm/ollama"
	"report-assistant-be/pkg/llm/openai"
)

const (
	ProviderOpenAI      = "openai"
	ProviderOllama      = "ollama"
	ProviderHuggingFace = "huggingface"
)

// Settings carries what any provider may need; each provider reads its own fields.
type Settings struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case ProviderOpenAI:
		if s.APIKey == "" && s.BaseURL == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return openai.NewOpenAIProvider(s.APIKey, s.BaseURL, s.Model, s.Timeout), nil
	case ProviderOllama:
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.Model, s.Timeout), nil
	case ProviderHuggingFace:
		return huggingface.NewHuggingFaceProvider(s.APIKey, s.BaseURL, s.Model, s.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
