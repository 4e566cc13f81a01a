package factory

import (
	"testing"

	"report-assistant-be/pkg/llm/huggingface"
	"report-assistant-be/pkg/llm/ollama"
	"report-assistant-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(Settings{Provider: ProviderOpenAI, Model: "gpt-4.1-mini", APIKey: "sk"})
	require.NoError(t, err)
	assert.IsType(t, &openai.OpenAIProvider{}, p)

	p, err = NewLLMProvider(Settings{Provider: ProviderOllama, Model: "llama3"})
	require.NoError(t, err)
	require.IsType(t, &ollama.OllamaProvider{}, p)
	assert.Equal(t, "http://localhost:11434", p.(*ollama.OllamaProvider).BaseURL)

	p, err = NewLLMProvider(Settings{Provider: ProviderHuggingFace, Model: "m"})
	require.NoError(t, err)
	assert.IsType(t, &huggingface.HuggingFaceProvider{}, p)
}

func TestNewLLMProviderErrors(t *testing.T) {
	_, err := NewLLMProvider(Settings{Provider: ProviderOpenAI})
	assert.Error(t, err)

	_, err = NewLLMProvider(Settings{Provider: "gemini"})
	assert.EqualError(t, err, "unsupported LLM provider: gemini")
}
