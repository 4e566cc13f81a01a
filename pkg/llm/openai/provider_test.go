package openai

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"report-assistant-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequestTemperature(t *testing.T) {
	history := []llm.Message{{Role: llm.RoleSystem, Content: "s"}, {Role: llm.RoleUser, Content: "u"}}

	zero := buildRequest("gpt-4.1-mini", history, llm.Apply(llm.WithTemperature(0)))
	assert.Equal(t, float32(math.SmallestNonzeroFloat32), zero.Temperature)
	assert.Equal(t, "gpt-4.1-mini", zero.Model)
	require.Len(t, zero.Messages, 2)
	assert.Equal(t, llm.RoleSystem, zero.Messages[0].Role)

	warm := buildRequest("gpt-4.1-mini", history, llm.Apply(llm.WithTemperature(0.2), llm.WithModel("other")))
	assert.InDelta(t, 0.2, warm.Temperature, 1e-6)
	assert.Equal(t, "other", warm.Model)

	unset := buildRequest("gpt-4.1-mini", history, llm.Apply())
	assert.Equal(t, float32(0), unset.Temperature)
}

func TestOpenAIChatRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4.1-mini", body["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  reply  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", srv.URL+"/v1", "gpt-4.1-mini", time.Second)
	out, err := p.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "  reply  ", out)
}

func TestOpenAIChatNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", srv.URL+"/v1", "gpt-4.1-mini", time.Second)
	_, err := p.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response")
}
