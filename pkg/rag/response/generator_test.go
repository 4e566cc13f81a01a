package response

import (
	"context"
	"errors"
	"strings"
	"testing"

	"report-assistant-be/internal/constant"
	"report-assistant-be/internal/pkg/logger"
	"report-assistant-be/pkg/llm"
	"report-assistant-be/pkg/llm/llmtest"
	"report-assistant-be/pkg/rag/prompt"
	"report-assistant-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondAssemblesGroundedRequest(t *testing.T) {
	fake := llmtest.New("  " + constant.ReportLacksInfo + "\n")
	g := NewGenerator(fake, prompt.NewBuilder(0, 0), -1, logger.NewNopLogger())

	history := []store.Turn{
		{Role: store.RoleUser, Content: "What failed?"},
		{Role: store.RoleAssistant, Content: "The conveyor belt."},
	}
	before := append([]store.Turn(nil), history...)

	reply, err := g.Respond(context.Background(), "Who approved the budget?", strings.Repeat("d", 20000), strings.Repeat("s", 7000), history)
	require.NoError(t, err)
	assert.Equal(t, constant.ReportLacksInfo, reply)
	assert.Equal(t, before, history, "history must not be mutated")

	call := fake.LastCall()
	require.Len(t, call.Messages, 5)
	assert.Contains(t, call.Messages[0].Content, constant.ReportLacksInfo)
	assert.Equal(t, llm.RoleAssistant, call.Messages[1].Role)
	assert.Contains(t, call.Messages[1].Content, strings.Repeat("s", constant.SummarySnippetChars)+"\n\n")
	assert.NotContains(t, call.Messages[1].Content, strings.Repeat("s", constant.SummarySnippetChars+1))
	assert.NotContains(t, call.Messages[1].Content, strings.Repeat("d", constant.DocumentSnippetChars+1))
	assert.Equal(t, "Who approved the budget?", call.Messages[4].Content)

	require.NotNil(t, call.Options.Temperature)
	assert.Equal(t, constant.DefaultChatTemperature, *call.Options.Temperature)
}

func TestRespondPropagatesFailure(t *testing.T) {
	fake := llmtest.New()
	fake.SetErr(errors.New("401 invalid api key"))
	g := NewGenerator(fake, prompt.NewBuilder(0, 0), 0.5, logger.NewNopLogger())

	_, err := g.Respond(context.Background(), "q", "doc", "sum", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
	assert.Equal(t, 0.5, *fake.LastCall().Options.Temperature)
}
