package response

import (
	"context"
	"fmt"
	"strings"

	"report-assistant-be/internal/constant"
	"report-assistant-be/internal/pkg/logger"
	"report-assistant-be/pkg/llm"
	"report-assistant-be/pkg/rag/prompt"
	"report-assistant-be/pkg/store"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const logModule = "response"

var tracer = otel.Tracer("report-assistant-be/pkg/rag/response")

// Generator answers one chat turn grounded on the loaded report.
type Generator struct {
	llmProvider llm.LLMProvider
	builder     *prompt.Builder
	temperature float64
	logger      logger.ILogger
}

// NewGenerator uses the default chat temperature when temperature < 0.
func NewGenerator(llmProvider llm.LLMProvider, builder *prompt.Builder, temperature float64, log logger.ILogger) *Generator {
	if temperature < 0 {
		temperature = constant.DefaultChatTemperature
	}
	return &Generator{
		llmProvider: llmProvider,
		builder:     builder,
		temperature: temperature,
		logger:      log,
	}
}

// Respond performs one backend call and returns the trimmed reply. history is
// read only; appending the turn pair is the caller's job.
func (g *Generator) Respond(ctx context.Context, userMessage, documentText, summary string, history []store.Turn) (string, error) {
	documentSnippet := g.builder.DocumentSnippet(documentText)
	summarySnippet := g.builder.SummarySnippet(summary)
	messages := g.builder.ChatRequest(userMessage, documentSnippet, summarySnippet, history)

	ctx, span := tracer.Start(ctx, "response.Respond")
	defer span.End()
	span.SetAttributes(
		attribute.Int("chat.history_turns", len(history)),
		attribute.Int("chat.messages", len(messages)),
	)

	reply, err := g.llmProvider.Chat(ctx, messages, llm.WithTemperature(g.temperature))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend call failed")
		g.logger.Error(logModule, "Chat generation failed", map[string]interface{}{
			"error":         err.Error(),
			"history_turns": len(history),
		})
		return "", fmt.Errorf("chat: %w", err)
	}

	reply = strings.TrimSpace(reply)
	g.logger.Debug(logModule, "Chat reply generated", map[string]interface{}{
		"history_turns": len(history),
		"reply_chars":   len([]rune(reply)),
	})
	return reply, nil
}
