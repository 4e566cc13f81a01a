package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"report-assistant-be/internal/constant"
	"report-assistant-be/internal/pkg/logger"
	"report-assistant-be/pkg/llm"
	"report-assistant-be/pkg/rag/prompt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const logModule = "summary"

var ErrEmptySummary = errors.New("summary: backend returned an empty completion")

var tracer = otel.Tracer("report-assistant-be/pkg/rag/summary")

// Summarizer produces the structured summary of a freshly loaded report.
type Summarizer struct {
	llmProvider llm.LLMProvider
	builder     *prompt.Builder
	logger      logger.ILogger
}

func NewSummarizer(llmProvider llm.LLMProvider, builder *prompt.Builder, log logger.ILogger) *Summarizer {
	return &Summarizer{
		llmProvider: llmProvider,
		builder:     builder,
		logger:      log,
	}
}

// Summarize makes exactly one backend call at the minimum temperature.
// Backend failures are returned, never replaced by placeholder text.
func (s *Summarizer) Summarize(ctx context.Context, extractedText string) (string, error) {
	snippet := s.builder.DocumentSnippet(extractedText)

	ctx, span := tracer.Start(ctx, "summary.Summarize")
	defer span.End()
	span.SetAttributes(
		attribute.Int("report.chars", len([]rune(extractedText))),
		attribute.Int("report.snippet_chars", len([]rune(snippet))),
	)

	out, err := s.llmProvider.Chat(ctx, s.builder.SummaryRequest(snippet), llm.WithTemperature(constant.SummaryTemperature))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend call failed")
		s.logger.Error(logModule, "Summary generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return "", fmt.Errorf("summary: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		span.SetStatus(codes.Error, "empty completion")
		return "", ErrEmptySummary
	}

	s.logger.Info(logModule, "Summary generated", map[string]interface{}{
		"snippet_chars": len([]rune(snippet)),
		"summary_chars": len([]rune(out)),
	})
	return out, nil
}
