package prompt

import (
	"strings"

	"report-assistant-be/internal/constant"
	"report-assistant-be/pkg/llm"
	"report-assistant-be/pkg/store"
)

// Snippet returns the first bound characters of text, or all of it when
// shorter. Truncation may land mid-word.
func Snippet(text string, bound int) string {
	if bound <= 0 {
		return ""
	}
	if len(text) <= bound {
		// byte length bounds rune count from above
		return text
	}
	runes := []rune(text)
	if len(runes) <= bound {
		return text
	}
	return string(runes[:bound])
}

// Builder assembles the message sequences sent to the backend.
type Builder struct {
	documentBound int
	summaryBound  int
}

// NewBuilder falls back to the default bounds for non-positive values.
func NewBuilder(documentBound, summaryBound int) *Builder {
	if documentBound <= 0 {
		documentBound = constant.DocumentSnippetChars
	}
	if summaryBound <= 0 {
		summaryBound = constant.SummarySnippetChars
	}
	return &Builder{documentBound: documentBound, summaryBound: summaryBound}
}

func (b *Builder) DocumentSnippet(text string) string {
	return Snippet(text, b.documentBound)
}

func (b *Builder) SummarySnippet(summary string) string {
	return Snippet(summary, b.summaryBound)
}

// SummaryRequest is the fixed instruction followed by the snippet verbatim.
func (b *Builder) SummaryRequest(documentSnippet string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: constant.SummarySystemPromptV1},
		{Role: llm.RoleUser, Content: documentSnippet},
	}
}

// ChatRequest orders: system instruction, context block as a prior
// assistant turn, history, then the new question.
func (b *Builder) ChatRequest(userMessage, documentSnippet, summarySnippet string, history []store.Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+3)
	messages = append(messages,
		llm.Message{Role: llm.RoleSystem, Content: constant.ChatSystemPromptV1},
		llm.Message{Role: llm.RoleAssistant, Content: ContextBlock(summarySnippet, documentSnippet)},
	)
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userMessage})
	return messages
}

func ContextBlock(summarySnippet, documentSnippet string) string {
	var block strings.Builder
	block.WriteString(constant.ChatContextIntro)
	block.WriteString("\n\n")
	block.WriteString(constant.ChatContextSummaryLabel)
	block.WriteString("\n")
	block.WriteString(summarySnippet)
	block.WriteString("\n\n")
	block.WriteString(constant.ChatContextReportLabel)
	block.WriteString("\n")
	block.WriteString(documentSnippet)
	block.WriteString("\n")
	return block.String()
}
