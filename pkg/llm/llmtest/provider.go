// Package llmtest provides a scripted LLM provider for tests.
package llmtest

import (
	"context"
	"sync"

	"report-assistant-be/pkg/llm"
)

// Call is one recorded invocation.
type Call struct {
	Messages []llm.Message
	Options  llm.Options
}

// Provider replays Replies in order; once exhausted it keeps returning the
// last one. Err, when set, is returned instead of a reply.
type Provider struct {
	mu      sync.Mutex
	Replies []string
	Err     error
	calls   []Call
}

var _ llm.LLMProvider = &Provider{}

func New(replies ...string) *Provider {
	return &Provider{Replies: replies}
}

func (p *Provider) Chat(_ context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	recorded := make([]llm.Message, len(history))
	copy(recorded, history)
	p.calls = append(p.calls, Call{Messages: recorded, Options: *llm.Apply(options...)})

	if p.Err != nil {
		return "", p.Err
	}
	if len(p.Replies) == 0 {
		return "", nil
	}
	idx := len(p.calls) - 1
	if idx >= len(p.Replies) {
		idx = len(p.Replies) - 1
	}
	return p.Replies[idx], nil
}

// SetErr swaps the scripted failure.
func (p *Provider) SetErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Err = err
}

func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Call, len(p.calls))
	copy(out, p.calls)
	return out
}

func (p *Provider) LastCall() Call {
	calls := p.Calls()
	if len(calls) == 0 {
		return Call{}
	}
	return calls[len(calls)-1]
}
