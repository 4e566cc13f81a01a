// Package session holds the conversation state machine for one loaded report.
//
// A session moves EMPTY -> SUMMARIZING -> READY on upload, stays READY across
// chat turns and re-enters SUMMARIZING for every report with a new name.
// Only the methods in this file write session state.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"report-assistant-be/internal/pkg/logger"
	"report-assistant-be/pkg/events"
	"report-assistant-be/pkg/store"
)

const logModule = "session"

var (
	ErrNotReady     = errors.New("session: no summarized report yet, upload a report first")
	ErrNoDocument   = errors.New("session: no report loaded")
	ErrEmptyMessage = errors.New("session: message is empty")
)

type Ingestor interface {
	LoadReportText(name string, content []byte) string
}

type Summarizer interface {
	Summarize(ctx context.Context, extractedText string) (string, error)
}

type Responder interface {
	Respond(ctx context.Context, userMessage, documentText, summary string, history []store.Turn) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Dependencies struct {
	Ingestor   Ingestor
	Summarizer Summarizer
	Responder  Responder
	Events     EventPublisher // optional
	Logger     logger.ILogger
	Now        func() time.Time // optional, defaults to time.Now
}

type Session struct {
	id   string
	deps Dependencies

	// opMu serializes transitions; mu guards the fields below so snapshots
	// stay readable while a backend call is in flight.
	opMu sync.Mutex
	mu   sync.RWMutex

	state        string
	filename     string
	documentText string
	summary      string
	history      []store.Turn
	updatedAt    time.Time
}

func New(id string, deps Dependencies) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	return &Session{
		id:        id,
		deps:      deps,
		state:     store.StateEmpty,
		updatedAt: deps.Now(),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot copies the current state; the history slice is not shared.
func (s *Session) Snapshot() store.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]store.Turn, len(s.history))
	copy(history, s.history)
	return store.SessionState{
		ID:           s.id,
		State:        s.state,
		Filename:     s.filename,
		DocumentText: s.documentText,
		Summary:      s.summary,
		History:      history,
		UpdatedAt:    s.updatedAt,
	}
}

// Upload loads a report. Re-delivering the loaded name is a no-op and
// reports loaded=false. On summarization failure the session ends EMPTY.
func (s *Session) Upload(ctx context.Context, doc store.Document) (bool, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.state != store.StateEmpty && s.filename == doc.Name {
		s.mu.Unlock()
		s.deps.Logger.Debug(logModule, "Same report re-delivered, ignoring", map[string]interface{}{
			"session_id": s.id,
			"filename":   doc.Name,
		})
		return false, nil
	}
	s.state = store.StateSummarizing
	s.history = nil
	s.updatedAt = s.deps.Now()
	s.mu.Unlock()

	text := s.deps.Ingestor.LoadReportText(doc.Name, doc.Content)

	summary, err := s.deps.Summarizer.Summarize(ctx, text)
	if err != nil {
		s.mu.Lock()
		s.state = store.StateEmpty
		s.filename = ""
		s.documentText = ""
		s.summary = ""
		s.history = nil
		s.updatedAt = s.deps.Now()
		s.mu.Unlock()

		s.deps.Logger.Error(logModule, "Report could not be summarized", map[string]interface{}{
			"session_id": s.id,
			"filename":   doc.Name,
			"error":      err.Error(),
		})
		s.publish(ctx, events.TypeReportFailed, map[string]interface{}{
			"filename": doc.Name,
			"error":    err.Error(),
		})
		return false, err
	}

	s.mu.Lock()
	s.filename = doc.Name
	s.documentText = text
	s.summary = summary
	s.history = nil
	s.state = store.StateReady
	s.updatedAt = s.deps.Now()
	s.mu.Unlock()

	s.deps.Logger.Info(logModule, "Report loaded", map[string]interface{}{
		"session_id":    s.id,
		"filename":      doc.Name,
		"text_chars":    len([]rune(text)),
		"summary_chars": len([]rune(summary)),
	})
	s.publish(ctx, events.TypeReportLoaded, map[string]interface{}{
		"filename":   doc.Name,
		"media_type": doc.MediaType,
		"text_chars": len([]rune(text)),
	})
	return true, nil
}

// Reset clears the conversation but keeps the report and its summary.
func (s *Session) Reset(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.state == store.StateEmpty {
		s.mu.Unlock()
		return ErrNoDocument
	}
	cleared := len(s.history)
	s.history = nil
	s.updatedAt = s.deps.Now()
	s.mu.Unlock()

	s.publish(ctx, events.TypeConversationReset, map[string]interface{}{
		"cleared_turns": cleared,
	})
	return nil
}

// Ask answers one question and appends the user/assistant pair. A failed
// backend call leaves history untouched.
func (s *Session) Ask(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}
	// fail fast instead of queueing behind an in-flight summary
	if s.State() != store.StateReady {
		return "", ErrNotReady
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	if s.state != store.StateReady {
		s.mu.RUnlock()
		return "", ErrNotReady
	}
	documentText, summary := s.documentText, s.summary
	history := make([]store.Turn, len(s.history))
	copy(history, s.history)
	s.mu.RUnlock()

	reply, err := s.deps.Responder.Respond(ctx, message, documentText, summary, history)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.history = append(s.history,
		store.Turn{Role: store.RoleUser, Content: message},
		store.Turn{Role: store.RoleAssistant, Content: reply},
	)
	turns := len(s.history)
	s.updatedAt = s.deps.Now()
	s.mu.Unlock()

	s.publish(ctx, events.TypeTurnAppended, map[string]interface{}{
		"history_turns": turns,
	})
	return reply, nil
}

func (s *Session) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.deps.Events == nil {
		return
	}
	if err := s.deps.Events.Publish(ctx, events.NewSessionEvent(eventType, s.id, data)); err != nil {
		s.deps.Logger.Warn(logModule, "Failed to publish session event", map[string]interface{}{
			"session_id": s.id,
			"event":      eventType,
			"error":      err.Error(),
		})
	}
}
