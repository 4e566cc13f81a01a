package store

import "time"

// Document is one uploaded report. Name doubles as the change-detection key.
type Document struct {
	Name      string `json:"name"`
	Content   []byte `json:"-"`
	MediaType string `json:"media_type,omitempty"`
}

// Turn is one role-tagged message of the conversation history.
type Turn struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// SessionState is a point-in-time copy of a conversation session.
type SessionState struct {
	ID           string    `json:"id"`
	State        string    `json:"state"` // "EMPTY" | "SUMMARIZING" | "READY"
	Filename     string    `json:"filename"`
	DocumentText string    `json:"document_text"`
	Summary      string    `json:"summary"`
	History      []Turn    `json:"history"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	StateEmpty       = "EMPTY"
	StateSummarizing = "SUMMARIZING"
	StateReady       = "READY"

	RoleUser      = "user"
	RoleAssistant = "assistant"
)
