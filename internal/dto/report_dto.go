package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id    uuid.UUID `json:"id"`
	State string    `json:"state"`
}

type TurnDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type SessionResponse struct {
	Id            uuid.UUID `json:"id"`
	State         string    `json:"state"`
	Filename      string    `json:"filename,omitempty"`
	DocumentChars int       `json:"document_chars"`
	Summary       string    `json:"summary,omitempty"`
	History       []TurnDTO `json:"history"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type UploadReportRequest struct {
	Filename  string `validate:"required"`
	MediaType string
	Content   []byte
}

type UploadReportResponse struct {
	// Loaded is false when the same file was delivered again and nothing changed.
	Loaded  bool             `json:"loaded"`
	Session *SessionResponse `json:"session"`
}

type SendChatRequest struct {
	Message string `json:"message" validate:"required,max=8000"`
}

type SendChatResponse struct {
	Reply   string           `json:"reply"`
	Session *SessionResponse `json:"session"`
}
