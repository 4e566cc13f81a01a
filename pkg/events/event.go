package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "REPORT_LOADED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

const (
	TypeSessionCreated    = "SESSION_CREATED"
	TypeSessionDeleted    = "SESSION_DELETED"
	TypeReportLoaded      = "REPORT_LOADED"
	TypeReportFailed      = "REPORT_FAILED"
	TypeConversationReset = "CONVERSATION_RESET"
	TypeTurnAppended      = "TURN_APPENDED"
)

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewSessionEvent stamps an event for one session with the current time.
func NewSessionEvent(eventType, sessionID string, data map[string]interface{}) BaseEvent {
	payload := map[string]interface{}{"session_id": sessionID}
	for k, v := range data {
		payload[k] = v
	}
	return BaseEvent{
		Type:       eventType,
		Data:       payload,
		OccurredAt: time.Now().UTC(),
	}
}
