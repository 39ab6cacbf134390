package models

import (
	"encoding/json"
	"time"
)

// Analytics event types.
const (
	EventAPICall             = "api_call"
	EventError               = "error"
	EventConversationCreated = "conversation_created"
)

// AnalyticsEvent defines the model for the 'analytics' table
type AnalyticsEvent struct {
	ID        int64           `json:"id" db:"id"`
	UserID    string          `json:"userId" db:"user_id"`
	EventType string          `json:"eventType" db:"event_type"`
	Feature   string          `json:"feature" db:"feature"`
	Metadata  json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}
