package chatapi

import (
	"encoding/json"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusResolved Status = "resolved"
	StatusPending  Status = "pending"
)

const (
	AttachmentImage = "image"
	AttachmentAudio = "audio"
)

// Attachment is already canonical on the wire; it passes through unchanged.
type Attachment struct {
	Kind string `json:"type"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

type Message struct {
	ID          string
	Role        Role
	Content     string
	Timestamp   time.Time
	Attachments []Attachment
}

// Session is the canonical in-memory shape of one conversation thread.
// Placeholder marks a session whose id was substituted locally because the
// record arrived without one; such ids are display-only and must never be
// used for a delete or update call.
type Session struct {
	ID          string
	Title       string
	Messages    []Message
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Status      Status
	Placeholder bool
}

// Active reports whether the session still accepts new messages.
func (s *Session) Active() bool {
	return s.Status == StatusActive
}

// Wire shapes, decoded once at the boundary. Timestamps stay raw here so the
// normalizer can accept both plain strings and wrapped-date objects.
type rawMessage struct {
	ID          string          `json:"id"`
	Role        string          `json:"role"`
	Content     string          `json:"content"`
	Timestamp   json.RawMessage `json:"timestamp"`
	Attachments []Attachment    `json:"attachments"`
}

type rawSession struct {
	ID        string          `json:"_id"`
	Title     string          `json:"title"`
	CreatedAt json.RawMessage `json:"createdAt"`
	UpdatedAt json.RawMessage `json:"updatedAt"`
	Status    string          `json:"status"`
	Messages  []rawMessage    `json:"messages"`
}

// Logger is the slice of the application logger this package needs for
// boundary diagnostics.
type Logger interface {
	Warn(message string, fields map[string]interface{})
	Error(message string, fields map[string]interface{})
}
