package domain

import "time"

// MessageType represents the kind of chat message.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
)

// Message is a single entry in a project's chat history.
type Message struct {
	ID         string      `json:"id" db:"id"`
	ProjectID  string      `json:"project_id" db:"project_id"`
	SenderID   string      `json:"sender_id" db:"sender_id"`
	SenderName string      `json:"sender_name" db:"sender_name"`
	Content    string      `json:"content" db:"content"`
	Type       MessageType `json:"type" db:"type"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}
