package model

import "time"

// Sender roles. Messages are authored by the visitor, the AI responder, or
// the system itself (failure notices).
const (
	SenderUser   = "user"
	SenderAI     = "ai"
	SenderSystem = "system"
)

// AIUnavailableNotice is the fixed system message broadcast when the AI
// responder fails.
const AIUnavailableNotice = "Sorry, I'm having trouble connecting to the AI service right now. Please try again later."

// Message is a single persisted utterance. Messages are append-only and
// ordered by timestamp.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Content        string    `json:"content"`
	Sender         string    `json:"sender"`
	Timestamp      time.Time `json:"timestamp"`
}

// ValidSender reports whether s is a known sender role.
func ValidSender(s string) bool {
	return s == SenderUser || s == SenderAI || s == SenderSystem
}
