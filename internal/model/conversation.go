package model

import "time"

// ConversationNew is the sentinel id a widget sends when it has no
// conversation to resume.
const ConversationNew = "new"

// Metadata captures the page context the widget was loaded in.
type Metadata struct {
	UserAgent string `json:"userAgent,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
	PageURL   string `json:"pageUrl,omitempty"`
	IPAddress string `json:"ipAddress,omitempty"`
}

// Conversation is a persisted chat thread. The id is opaque and immutable;
// it may be server-generated or carried over from a widget resuming against
// a wiped database.
type Conversation struct {
	ID            string    `json:"id"`
	VisitorID     string    `json:"visitorId"`
	StartedAt     time.Time `json:"startedAt"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	Metadata      Metadata  `json:"metadata"`
}
