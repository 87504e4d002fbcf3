package model

import "encoding/json"

// Realtime event types. The widget and server exchange a flat envelope of
// named events with JSON payloads.
const (
	EventJoinConversation   = "join_conversation"
	EventConversationJoined = "conversation_joined"
	EventPreviousMessages   = "previous_messages"
	EventSendMessage        = "send_message"
	EventReceiveMessage     = "receive_message"
	EventError              = "error"
	EventPing               = "ping"
	EventPong               = "pong"
)

type WSEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// JoinConversationRequest asks to subscribe the session to a conversation.
// ConversationID may be the "new" sentinel or a previously issued id.
type JoinConversationRequest struct {
	ConversationID string   `json:"conversationId"`
	VisitorID      string   `json:"visitorId"`
	Metadata       Metadata `json:"metadata"`
}

type SendMessageRequest struct {
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
	Sender         string `json:"sender"`
	VisitorID      string `json:"visitorId"`
}

type ConversationJoined struct {
	ConversationID string `json:"conversationId"`
}

type PreviousMessages struct {
	Messages []Message `json:"messages"`
}

type WSError struct {
	Message string `json:"message"`
}
