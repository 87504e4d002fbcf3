package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"livechat-backend/internal/model"
	"livechat-backend/internal/repository"

	"github.com/google/uuid"
)

var ErrInvalidSender = errors.New("invalid sender role")

// ConversationStore is the slice of the conversation repository the chat
// service depends on.
type ConversationStore interface {
	Create(ctx context.Context, conv *model.Conversation) error
	Get(ctx context.Context, id string) (*model.Conversation, error)
	Touch(ctx context.Context, id string, at time.Time) error
	TouchWithVisitor(ctx context.Context, id, visitorID string, at time.Time) error
}

type MessageStore interface {
	Insert(ctx context.Context, msg *model.Message) error
	ListByConversation(ctx context.Context, conversationID string) ([]model.Message, error)
}

// ChatService implements the realtime protocol: conversation join with
// history replay, and message send with broadcast plus one AI turn per
// visitor message.
type ChatService struct {
	convs     ConversationStore
	msgs      MessageStore
	hub       *Hub
	responder *Responder
}

func NewChatService(convs ConversationStore, msgs MessageStore, hub *Hub, responder *Responder) *ChatService {
	return &ChatService{convs: convs, msgs: msgs, hub: hub, responder: responder}
}

// Join resolves or creates the conversation, subscribes the session to its
// room, and replays the full history to the caller.
//
// The "new" sentinel always yields a fresh id. An unknown client-supplied id
// re-creates the conversation under that id, so widgets with cached ids
// survive a wiped database.
func (s *ChatService) Join(ctx context.Context, client *Client, req model.JoinConversationRequest) error {
	now := time.Now().UTC()

	id := req.ConversationID
	if id == "" || id == model.ConversationNew {
		id = uuid.NewString()
		conv := &model.Conversation{
			ID:            id,
			VisitorID:     req.VisitorID,
			StartedAt:     now,
			LastMessageAt: now,
			Metadata:      req.Metadata,
		}
		if err := s.convs.Create(ctx, conv); err != nil {
			return fmt.Errorf("create conversation: %w", err)
		}
	} else {
		_, err := s.convs.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			conv := &model.Conversation{
				ID:            id,
				VisitorID:     req.VisitorID,
				StartedAt:     now,
				LastMessageAt: now,
				Metadata:      req.Metadata,
			}
			if err := s.convs.Create(ctx, conv); err != nil {
				return fmt.Errorf("create conversation %s: %w", id, err)
			}
		} else if err != nil {
			return fmt.Errorf("load conversation %s: %w", id, err)
		}
	}

	client.VisitorID = req.VisitorID
	s.hub.Join(client, id)

	client.Notify(model.EventConversationJoined, model.ConversationJoined{ConversationID: id})

	history, err := s.msgs.ListByConversation(ctx, id)
	if err != nil {
		return fmt.Errorf("load history for %s: %w", id, err)
	}
	if history == nil {
		history = []model.Message{}
	}
	client.Notify(model.EventPreviousMessages, model.PreviousMessages{Messages: history})

	return nil
}

// SendMessage persists and broadcasts the message, then runs one AI turn if
// the sender is the visitor. Persistence and broadcast are not atomic: a
// failure after the insert leaves the row in place with no rollback.
func (s *ChatService) SendMessage(ctx context.Context, req model.SendMessageRequest) error {
	if !model.ValidSender(req.Sender) {
		return ErrInvalidSender
	}

	now := time.Now().UTC()
	msg := &model.Message{
		ID:             uuid.NewString(),
		ConversationID: req.ConversationID,
		Content:        req.Content,
		Sender:         req.Sender,
		Timestamp:      now,
	}
	if err := s.msgs.Insert(ctx, msg); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	if err := s.convs.TouchWithVisitor(ctx, req.ConversationID, req.VisitorID, now); err != nil {
		return fmt.Errorf("touch conversation %s: %w", req.ConversationID, err)
	}

	s.hub.Broadcast(req.ConversationID, model.EventReceiveMessage, msg)

	if req.Sender == model.SenderUser {
		s.respond(ctx, req.ConversationID, req.Content)
	}

	return nil
}

// respond produces exactly one outcome message per visitor message: an AI
// reply on success, the fixed unavailability notice on failure.
func (s *ChatService) respond(ctx context.Context, conversationID, content string) {
	now := time.Now().UTC()
	out := &model.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Timestamp:      now,
	}

	reply, err := s.responder.Reply(ctx, content)
	if err != nil {
		log.Printf("[Chat] AI reply failed for %s: %v", conversationID, err)
		out.Sender = model.SenderSystem
		out.Content = model.AIUnavailableNotice
	} else {
		out.Sender = model.SenderAI
		out.Content = reply
	}

	if err := s.msgs.Insert(ctx, out); err != nil {
		log.Printf("[Chat] insert %s message failed for %s: %v", out.Sender, conversationID, err)
		return
	}

	if out.Sender == model.SenderAI {
		if err := s.convs.Touch(ctx, conversationID, now); err != nil {
			log.Printf("[Chat] touch conversation %s failed: %v", conversationID, err)
		}
	}

	s.hub.Broadcast(conversationID, model.EventReceiveMessage, out)
}
