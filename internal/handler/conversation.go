package handler

import (
	"context"
	"errors"
	"log"
	"time"

	"livechat-backend/internal/model"
	"livechat-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// ConversationReader is the read surface of the conversation repository the
// dashboard endpoints need.
type ConversationReader interface {
	List(ctx context.Context) ([]model.Conversation, error)
	Get(ctx context.Context, id string) (*model.Conversation, error)
	SearchByMessageContent(ctx context.Context, query string) ([]model.Conversation, error)
	CountTotal(ctx context.Context) (int64, error)
	CountStartedSince(ctx context.Context, since time.Time) (int64, error)
	DailyStarts(ctx context.Context, since time.Time) ([]model.DailyConversationCount, error)
}

type MessageReader interface {
	ListByConversation(ctx context.Context, conversationID string) ([]model.Message, error)
	CountTotal(ctx context.Context) (int64, error)
}

type ConversationHandler struct {
	convs ConversationReader
	msgs  MessageReader
}

func NewConversationHandler(convs ConversationReader, msgs MessageReader) *ConversationHandler {
	return &ConversationHandler{convs: convs, msgs: msgs}
}

// List returns every conversation, most recently active first.
// GET /api/conversations
func (h *ConversationHandler) List(c *fiber.Ctx) error {
	convs, err := h.convs.List(c.Context())
	if err != nil {
		log.Printf("[Conversations] list error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch conversations"})
	}
	if convs == nil {
		convs = []model.Conversation{}
	}
	return c.JSON(convs)
}

// Get returns one conversation and its full transcript in timestamp order.
// GET /api/conversations/:id
func (h *ConversationHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	conv, err := h.convs.Get(c.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "Conversation not found"})
	}
	if err != nil {
		log.Printf("[Conversations] get %s error: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch conversation details"})
	}

	msgs, err := h.msgs.ListByConversation(c.Context(), id)
	if err != nil {
		log.Printf("[Conversations] messages for %s error: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch conversation details"})
	}
	if msgs == nil {
		msgs = []model.Message{}
	}

	return c.JSON(fiber.Map{
		"conversation": conv,
		"messages":     msgs,
	})
}

// Search returns conversations owning at least one message matching the
// query case-insensitively, deduplicated. No pagination.
// GET /api/search?query=
func (h *ConversationHandler) Search(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Search query is required"})
	}

	convs, err := h.convs.SearchByMessageContent(c.Context(), query)
	if err != nil {
		log.Printf("[Conversations] search %q error: %v", query, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to search conversations"})
	}
	if convs == nil {
		convs = []model.Conversation{}
	}
	return c.JSON(convs)
}

// Stats returns dashboard aggregates over the trailing 7 days.
// GET /api/stats
func (h *ConversationHandler) Stats(c *fiber.Ctx) error {
	ctx := c.Context()

	totalConversations, err := h.convs.CountTotal(ctx)
	if err != nil {
		log.Printf("[Stats] conversation count error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}

	totalMessages, err := h.msgs.CountTotal(ctx)
	if err != nil {
		log.Printf("[Stats] message count error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}

	sevenDaysAgo := time.Now().UTC().AddDate(0, 0, -7)

	recent, err := h.convs.CountStartedSince(ctx, sevenDaysAgo)
	if err != nil {
		log.Printf("[Stats] recent count error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}

	daily, err := h.convs.DailyStarts(ctx, sevenDaysAgo)
	if err != nil {
		log.Printf("[Stats] daily starts error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}

	// Unpadded date keys, matching the dashboard chart contract
	chart := make([]model.ChartPoint, 0, len(daily))
	for _, d := range daily {
		chart = append(chart, model.ChartPoint{
			Date:          d.Day.Format("2006-1-2"),
			Conversations: d.Count,
		})
	}

	return c.JSON(model.StatsResponse{
		TotalConversations:  totalConversations,
		TotalMessages:       totalMessages,
		RecentConversations: recent,
		ChartData:           chart,
	})
}
