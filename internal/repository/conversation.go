package repository

import (
	"context"
	"errors"
	"time"

	"livechat-backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ConversationRepository struct {
	pool *pgxpool.Pool
}

func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{pool: pool}
}

func (r *ConversationRepository) Create(ctx context.Context, conv *model.Conversation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO conversations (id, visitor_id, started_at, last_message_at, metadata)
		VALUES ($1, $2, $3, $4, $5)
	`, conv.ID, conv.VisitorID, conv.StartedAt, conv.LastMessageAt, conv.Metadata)
	return err
}

func (r *ConversationRepository) Get(ctx context.Context, id string) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT id, visitor_id, started_at, last_message_at, metadata
		FROM conversations
		WHERE id = $1
	`, id).Scan(&conv.ID, &conv.VisitorID, &conv.StartedAt, &conv.LastMessageAt, &conv.Metadata)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// Touch bumps last_message_at only; used after assistant turns.
func (r *ConversationRepository) Touch(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE conversations SET last_message_at = $2 WHERE id = $1
	`, id, at)
	return err
}

// TouchWithVisitor bumps last_message_at and refreshes the visitor id; used
// on every visitor send.
func (r *ConversationRepository) TouchWithVisitor(ctx context.Context, id, visitorID string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE conversations SET last_message_at = $2, visitor_id = $3 WHERE id = $1
	`, id, at, visitorID)
	return err
}

// List returns all conversations, most recently active first.
func (r *ConversationRepository) List(ctx context.Context) ([]model.Conversation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, visitor_id, started_at, last_message_at, metadata
		FROM conversations
		ORDER BY last_message_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanConversations(rows)
}

// SearchByMessageContent returns conversations owning at least one message
// whose content matches the query case-insensitively, deduplicated, most
// recently active first.
func (r *ConversationRepository) SearchByMessageContent(ctx context.Context, query string) ([]model.Conversation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.visitor_id, c.started_at, c.last_message_at, c.metadata
		FROM conversations c
		WHERE EXISTS (
			SELECT 1 FROM messages m
			WHERE m.conversation_id = c.id AND m.content ILIKE '%' || $1 || '%'
		)
		ORDER BY c.last_message_at DESC
	`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanConversations(rows)
}

func (r *ConversationRepository) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM conversations`).Scan(&count)
	return count, err
}

func (r *ConversationRepository) CountStartedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM conversations WHERE started_at >= $1
	`, since).Scan(&count)
	return count, err
}

// DailyStarts groups conversation starts since the given instant by calendar
// day, oldest first. Days with no starts are omitted.
func (r *ConversationRepository) DailyStarts(ctx context.Context, since time.Time) ([]model.DailyConversationCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('day', started_at) AS day, COUNT(*)
		FROM conversations
		WHERE started_at >= $1
		GROUP BY day
		ORDER BY day
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.DailyConversationCount
	for rows.Next() {
		var dc model.DailyConversationCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}

func scanConversations(rows pgx.Rows) ([]model.Conversation, error) {
	var convs []model.Conversation
	for rows.Next() {
		var conv model.Conversation
		if err := rows.Scan(&conv.ID, &conv.VisitorID, &conv.StartedAt, &conv.LastMessageAt, &conv.Metadata); err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}
