package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/collabinsight/server/internal/domain"
)

// MessageRepository handles project chat history access.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// ListByProject returns the newest limit messages of a project in
// chronological order.
func (r *MessageRepository) ListByProject(ctx context.Context, projectID string, limit int) ([]domain.Message, error) {
	messages := []domain.Message{}
	err := r.db.SelectContext(ctx, &messages,
		`SELECT m.id, m.project_id, m.sender_id, m.content, m.type, m.created_at,
		        u.username AS sender_name
		 FROM messages m
		 JOIN users u ON u.id = m.sender_id
		 WHERE m.project_id = $1
		 ORDER BY m.created_at DESC
		 LIMIT $2`, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages for project %s: %w", projectID, err)
	}

	slices.Reverse(messages)
	return messages, nil
}

// Create appends a message to a project's history and returns the stored row.
func (r *MessageRepository) Create(ctx context.Context, msg domain.Message) (*domain.Message, error) {
	msg.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, project_id, sender_id, content, type)
		 VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.ProjectID, msg.SenderID, msg.Content, msg.Type)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	var result domain.Message
	err = r.db.GetContext(ctx, &result,
		`SELECT m.id, m.project_id, m.sender_id, m.content, m.type, m.created_at,
		        u.username AS sender_name
		 FROM messages m
		 JOIN users u ON u.id = m.sender_id
		 WHERE m.id = $1`, msg.ID)
	if err != nil {
		return nil, fmt.Errorf("reload message: %w", err)
	}
	return &result, nil
}
