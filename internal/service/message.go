package service

import (
	"context"

	"github.com/collabinsight/server/internal/domain"
)

const (
	defaultMessageLimit = 100
	maxMessageLimit     = 200
)

// MessageService exposes project chat history to project members. The
// real-time transport lives elsewhere; this is the persisted history.
type MessageService struct {
	policy   AccessPolicy
	projects ProjectStore
	messages MessageStore
}

// NewMessageService creates a new MessageService.
func NewMessageService(projects ProjectStore, messages MessageStore) *MessageService {
	return &MessageService{projects: projects, messages: messages}
}

// List returns the newest limit messages of a project in chronological
// order. Any project member may read the history.
func (s *MessageService) List(ctx context.Context, projectID, requesterID string, limit int) ([]domain.Message, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if _, err := s.policy.RequireAccess(project, requesterID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	return s.messages.ListByProject(ctx, projectID, limit)
}

// Post appends a message to the project's history.
func (s *MessageService) Post(ctx context.Context, projectID, requesterID, content string, msgType domain.MessageType) (*domain.Message, error) {
	if content == "" {
		return nil, &domain.ValidationError{Field: "content", Message: "content is required"}
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if _, err := s.policy.RequireAccess(project, requesterID); err != nil {
		return nil, err
	}

	if msgType == "" {
		msgType = domain.MessageTypeText
	}

	return s.messages.Create(ctx, domain.Message{
		ProjectID: projectID,
		SenderID:  requesterID,
		Content:   content,
		Type:      msgType,
	})
}
