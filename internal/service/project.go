package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/collabinsight/server/internal/domain"
)

const searchUserLimit = 10

// ProjectService handles project listing, creation and member search.
type ProjectService struct {
	policy   AccessPolicy
	projects ProjectStore
	users    UserStore
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projects ProjectStore, users UserStore) *ProjectService {
	return &ProjectService{projects: projects, users: users}
}

// List returns the requester's projects, optionally filtered by a keyword on
// name or description.
func (s *ProjectService) List(ctx context.Context, requesterID, keyword string) ([]domain.Project, error) {
	return s.projects.ListForUser(ctx, requesterID, keyword)
}

// CreateProjectInput carries the fields accepted on project creation.
type CreateProjectInput struct {
	Name        string
	Description string
	Status      domain.ProjectStatus
	Priority    domain.ProjectPriority
	Deadline    *time.Time
	MemberIDs   []string
}

// Create makes the requester the leader of a new project. Supplied member
// ids are validated, deduplicated and enrolled alongside the leader.
func (s *ProjectService) Create(ctx context.Context, requesterID string, in CreateProjectInput) (*domain.Project, error) {
	if in.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Message: "name is required"}
	}

	members := make([]string, 0, len(in.MemberIDs))
	for _, id := range in.MemberIDs {
		if id == requesterID || slices.Contains(members, id) {
			continue
		}
		if _, err := s.users.FindByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, &domain.ValidationError{Field: "member_ids", Message: "user " + id + " does not exist"}
			}
			return nil, err
		}
		members = append(members, id)
	}

	project := domain.Project{
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		Deadline:    in.Deadline,
		LeaderID:    requesterID,
	}
	if project.Status == "" {
		project.Status = domain.ProjectStatusNotStarted
	}
	if project.Priority == "" {
		project.Priority = domain.ProjectPriorityNormal
	}

	return s.projects.Create(ctx, project, members)
}

// SearchUsers finds assignable users by username keyword or exact id.
// Leader-only: the result is used to hand out work.
func (s *ProjectService) SearchUsers(ctx context.Context, projectID, requesterID, keyword string) ([]domain.UserRef, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	role, err := s.policy.RequireAccess(project, requesterID)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleLeader {
		return nil, fmt.Errorf("%w: only the project leader may search for assignees", domain.ErrForbidden)
	}

	return s.users.Search(ctx, keyword, searchUserLimit)
}
