package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/collabinsight/server/internal/domain"
)

// AssignmentResolver validates a proposed assignee and, for leaders, enrolls
// not-yet-member assignees into the project. Task and Bug assignment both
// funnel through it so the invariant "assignee is an effective member" has a
// single owner.
type AssignmentResolver struct {
	users    UserStore
	projects ProjectStore
}

// NewAssignmentResolver creates a new AssignmentResolver.
func NewAssignmentResolver(users UserStore, projects ProjectStore) *AssignmentResolver {
	return &AssignmentResolver{users: users, projects: projects}
}

// Resolve returns the assignee id to write on the item. An absent proposed
// assignee defaults to the requester. Members may only assign themselves;
// leaders may assign anyone, and assigning a non-member enrolls them into the
// project's member set before the item is written. The membership write is
// persisted immediately and is not rolled back if the item write later fails.
func (r *AssignmentResolver) Resolve(ctx context.Context, project *domain.Project, requesterID string, role domain.Role, proposed string) (string, error) {
	assigneeID := proposed
	if assigneeID == "" {
		assigneeID = requesterID
	}

	if role != domain.RoleLeader && assigneeID != requesterID {
		return "", fmt.Errorf("%w: members may only assign work to themselves", domain.ErrForbidden)
	}

	assignee, err := r.users.FindByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", &domain.ValidationError{Field: "assignee_id", Message: "assigned user does not exist"}
		}
		return "", err
	}

	if role == domain.RoleLeader && !project.IsMember(assigneeID) {
		if err := r.projects.AddMember(ctx, project.ID, assigneeID); err != nil {
			return "", err
		}
		project.MemberIDs = append(project.MemberIDs, assigneeID)
		slog.Info("assignee auto-enrolled into project",
			"project_id", project.ID,
			"user_id", assigneeID,
			"username", assignee.Username,
		)
	}

	return assigneeID, nil
}
