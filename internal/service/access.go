package service

import (
	"fmt"

	"github.com/collabinsight/server/internal/domain"
)

// AccessPolicy derives a requester's role within a project and answers
// capability questions. It is the single place project authorization rules
// live; handlers and workflows never inspect leader/member fields directly.
//
// Capabilities by role:
//
//	view      leader sees every item, member sees own assignments, none denied
//	create    leader assigns anyone, member only themselves
//	mutate    leader, or the item's current assignee
//	reassign  leader only
//	approve   leader only
type AccessPolicy struct{}

// RoleOf returns the requester's role in the project. Exactly one identity
// holds RoleLeader per project.
func (AccessPolicy) RoleOf(project *domain.Project, userID string) domain.Role {
	switch {
	case userID == project.LeaderID:
		return domain.RoleLeader
	case project.IsMember(userID):
		return domain.RoleMember
	default:
		return domain.RoleNone
	}
}

// RequireAccess derives the role and fails with ErrForbidden for outsiders.
// Every project-scoped operation calls this before touching any item.
func (p AccessPolicy) RequireAccess(project *domain.Project, userID string) (domain.Role, error) {
	role := p.RoleOf(project, userID)
	if role == domain.RoleNone {
		return role, fmt.Errorf("%w: not a member of this project", domain.ErrForbidden)
	}
	return role, nil
}

// CanMutate reports whether the requester may update or delete an item
// currently assigned to assigneeID.
func (AccessPolicy) CanMutate(role domain.Role, assigneeID, userID string) bool {
	return role == domain.RoleLeader || assigneeID == userID
}

// CanReassign reports whether the requester may change an item's assignee.
func (AccessPolicy) CanReassign(role domain.Role) bool {
	return role == domain.RoleLeader
}

// CanApprove reports whether the requester may run the bug review workflow.
func (AccessPolicy) CanApprove(role domain.Role) bool {
	return role == domain.RoleLeader
}

// VisibleAssignee returns the assignee filter for list operations: empty for
// leaders (all items), the requester's own id for members.
func (AccessPolicy) VisibleAssignee(role domain.Role, userID string) string {
	if role == domain.RoleLeader {
		return ""
	}
	return userID
}
