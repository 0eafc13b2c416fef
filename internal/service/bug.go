package service

import (
	"context"
	"fmt"
	"time"

	"github.com/collabinsight/server/internal/domain"
)

// bugStatusEffect mutates a bug when its status enters the keyed state from
// a different one. Effects fire on entry only; re-saving an unchanged status
// is a no-op.
type bugStatusEffect func(bug *domain.Bug, actorID string, now time.Time)

// bugStatusEffects is the transition table for status side effects. States
// without an entry carry no implicit effects beyond the field overwrite.
var bugStatusEffects = map[domain.BugStatus]bugStatusEffect{
	// A resolution event records who resolved the bug and when. The pair
	// persists until the next resolution event overwrites it.
	domain.BugStatusResolved: func(bug *domain.Bug, actorID string, now time.Time) {
		bug.ResolvedByID = &actorID
		bug.ResolvedAt = &now
	},
	// Entering review always starts from a clean review sub-state.
	domain.BugStatusPendingReview: func(bug *domain.Bug, _ string, _ time.Time) {
		bug.ApprovalStatus = domain.ApprovalPending
		bug.ReviewerID = nil
		bug.ReviewComment = ""
		bug.ReviewedAt = nil
	},
}

func applyBugStatus(bug *domain.Bug, next domain.BugStatus, actorID string, now time.Time) {
	prev := bug.Status
	bug.Status = next
	if prev == next {
		return
	}
	if effect, ok := bugStatusEffects[next]; ok {
		effect(bug, actorID, now)
	}
}

// BugService is the workflow gateway for bugs: the task pipeline plus the
// resolution side effects and the leader-only review sub-workflow.
type BugService struct {
	policy   AccessPolicy
	resolver *AssignmentResolver
	projects ProjectStore
	bugs     BugStore
	now      func() time.Time
}

// NewBugService creates a new BugService.
func NewBugService(projects ProjectStore, bugs BugStore, resolver *AssignmentResolver) *BugService {
	return &BugService{
		resolver: resolver,
		projects: projects,
		bugs:     bugs,
		now:      time.Now,
	}
}

func (s *BugService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// CreateBugInput carries the fields accepted on bug creation.
type CreateBugInput struct {
	Title      string
	Details    string
	AssigneeID string
	Severity   domain.BugSeverity
	StartDate  *time.Time
	Deadline   *time.Time
}

// UpdateBugInput carries a partial update; nil fields are left untouched.
type UpdateBugInput struct {
	Title      *string
	Details    *string
	AssigneeID *string
	Severity   *domain.BugSeverity
	Status     *domain.BugStatus
	Solution   *string
	StartDate  *time.Time
	Deadline   *time.Time
}

// ApproveBugInput carries the leader's review verdict.
type ApproveBugInput struct {
	Result        domain.ApprovalStatus
	ReviewComment string
}

// List returns the project's bugs the requester may see: all of them for the
// leader, only own assignments for a member.
func (s *BugService) List(ctx context.Context, projectID, requesterID string) ([]domain.Bug, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	role, err := s.policy.RequireAccess(project, requesterID)
	if err != nil {
		return nil, err
	}

	return s.bugs.ListByProject(ctx, projectID, s.policy.VisibleAssignee(role, requesterID))
}

// Create reports a bug. Members can only create bugs assigned to themselves;
// leaders may assign anyone and thereby enroll new members. New bugs always
// start open with a pending approval sub-state.
func (s *BugService) Create(ctx context.Context, projectID, requesterID string, in CreateBugInput) (*domain.Bug, error) {
	if in.Title == "" {
		return nil, &domain.ValidationError{Field: "title", Message: "title is required"}
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	role, err := s.policy.RequireAccess(project, requesterID)
	if err != nil {
		return nil, err
	}

	assigneeID, err := s.resolver.Resolve(ctx, project, requesterID, role, in.AssigneeID)
	if err != nil {
		return nil, err
	}

	bug := domain.Bug{
		ProjectID:      projectID,
		Title:          in.Title,
		Details:        in.Details,
		AssigneeID:     assigneeID,
		CreatedByID:    requesterID,
		Severity:       in.Severity,
		Status:         domain.BugStatusOpen,
		ApprovalStatus: domain.ApprovalPending,
		StartDate:      in.StartDate,
		Deadline:       in.Deadline,
	}
	if bug.Severity == "" {
		bug.Severity = domain.BugSeverityMedium
	}

	return s.bugs.Create(ctx, bug)
}

// Update applies a partial update to a bug. Only the leader may change the
// assignee; the current assignee may change everything else. Status changes
// run the transition side effects against the previously stored status.
func (s *BugService) Update(ctx context.Context, bugID, requesterID string, in UpdateBugInput) (*domain.Bug, error) {
	bug, err := s.bugs.FindByID(ctx, bugID)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.FindByID(ctx, bug.ProjectID)
	if err != nil {
		return nil, err
	}

	role := s.policy.RoleOf(project, requesterID)
	if !s.policy.CanMutate(role, bug.AssigneeID, requesterID) {
		return nil, fmt.Errorf("%w: no permission to modify this bug", domain.ErrForbidden)
	}

	if in.AssigneeID != nil {
		if !s.policy.CanReassign(role) {
			if *in.AssigneeID != bug.AssigneeID {
				return nil, fmt.Errorf("%w: members cannot reassign bugs", domain.ErrForbidden)
			}
		} else {
			assigneeID, err := s.resolver.Resolve(ctx, project, requesterID, role, *in.AssigneeID)
			if err != nil {
				return nil, err
			}
			bug.AssigneeID = assigneeID
		}
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, &domain.ValidationError{Field: "title", Message: "title is required"}
		}
		bug.Title = *in.Title
	}
	if in.Details != nil {
		bug.Details = *in.Details
	}
	if in.Severity != nil {
		bug.Severity = *in.Severity
	}
	if in.Status != nil {
		applyBugStatus(bug, *in.Status, requesterID, s.clock())
	}
	if in.Solution != nil {
		bug.Solution = *in.Solution
	}
	if in.StartDate != nil {
		bug.StartDate = in.StartDate
	}
	if in.Deadline != nil {
		bug.Deadline = in.Deadline
	}

	return s.bugs.Update(ctx, *bug)
}

// Delete removes a bug. Allowed for the leader and the current assignee.
func (s *BugService) Delete(ctx context.Context, bugID, requesterID string) error {
	bug, err := s.bugs.FindByID(ctx, bugID)
	if err != nil {
		return err
	}

	project, err := s.projects.FindByID(ctx, bug.ProjectID)
	if err != nil {
		return err
	}

	role := s.policy.RoleOf(project, requesterID)
	if !s.policy.CanMutate(role, bug.AssigneeID, requesterID) {
		return fmt.Errorf("%w: no permission to delete this bug", domain.ErrForbidden)
	}

	return s.bugs.Delete(ctx, bugID)
}

// Approve runs the leader-only review on a bug left in pending_review.
// Approval forces the bug to resolved and backfills the resolver with the
// reviewer when the original solver never set one. Rejection records the
// verdict but leaves the status where it is, keeping the bug in front of its
// assignee for rework.
func (s *BugService) Approve(ctx context.Context, bugID, requesterID string, in ApproveBugInput) (*domain.Bug, error) {
	if in.Result != domain.ApprovalApproved && in.Result != domain.ApprovalRejected {
		return nil, &domain.ValidationError{Field: "approval_result", Message: "result must be approved or rejected"}
	}

	bug, err := s.bugs.FindByID(ctx, bugID)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.FindByID(ctx, bug.ProjectID)
	if err != nil {
		return nil, err
	}

	role := s.policy.RoleOf(project, requesterID)
	if !s.policy.CanApprove(role) {
		return nil, fmt.Errorf("%w: only the project leader may review bugs", domain.ErrForbidden)
	}

	if bug.Status != domain.BugStatusPendingReview {
		return nil, fmt.Errorf("%w: bug is not awaiting review", domain.ErrConflict)
	}

	now := s.clock()
	bug.ApprovalStatus = in.Result
	bug.ReviewerID = &requesterID
	bug.ReviewComment = in.ReviewComment
	bug.ReviewedAt = &now

	if in.Result == domain.ApprovalApproved {
		bug.Status = domain.BugStatusResolved
		if bug.ResolvedByID == nil {
			bug.ResolvedByID = &requesterID
			bug.ResolvedAt = &now
		}
	}

	return s.bugs.Update(ctx, *bug)
}
