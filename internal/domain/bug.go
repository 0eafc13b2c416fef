package domain

import (
	"slices"
	"time"
)

// BugStatus represents the lifecycle state of a bug. The intended flow is
// open -> in_progress -> pending_review -> resolved -> closed, with
// cancelled reachable from any non-terminal state and pending_review moving
// back to in_progress when a review rejects the fix.
type BugStatus string

const (
	BugStatusOpen          BugStatus = "open"
	BugStatusInProgress    BugStatus = "in_progress"
	BugStatusPendingReview BugStatus = "pending_review"
	BugStatusResolved      BugStatus = "resolved"
	BugStatusClosed        BugStatus = "closed"
	BugStatusCancelled     BugStatus = "cancelled"
)

// BugStatuses lists every bug status, in lifecycle order.
var BugStatuses = []BugStatus{
	BugStatusOpen,
	BugStatusInProgress,
	BugStatusPendingReview,
	BugStatusResolved,
	BugStatusClosed,
	BugStatusCancelled,
}

// ParseBugStatus rejects unknown status values at the boundary.
func ParseBugStatus(s string) (BugStatus, error) {
	if slices.Contains(BugStatuses, BugStatus(s)) {
		return BugStatus(s), nil
	}
	return "", &ValidationError{Field: "status", Message: "unknown bug status " + s}
}

// BugSeverity represents how severe a bug is. Independent of status.
type BugSeverity string

const (
	BugSeverityCritical BugSeverity = "critical"
	BugSeverityHigh     BugSeverity = "high"
	BugSeverityMedium   BugSeverity = "medium"
	BugSeverityLow      BugSeverity = "low"
)

// BugSeverities lists every bug severity, most severe first.
var BugSeverities = []BugSeverity{
	BugSeverityCritical,
	BugSeverityHigh,
	BugSeverityMedium,
	BugSeverityLow,
}

// ParseBugSeverity rejects unknown severity values at the boundary.
func ParseBugSeverity(s string) (BugSeverity, error) {
	if slices.Contains(BugSeverities, BugSeverity(s)) {
		return BugSeverity(s), nil
	}
	return "", &ValidationError{Field: "severity", Message: "unknown bug severity " + s}
}

// ApprovalStatus is the review sub-state of a bug. Only meaningful while a
// bug moves through pending_review; it resets to pending every time the bug
// re-enters that status.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ParseApprovalStatus rejects unknown approval results at the boundary.
func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	switch ApprovalStatus(s) {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return ApprovalStatus(s), nil
	}
	return "", &ValidationError{Field: "approval_result", Message: "unknown approval result " + s}
}

// Bug is a defect report assigned to exactly one member, with a review
// sub-workflow on top of the task-like lifecycle. ProjectID and CreatedByID
// are immutable once written. ResolvedByID/ResolvedAt persist until a new
// resolution event overwrites them.
type Bug struct {
	ID             string         `json:"id" db:"id"`
	ProjectID      string         `json:"project_id" db:"project_id"`
	Title          string         `json:"title" db:"title"`
	Details        string         `json:"details" db:"details"`
	AssigneeID     string         `json:"assignee_id" db:"assignee_id"`
	CreatedByID    string         `json:"created_by_id" db:"created_by_id"`
	Severity       BugSeverity    `json:"severity" db:"severity"`
	Status         BugStatus      `json:"status" db:"status"`
	Solution       string         `json:"solution" db:"solution"`
	ResolvedByID   *string        `json:"resolved_by_id,omitempty" db:"resolved_by_id"`
	ResolvedAt     *time.Time     `json:"resolved_at,omitempty" db:"resolved_at"`
	ApprovalStatus ApprovalStatus `json:"approval_status" db:"approval_status"`
	ReviewerID     *string        `json:"reviewer_id,omitempty" db:"reviewer_id"`
	ReviewComment  string         `json:"review_comment" db:"review_comment"`
	ReviewedAt     *time.Time     `json:"reviewed_at,omitempty" db:"reviewed_at"`
	StartDate      *time.Time     `json:"start_date,omitempty" db:"start_date"`
	Deadline       *time.Time     `json:"deadline,omitempty" db:"deadline"`
	AssigneeName   string         `json:"assignee_name" db:"assignee_name"`
	CreatedByName  string         `json:"created_by_name" db:"created_by_name"`
	ResolvedByName *string        `json:"resolved_by_name,omitempty" db:"resolved_by_name"`
	ReviewerName   *string        `json:"reviewer_name,omitempty" db:"reviewer_name"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}
