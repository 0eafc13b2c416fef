package domain

import (
	"slices"
	"time"
)

// ProjectStatus represents the overall state of a project.
type ProjectStatus string

const (
	ProjectStatusNotStarted ProjectStatus = "not_started"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

// ProjectStatuses lists every project status, in lifecycle order.
var ProjectStatuses = []ProjectStatus{
	ProjectStatusNotStarted,
	ProjectStatusInProgress,
	ProjectStatusCompleted,
}

// ParseProjectStatus rejects unknown status values at the boundary.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	if slices.Contains(ProjectStatuses, ProjectStatus(s)) {
		return ProjectStatus(s), nil
	}
	return "", &ValidationError{Field: "status", Message: "unknown project status " + s}
}

// ProjectPriority represents how urgent a project is.
type ProjectPriority string

const (
	ProjectPriorityHigh   ProjectPriority = "high"
	ProjectPriorityMedium ProjectPriority = "medium"
	ProjectPriorityNormal ProjectPriority = "normal"
	ProjectPriorityLow    ProjectPriority = "low"
)

// ParseProjectPriority rejects unknown priority values at the boundary.
func ParseProjectPriority(s string) (ProjectPriority, error) {
	switch ProjectPriority(s) {
	case ProjectPriorityHigh, ProjectPriorityMedium, ProjectPriorityNormal, ProjectPriorityLow:
		return ProjectPriority(s), nil
	}
	return "", &ValidationError{Field: "priority", Message: "unknown project priority " + s}
}

// Project groups tasks, bugs and chat under a single leader and member set.
// The leader is implicitly a member; MemberIDs may or may not repeat the
// leader, so use IsMember rather than scanning the slice directly.
type Project struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Status      ProjectStatus   `json:"status" db:"status"`
	Priority    ProjectPriority `json:"priority" db:"priority"`
	Deadline    *time.Time      `json:"deadline,omitempty" db:"deadline"`
	LeaderID    string          `json:"leader_id" db:"leader_id"`
	MemberIDs   []string        `json:"member_ids" db:"-"`
	Leader      *UserRef        `json:"leader,omitempty" db:"-"`
	Members     []UserRef       `json:"members,omitempty" db:"-"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// IsMember reports whether id is an effective member of the project. The
// leader always counts.
func (p *Project) IsMember(id string) bool {
	return id == p.LeaderID || slices.Contains(p.MemberIDs, id)
}
