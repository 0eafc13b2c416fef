package service

import (
	"context"
	"time"

	"github.com/collabinsight/server/internal/domain"
)

// Store interfaces consumed by the services. The repository package provides
// the sqlx implementations; tests substitute in-memory fakes.

// UserStore is the identity store.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Create(ctx context.Context, user domain.User) (*domain.User, error)
	Update(ctx context.Context, user domain.User) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.User, error)
	Search(ctx context.Context, keyword string, limit int) ([]domain.UserRef, error)
}

// ProjectStore holds projects and their member sets.
type ProjectStore interface {
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	ListForUser(ctx context.Context, userID, keyword string) ([]domain.Project, error)
	Create(ctx context.Context, project domain.Project, memberIDs []string) (*domain.Project, error)
	AddMember(ctx context.Context, projectID, userID string) error
}

// TaskStore holds task work items.
type TaskStore interface {
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID, assigneeID string) ([]domain.Task, error)
	Create(ctx context.Context, task domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// BugStore holds bug work items.
type BugStore interface {
	FindByID(ctx context.Context, id string) (*domain.Bug, error)
	ListByProject(ctx context.Context, projectID, assigneeID string) ([]domain.Bug, error)
	Create(ctx context.Context, bug domain.Bug) (*domain.Bug, error)
	Update(ctx context.Context, bug domain.Bug) (*domain.Bug, error)
	Delete(ctx context.Context, id string) error
}

// MessageStore holds project chat history.
type MessageStore interface {
	ListByProject(ctx context.Context, projectID string, limit int) ([]domain.Message, error)
	Create(ctx context.Context, msg domain.Message) (*domain.Message, error)
}

// AnalyticsStore runs the dashboard aggregations.
type AnalyticsStore interface {
	TaskStatusCounts(ctx context.Context, projectIDs []string) (map[string]int, error)
	TaskUrgencyCounts(ctx context.Context, projectIDs []string) (map[string]int, error)
	BugStatusCounts(ctx context.Context, projectIDs []string) (map[string]int, error)
	BugSeverityCounts(ctx context.Context, projectIDs []string) (map[string]int, error)
	MemberCount(ctx context.Context, projectIDs []string) (int, error)
	ProjectProgress(ctx context.Context, projectIDs []string) ([]domain.ProjectProgress, error)
	UpcomingTasks(ctx context.Context, projectIDs []string, from, to time.Time, limit int) ([]domain.UpcomingTask, error)
	TopContributors(ctx context.Context, projectIDs []string, limit int) ([]domain.Contributor, error)
}
