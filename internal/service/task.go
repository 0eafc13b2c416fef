package service

import (
	"context"
	"fmt"
	"time"

	"github.com/collabinsight/server/internal/domain"
)

// TaskService is the workflow gateway for tasks. Every operation runs the
// same pipeline: resolve project, resolve role, authorize, resolve assignee
// when one is involved, apply the update, persist.
type TaskService struct {
	policy   AccessPolicy
	resolver *AssignmentResolver
	projects ProjectStore
	tasks    TaskStore
}

// NewTaskService creates a new TaskService.
func NewTaskService(projects ProjectStore, tasks TaskStore, resolver *AssignmentResolver) *TaskService {
	return &TaskService{
		resolver: resolver,
		projects: projects,
		tasks:    tasks,
	}
}

// CreateTaskInput carries the fields accepted on task creation.
type CreateTaskInput struct {
	Title      string
	Details    string
	AssigneeID string
	Urgency    domain.TaskUrgency
	Status     domain.TaskStatus
	StartDate  *time.Time
	Deadline   *time.Time
}

// UpdateTaskInput carries a partial update; nil fields are left untouched.
type UpdateTaskInput struct {
	Title      *string
	Details    *string
	AssigneeID *string
	Urgency    *domain.TaskUrgency
	Status     *domain.TaskStatus
	StartDate  *time.Time
	Deadline   *time.Time
}

// List returns the project's tasks the requester may see: all of them for
// the leader, only own assignments for a member.
func (s *TaskService) List(ctx context.Context, projectID, requesterID string) ([]domain.Task, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	role, err := s.policy.RequireAccess(project, requesterID)
	if err != nil {
		return nil, err
	}

	return s.tasks.ListByProject(ctx, projectID, s.policy.VisibleAssignee(role, requesterID))
}

// Create adds a task to the project. Members can only create tasks assigned
// to themselves; leaders may assign anyone and thereby enroll new members.
func (s *TaskService) Create(ctx context.Context, projectID, requesterID string, in CreateTaskInput) (*domain.Task, error) {
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

	task := domain.Task{
		ProjectID:   projectID,
		Title:       in.Title,
		Details:     in.Details,
		AssigneeID:  assigneeID,
		CreatedByID: requesterID,
		Urgency:     in.Urgency,
		Status:      in.Status,
		StartDate:   in.StartDate,
		Deadline:    in.Deadline,
	}
	if task.Urgency == "" {
		task.Urgency = domain.TaskUrgencyNormal
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusTodo
	}

	return s.tasks.Create(ctx, task)
}

// Update applies a partial update to a task. Only the leader may change the
// assignee; the current assignee may change everything else.
func (s *TaskService) Update(ctx context.Context, taskID, requesterID string, in UpdateTaskInput) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.FindByID(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}

	role := s.policy.RoleOf(project, requesterID)
	if !s.policy.CanMutate(role, task.AssigneeID, requesterID) {
		return nil, fmt.Errorf("%w: no permission to modify this task", domain.ErrForbidden)
	}

	if in.AssigneeID != nil {
		if !s.policy.CanReassign(role) {
			if *in.AssigneeID != task.AssigneeID {
				return nil, fmt.Errorf("%w: members cannot reassign tasks", domain.ErrForbidden)
			}
		} else {
			assigneeID, err := s.resolver.Resolve(ctx, project, requesterID, role, *in.AssigneeID)
			if err != nil {
				return nil, err
			}
			task.AssigneeID = assigneeID
		}
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, &domain.ValidationError{Field: "title", Message: "title is required"}
		}
		task.Title = *in.Title
	}
	if in.Details != nil {
		task.Details = *in.Details
	}
	if in.Urgency != nil {
		task.Urgency = *in.Urgency
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.StartDate != nil {
		task.StartDate = in.StartDate
	}
	if in.Deadline != nil {
		task.Deadline = in.Deadline
	}

	return s.tasks.Update(ctx, *task)
}

// Delete removes a task. Allowed for the leader and the current assignee.
func (s *TaskService) Delete(ctx context.Context, taskID, requesterID string) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}

	project, err := s.projects.FindByID(ctx, task.ProjectID)
	if err != nil {
		return err
	}

	role := s.policy.RoleOf(project, requesterID)
	if !s.policy.CanMutate(role, task.AssigneeID, requesterID) {
		return fmt.Errorf("%w: no permission to delete this task", domain.ErrForbidden)
	}

	return s.tasks.Delete(ctx, taskID)
}
