package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/collabinsight/server/internal/domain"
)

const taskSelect = `
	SELECT t.id, t.project_id, t.title, t.details, t.assignee_id, t.created_by_id,
	       t.urgency, t.status, t.start_date, t.deadline, t.created_at, t.updated_at,
	       a.username AS assignee_name, c.username AS created_by_name
	FROM tasks t
	JOIN users a ON a.id = t.assignee_id
	JOIN users c ON c.id = t.created_by_id`

// TaskRepository handles task data access operations.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// FindByID retrieves a task with assignee and creator names populated.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.GetContext(ctx, &task, taskSelect+` WHERE t.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find task by id %s: %w", id, err)
	}
	return &task, nil
}

// ListByProject returns a project's tasks, newest first. A non-empty
// assigneeID restricts the result to that assignee's tasks.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID, assigneeID string) ([]domain.Task, error) {
	tasks := []domain.Task{}
	err := r.db.SelectContext(ctx, &tasks,
		taskSelect+`
		 WHERE t.project_id = $1 AND ($2 = '' OR t.assignee_id = $2)
		 ORDER BY t.created_at DESC`, projectID, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("list tasks for project %s: %w", projectID, err)
	}
	return tasks, nil
}

// Create inserts a task and returns the populated row.
func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (*domain.Task, error) {
	task.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, project_id, title, details, assignee_id, created_by_id,
		                    urgency, status, start_date, deadline)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		task.ID, task.ProjectID, task.Title, task.Details, task.AssigneeID,
		task.CreatedByID, task.Urgency, task.Status, task.StartDate, task.Deadline)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return r.FindByID(ctx, task.ID)
}

// Update overwrites all mutable task fields. Last write wins: no version
// check guards concurrent read-modify-write cycles.
func (r *TaskRepository) Update(ctx context.Context, task domain.Task) (*domain.Task, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks
		 SET title = $2, details = $3, assignee_id = $4, urgency = $5,
		     status = $6, start_date = $7, deadline = $8, updated_at = NOW()
		 WHERE id = $1`,
		task.ID, task.Title, task.Details, task.AssigneeID, task.Urgency,
		task.Status, task.StartDate, task.Deadline)
	if err != nil {
		return nil, fmt.Errorf("update task %s: %w", task.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindByID(ctx, task.ID)
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
