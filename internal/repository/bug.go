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

const bugSelect = `
	SELECT b.id, b.project_id, b.title, b.details, b.assignee_id, b.created_by_id,
	       b.severity, b.status, b.solution, b.resolved_by_id, b.resolved_at,
	       b.approval_status, b.reviewer_id, b.review_comment, b.reviewed_at,
	       b.start_date, b.deadline, b.created_at, b.updated_at,
	       a.username AS assignee_name, c.username AS created_by_name,
	       rs.username AS resolved_by_name, rv.username AS reviewer_name
	FROM bugs b
	JOIN users a ON a.id = b.assignee_id
	JOIN users c ON c.id = b.created_by_id
	LEFT JOIN users rs ON rs.id = b.resolved_by_id
	LEFT JOIN users rv ON rv.id = b.reviewer_id`

// BugRepository handles bug data access operations.
type BugRepository struct {
	db *sqlx.DB
}

// NewBugRepository creates a new BugRepository.
func NewBugRepository(db *sqlx.DB) *BugRepository {
	return &BugRepository{db: db}
}

// FindByID retrieves a bug with assignee, creator, resolver and reviewer
// names populated.
func (r *BugRepository) FindByID(ctx context.Context, id string) (*domain.Bug, error) {
	var bug domain.Bug
	err := r.db.GetContext(ctx, &bug, bugSelect+` WHERE b.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find bug by id %s: %w", id, err)
	}
	return &bug, nil
}

// ListByProject returns a project's bugs, newest first. A non-empty
// assigneeID restricts the result to that assignee's bugs.
func (r *BugRepository) ListByProject(ctx context.Context, projectID, assigneeID string) ([]domain.Bug, error) {
	bugs := []domain.Bug{}
	err := r.db.SelectContext(ctx, &bugs,
		bugSelect+`
		 WHERE b.project_id = $1 AND ($2 = '' OR b.assignee_id = $2)
		 ORDER BY b.created_at DESC`, projectID, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("list bugs for project %s: %w", projectID, err)
	}
	return bugs, nil
}

// Create inserts a bug and returns the populated row.
func (r *BugRepository) Create(ctx context.Context, bug domain.Bug) (*domain.Bug, error) {
	bug.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bugs (id, project_id, title, details, assignee_id, created_by_id,
		                   severity, status, solution, approval_status, start_date, deadline)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		bug.ID, bug.ProjectID, bug.Title, bug.Details, bug.AssigneeID, bug.CreatedByID,
		bug.Severity, bug.Status, bug.Solution, bug.ApprovalStatus, bug.StartDate, bug.Deadline)
	if err != nil {
		return nil, fmt.Errorf("create bug: %w", err)
	}
	return r.FindByID(ctx, bug.ID)
}

// Update overwrites all mutable bug fields, including the resolution and
// review sub-state. Last write wins: no version check guards concurrent
// read-modify-write cycles.
func (r *BugRepository) Update(ctx context.Context, bug domain.Bug) (*domain.Bug, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bugs
		 SET title = $2, details = $3, assignee_id = $4, severity = $5, status = $6,
		     solution = $7, resolved_by_id = $8, resolved_at = $9,
		     approval_status = $10, reviewer_id = $11, review_comment = $12,
		     reviewed_at = $13, start_date = $14, deadline = $15, updated_at = NOW()
		 WHERE id = $1`,
		bug.ID, bug.Title, bug.Details, bug.AssigneeID, bug.Severity, bug.Status,
		bug.Solution, bug.ResolvedByID, bug.ResolvedAt,
		bug.ApprovalStatus, bug.ReviewerID, bug.ReviewComment,
		bug.ReviewedAt, bug.StartDate, bug.Deadline)
	if err != nil {
		return nil, fmt.Errorf("update bug %s: %w", bug.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindByID(ctx, bug.ID)
}

// Delete removes a bug.
func (r *BugRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bugs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bug %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
