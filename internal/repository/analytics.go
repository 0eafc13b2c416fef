package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/collabinsight/server/internal/domain"
)

// AnalyticsRepository runs the dashboard aggregation queries. All queries are
// scoped to an explicit set of project ids so the caller controls visibility.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository creates a new AnalyticsRepository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

type countRow struct {
	Name  string `db:"name"`
	Count int    `db:"count"`
}

func (r *AnalyticsRepository) groupCounts(ctx context.Context, query string, projectIDs []string) (map[string]int, error) {
	q, args, err := sqlx.In(query, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("build count query: %w", err)
	}

	rows := []countRow{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("run count query: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Name] = row.Count
	}
	return counts, nil
}

// TaskStatusCounts groups the projects' tasks by status.
func (r *AnalyticsRepository) TaskStatusCounts(ctx context.Context, projectIDs []string) (map[string]int, error) {
	return r.groupCounts(ctx,
		`SELECT status AS name, COUNT(*) AS count FROM tasks WHERE project_id IN (?) GROUP BY status`,
		projectIDs)
}

// TaskUrgencyCounts groups the projects' tasks by urgency.
func (r *AnalyticsRepository) TaskUrgencyCounts(ctx context.Context, projectIDs []string) (map[string]int, error) {
	return r.groupCounts(ctx,
		`SELECT urgency AS name, COUNT(*) AS count FROM tasks WHERE project_id IN (?) GROUP BY urgency`,
		projectIDs)
}

// BugStatusCounts groups the projects' bugs by status.
func (r *AnalyticsRepository) BugStatusCounts(ctx context.Context, projectIDs []string) (map[string]int, error) {
	return r.groupCounts(ctx,
		`SELECT status AS name, COUNT(*) AS count FROM bugs WHERE project_id IN (?) GROUP BY status`,
		projectIDs)
}

// BugSeverityCounts groups the projects' bugs by severity.
func (r *AnalyticsRepository) BugSeverityCounts(ctx context.Context, projectIDs []string) (map[string]int, error) {
	return r.groupCounts(ctx,
		`SELECT severity AS name, COUNT(*) AS count FROM bugs WHERE project_id IN (?) GROUP BY severity`,
		projectIDs)
}

// MemberCount counts distinct members across the projects.
func (r *AnalyticsRepository) MemberCount(ctx context.Context, projectIDs []string) (int, error) {
	q, args, err := sqlx.In(
		`SELECT COUNT(DISTINCT user_id) FROM project_members WHERE project_id IN (?)`, projectIDs)
	if err != nil {
		return 0, fmt.Errorf("build member count query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(q), args...); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return count, nil
}

// ProjectProgress returns per-project task completion totals.
func (r *AnalyticsRepository) ProjectProgress(ctx context.Context, projectIDs []string) ([]domain.ProjectProgress, error) {
	q, args, err := sqlx.In(
		`SELECT p.id AS project_id, p.name,
		        COUNT(t.id) AS total,
		        COUNT(t.id) FILTER (WHERE t.status = 'done') AS completed
		 FROM projects p
		 LEFT JOIN tasks t ON t.project_id = p.id
		 WHERE p.id IN (?)
		 GROUP BY p.id, p.name
		 ORDER BY p.name`, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("build progress query: %w", err)
	}

	rows := []domain.ProjectProgress{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("project progress: %w", err)
	}
	return rows, nil
}

// UpcomingTasks returns tasks with a deadline inside [from, to], soonest
// first, capped at limit.
func (r *AnalyticsRepository) UpcomingTasks(ctx context.Context, projectIDs []string, from, to time.Time, limit int) ([]domain.UpcomingTask, error) {
	q, args, err := sqlx.In(
		`SELECT t.id, t.title, t.status, t.deadline, p.name AS project_name
		 FROM tasks t
		 JOIN projects p ON p.id = t.project_id
		 WHERE t.project_id IN (?) AND t.deadline BETWEEN ? AND ?
		 ORDER BY t.deadline
		 LIMIT ?`, projectIDs, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("build upcoming query: %w", err)
	}

	rows := []domain.UpcomingTask{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("upcoming tasks: %w", err)
	}
	return rows, nil
}

// TopContributors ranks assignees by completed task count, capped at limit.
func (r *AnalyticsRepository) TopContributors(ctx context.Context, projectIDs []string, limit int) ([]domain.Contributor, error) {
	q, args, err := sqlx.In(
		`SELECT u.id AS user_id, u.username,
		        COUNT(t.id) AS total,
		        COUNT(t.id) FILTER (WHERE t.status = 'done') AS completed
		 FROM tasks t
		 JOIN users u ON u.id = t.assignee_id
		 WHERE t.project_id IN (?)
		 GROUP BY u.id, u.username
		 ORDER BY completed DESC, total DESC
		 LIMIT ?`, projectIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("build contributors query: %w", err)
	}

	rows := []domain.Contributor{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("top contributors: %w", err)
	}
	return rows, nil
}
