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

const projectColumns = `id, name, description, status, priority, deadline, leader_id, created_at, updated_at`

// ProjectRepository handles project and membership data access.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// FindByID retrieves a project with its member id set loaded.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project
	err := r.db.GetContext(ctx, &project,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find project by id %s: %w", id, err)
	}

	if err := r.loadMembers(ctx, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListForUser returns projects where the user is leader or member, newest
// first, optionally filtered by a keyword on name or description.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID, keyword string) ([]domain.Project, error) {
	projects := []domain.Project{}
	err := r.db.SelectContext(ctx, &projects,
		`SELECT `+projectColumns+` FROM projects p
		 WHERE (p.leader_id = $1
		        OR EXISTS (SELECT 1 FROM project_members m WHERE m.project_id = p.id AND m.user_id = $1))
		   AND ($2 = '' OR p.name ILIKE '%' || $2 || '%' OR p.description ILIKE '%' || $2 || '%')
		 ORDER BY p.created_at DESC`, userID, keyword)
	if err != nil {
		return nil, fmt.Errorf("list projects for user %s: %w", userID, err)
	}

	for i := range projects {
		if err := r.loadMembers(ctx, &projects[i]); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

// Create inserts a project and its initial member set. The leader is always
// part of the member set regardless of the ids supplied.
func (r *ProjectRepository) Create(ctx context.Context, project domain.Project, memberIDs []string) (*domain.Project, error) {
	project.ID = uuid.NewString()

	var result domain.Project
	err := r.db.GetContext(ctx, &result,
		`INSERT INTO projects (id, name, description, status, priority, deadline, leader_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+projectColumns,
		project.ID, project.Name, project.Description, project.Status,
		project.Priority, project.Deadline, project.LeaderID)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	ids := append([]string{project.LeaderID}, memberIDs...)
	for _, id := range ids {
		if err := r.AddMember(ctx, result.ID, id); err != nil {
			return nil, err
		}
	}

	if err := r.loadMembers(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddMember enrolls a user into the project's member set. Idempotent: adding
// an existing member is a no-op.
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO project_members (project_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT (project_id, user_id) DO NOTHING`, projectID, userID)
	if err != nil {
		return fmt.Errorf("add member %s to project %s: %w", userID, projectID, err)
	}
	return nil
}

// loadMembers fills MemberIDs plus the populated leader and member refs.
func (r *ProjectRepository) loadMembers(ctx context.Context, project *domain.Project) error {
	members := []domain.UserRef{}
	err := r.db.SelectContext(ctx, &members,
		`SELECT u.id, u.username, u.role
		 FROM project_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.project_id = $1
		 ORDER BY m.added_at`, project.ID)
	if err != nil {
		return fmt.Errorf("load members for project %s: %w", project.ID, err)
	}

	project.Members = members
	project.MemberIDs = make([]string, 0, len(members))
	for _, m := range members {
		project.MemberIDs = append(project.MemberIDs, m.ID)
		if m.ID == project.LeaderID {
			leader := m
			project.Leader = &leader
		}
	}
	return nil
}
