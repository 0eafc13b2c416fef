package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/collabinsight/server/internal/domain"
)

// In-memory stores backing the service tests. They implement just enough of
// each interface's contract: copies out, sentinel errors on missing ids.

type fakeUserStore struct {
	users map[string]domain.User
}

func newFakeUserStore(users ...domain.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]domain.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	return &u, nil
}

func (s *fakeUserStore) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Username == login || u.Email == login {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, login)
}

func (s *fakeUserStore) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) Create(_ context.Context, user domain.User) (*domain.User, error) {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(s.users)+1)
	}
	s.users[user.ID] = user
	return &user, nil
}

func (s *fakeUserStore) Update(_ context.Context, user domain.User) (*domain.User, error) {
	if _, ok := s.users[user.ID]; !ok {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, user.ID)
	}
	s.users[user.ID] = user
	return &user, nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *fakeUserStore) Search(_ context.Context, keyword string, limit int) ([]domain.UserRef, error) {
	var out []domain.UserRef
	for _, u := range s.users {
		if keyword == "" || u.Username == keyword || u.ID == keyword {
			out = append(out, domain.UserRef{ID: u.ID, Username: u.Username, Role: u.Role})
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type memberCall struct {
	projectID string
	userID    string
}

type fakeProjectStore struct {
	projects map[string]*domain.Project

	addMemberCalls []memberCall
	addMemberErr   error
}

func newFakeProjectStore(projects ...*domain.Project) *fakeProjectStore {
	s := &fakeProjectStore{projects: make(map[string]*domain.Project)}
	for _, p := range projects {
		s.projects[p.ID] = p
	}
	return s
}

func (s *fakeProjectStore) FindByID(_ context.Context, id string) (*domain.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: project %s", domain.ErrNotFound, id)
	}
	cp := *p
	cp.MemberIDs = slices.Clone(p.MemberIDs)
	return &cp, nil
}

func (s *fakeProjectStore) ListForUser(_ context.Context, userID, _ string) ([]domain.Project, error) {
	var out []domain.Project
	for _, p := range s.projects {
		if p.IsMember(userID) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakeProjectStore) Create(_ context.Context, project domain.Project, memberIDs []string) (*domain.Project, error) {
	if project.ID == "" {
		project.ID = fmt.Sprintf("project-%d", len(s.projects)+1)
	}
	project.MemberIDs = slices.Clone(memberIDs)
	s.projects[project.ID] = &project
	return &project, nil
}

func (s *fakeProjectStore) AddMember(_ context.Context, projectID, userID string) error {
	s.addMemberCalls = append(s.addMemberCalls, memberCall{projectID: projectID, userID: userID})
	if s.addMemberErr != nil {
		return s.addMemberErr
	}
	p, ok := s.projects[projectID]
	if !ok {
		return fmt.Errorf("%w: project %s", domain.ErrNotFound, projectID)
	}
	if !slices.Contains(p.MemberIDs, userID) {
		p.MemberIDs = append(p.MemberIDs, userID)
	}
	return nil
}

type fakeTaskStore struct {
	tasks map[string]domain.Task
	seq   int
}

func newFakeTaskStore(tasks ...domain.Task) *fakeTaskStore {
	s := &fakeTaskStore{tasks: make(map[string]domain.Task)}
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	return s
}

func (s *fakeTaskStore) FindByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: task %s", domain.ErrNotFound, id)
	}
	return &t, nil
}

func (s *fakeTaskStore) ListByProject(_ context.Context, projectID, assigneeID string) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range s.tasks {
		if t.ProjectID != projectID {
			continue
		}
		if assigneeID != "" && t.AssigneeID != assigneeID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *fakeTaskStore) Create(_ context.Context, task domain.Task) (*domain.Task, error) {
	s.seq++
	task.ID = fmt.Sprintf("task-%d", s.seq)
	s.tasks[task.ID] = task
	return &task, nil
}

func (s *fakeTaskStore) Update(_ context.Context, task domain.Task) (*domain.Task, error) {
	if _, ok := s.tasks[task.ID]; !ok {
		return nil, fmt.Errorf("%w: task %s", domain.ErrNotFound, task.ID)
	}
	s.tasks[task.ID] = task
	return &task, nil
}

func (s *fakeTaskStore) Delete(_ context.Context, id string) error {
	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("%w: task %s", domain.ErrNotFound, id)
	}
	delete(s.tasks, id)
	return nil
}

type fakeBugStore struct {
	bugs map[string]domain.Bug
	seq  int

	createErr error
}

func newFakeBugStore(bugs ...domain.Bug) *fakeBugStore {
	s := &fakeBugStore{bugs: make(map[string]domain.Bug)}
	for _, b := range bugs {
		s.bugs[b.ID] = b
	}
	return s
}

func (s *fakeBugStore) FindByID(_ context.Context, id string) (*domain.Bug, error) {
	b, ok := s.bugs[id]
	if !ok {
		return nil, fmt.Errorf("%w: bug %s", domain.ErrNotFound, id)
	}
	return &b, nil
}

func (s *fakeBugStore) ListByProject(_ context.Context, projectID, assigneeID string) ([]domain.Bug, error) {
	var out []domain.Bug
	for _, b := range s.bugs {
		if b.ProjectID != projectID {
			continue
		}
		if assigneeID != "" && b.AssigneeID != assigneeID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *fakeBugStore) Create(_ context.Context, bug domain.Bug) (*domain.Bug, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.seq++
	bug.ID = fmt.Sprintf("bug-%d", s.seq)
	s.bugs[bug.ID] = bug
	return &bug, nil
}

func (s *fakeBugStore) Update(_ context.Context, bug domain.Bug) (*domain.Bug, error) {
	if _, ok := s.bugs[bug.ID]; !ok {
		return nil, fmt.Errorf("%w: bug %s", domain.ErrNotFound, bug.ID)
	}
	s.bugs[bug.ID] = bug
	return &bug, nil
}

func (s *fakeBugStore) Delete(_ context.Context, id string) error {
	if _, ok := s.bugs[id]; !ok {
		return fmt.Errorf("%w: bug %s", domain.ErrNotFound, id)
	}
	delete(s.bugs, id)
	return nil
}

type fakeMessageStore struct {
	messages []domain.Message
	seq      int
}

func (s *fakeMessageStore) ListByProject(_ context.Context, projectID string, limit int) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range s.messages {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *fakeMessageStore) Create(_ context.Context, msg domain.Message) (*domain.Message, error) {
	s.seq++
	msg.ID = fmt.Sprintf("msg-%d", s.seq)
	s.messages = append(s.messages, msg)
	return &msg, nil
}

type fakeAnalyticsStore struct {
	taskStatus  map[string]int
	taskUrgency map[string]int
	bugStatus   map[string]int
	bugSeverity map[string]int
	members     int
	progress    []domain.ProjectProgress
	upcoming    []domain.UpcomingTask
	top         []domain.Contributor

	queriedProjects []string
}

func (s *fakeAnalyticsStore) TaskStatusCounts(_ context.Context, projectIDs []string) (map[string]int, error) {
	s.queriedProjects = projectIDs
	return s.taskStatus, nil
}

func (s *fakeAnalyticsStore) TaskUrgencyCounts(_ context.Context, _ []string) (map[string]int, error) {
	return s.taskUrgency, nil
}

func (s *fakeAnalyticsStore) BugStatusCounts(_ context.Context, _ []string) (map[string]int, error) {
	return s.bugStatus, nil
}

func (s *fakeAnalyticsStore) BugSeverityCounts(_ context.Context, _ []string) (map[string]int, error) {
	return s.bugSeverity, nil
}

func (s *fakeAnalyticsStore) MemberCount(_ context.Context, _ []string) (int, error) {
	return s.members, nil
}

func (s *fakeAnalyticsStore) ProjectProgress(_ context.Context, _ []string) ([]domain.ProjectProgress, error) {
	return s.progress, nil
}

func (s *fakeAnalyticsStore) UpcomingTasks(_ context.Context, _ []string, _, _ time.Time, _ int) ([]domain.UpcomingTask, error) {
	return s.upcoming, nil
}

func (s *fakeAnalyticsStore) TopContributors(_ context.Context, _ []string, _ int) ([]domain.Contributor, error) {
	return s.top, nil
}

// Shared fixture: one project with a leader, one enrolled member, and a
// registered user who is not on the project.
const (
	leaderID   = "user-leader"
	memberID   = "user-member"
	outsiderID = "user-outsider"
	projectID  = "project-1"
)

func fixtureUsers() *fakeUserStore {
	return newFakeUserStore(
		domain.User{ID: leaderID, Username: "lena", Email: "lena@example.com", Role: domain.AccountRoleUser},
		domain.User{ID: memberID, Username: "marco", Email: "marco@example.com", Role: domain.AccountRoleUser},
		domain.User{ID: outsiderID, Username: "otis", Email: "otis@example.com", Role: domain.AccountRoleUser},
	)
}

func fixtureProject() *domain.Project {
	return &domain.Project{
		ID:        projectID,
		Name:      "Apollo",
		Status:    domain.ProjectStatusInProgress,
		Priority:  domain.ProjectPriorityNormal,
		LeaderID:  leaderID,
		MemberIDs: []string{memberID},
		CreatedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
	}
}
