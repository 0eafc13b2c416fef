package service

import (
	"context"
	"time"

	"github.com/collabinsight/server/internal/domain"
)

const (
	upcomingWindow    = 7 * 24 * time.Hour
	upcomingTaskLimit = 10
	contributorLimit  = 5
)

// AnalyticsService builds the dashboard overview, scoped to the projects the
// requester belongs to.
type AnalyticsService struct {
	projects ProjectStore
	stats    AnalyticsStore
	now      func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(projects ProjectStore, stats AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{projects: projects, stats: stats, now: time.Now}
}

func (s *AnalyticsService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Overview aggregates counts and distributions for the requester's projects.
// Distributions are zero-filled across the enums so empty buckets render.
func (s *AnalyticsService) Overview(ctx context.Context, requesterID string) (*domain.Overview, error) {
	projects, err := s.projects.ListForUser(ctx, requesterID, "")
	if err != nil {
		return nil, err
	}

	overview := &domain.Overview{
		Summary:         domain.OverviewSummary{Projects: len(projects)},
		ProjectProgress: []domain.ProjectProgress{},
		UpcomingTasks:   []domain.UpcomingTask{},
		TopContributors: []domain.Contributor{},
	}

	projectStatus := map[string]int{}
	for _, p := range projects {
		projectStatus[string(p.Status)]++
	}
	overview.ProjectStatus = zeroFilled(projectStatus, domain.ProjectStatuses)

	if len(projects) == 0 {
		overview.TaskStatus = zeroFilled(nil, domain.TaskStatuses)
		overview.TaskUrgency = zeroFilled(nil, domain.TaskUrgencies)
		overview.BugStatus = zeroFilled(nil, domain.BugStatuses)
		overview.BugSeverity = zeroFilled(nil, domain.BugSeverities)
		return overview, nil
	}

	projectIDs := make([]string, len(projects))
	for i, p := range projects {
		projectIDs[i] = p.ID
	}

	taskStatus, err := s.stats.TaskStatusCounts(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	taskUrgency, err := s.stats.TaskUrgencyCounts(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	bugStatus, err := s.stats.BugStatusCounts(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	bugSeverity, err := s.stats.BugSeverityCounts(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	members, err := s.stats.MemberCount(ctx, projectIDs)
	if err != nil {
		return nil, err
	}

	overview.TaskStatus = zeroFilled(taskStatus, domain.TaskStatuses)
	overview.TaskUrgency = zeroFilled(taskUrgency, domain.TaskUrgencies)
	overview.BugStatus = zeroFilled(bugStatus, domain.BugStatuses)
	overview.BugSeverity = zeroFilled(bugSeverity, domain.BugSeverities)
	overview.Summary.Tasks = sumCounts(taskStatus)
	overview.Summary.Bugs = sumCounts(bugStatus)
	overview.Summary.Members = members

	progress, err := s.stats.ProjectProgress(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	overview.ProjectProgress = progress

	now := s.clock()
	upcoming, err := s.stats.UpcomingTasks(ctx, projectIDs, now, now.Add(upcomingWindow), upcomingTaskLimit)
	if err != nil {
		return nil, err
	}
	overview.UpcomingTasks = upcoming

	contributors, err := s.stats.TopContributors(ctx, projectIDs, contributorLimit)
	if err != nil {
		return nil, err
	}
	overview.TopContributors = contributors

	return overview, nil
}

func zeroFilled[T ~string](counts map[string]int, order []T) []domain.StatusCount {
	result := make([]domain.StatusCount, len(order))
	for i, name := range order {
		result[i] = domain.StatusCount{Name: string(name), Count: counts[string(name)]}
	}
	return result
}

func sumCounts(counts map[string]int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
