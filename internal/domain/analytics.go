package domain

import "time"

// StatusCount is one bucket in a dashboard distribution. Distributions are
// zero-filled across the full enum so empty buckets still render.
type StatusCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// OverviewSummary holds the headline counts of the dashboard.
type OverviewSummary struct {
	Projects int `json:"projects"`
	Tasks    int `json:"tasks"`
	Bugs     int `json:"bugs"`
	Members  int `json:"members"`
}

// ProjectProgress is the task completion ratio of a single project.
type ProjectProgress struct {
	ProjectID string `json:"project_id" db:"project_id"`
	Name      string `json:"name" db:"name"`
	Total     int    `json:"total" db:"total"`
	Completed int    `json:"completed" db:"completed"`
}

// UpcomingTask is a task whose deadline falls inside the dashboard window.
type UpcomingTask struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Status      TaskStatus `json:"status" db:"status"`
	Deadline    *time.Time `json:"deadline" db:"deadline"`
	ProjectName string     `json:"project_name" db:"project_name"`
}

// Contributor is a member ranked by completed task count.
type Contributor struct {
	UserID    string `json:"user_id" db:"user_id"`
	Username  string `json:"username" db:"username"`
	Total     int    `json:"total" db:"total"`
	Completed int    `json:"completed" db:"completed"`
}

// Overview is the aggregated dashboard payload for one requester.
type Overview struct {
	Summary         OverviewSummary   `json:"summary"`
	ProjectStatus   []StatusCount     `json:"project_status"`
	TaskStatus      []StatusCount     `json:"task_status"`
	TaskUrgency     []StatusCount     `json:"task_urgency"`
	BugStatus       []StatusCount     `json:"bug_status"`
	BugSeverity     []StatusCount     `json:"bug_severity"`
	ProjectProgress []ProjectProgress `json:"project_progress"`
	UpcomingTasks   []UpcomingTask    `json:"upcoming_tasks"`
	TopContributors []Contributor     `json:"top_contributors"`
}
