package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/collabinsight/server/internal/domain"
)

var fixedNow = time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

func newBugFixture(bugs ...domain.Bug) (*BugService, *fakeProjectStore, *fakeBugStore) {
	projects := newFakeProjectStore(fixtureProject())
	store := newFakeBugStore(bugs...)
	resolver := NewAssignmentResolver(fixtureUsers(), projects)
	svc := NewBugService(projects, store, resolver)
	svc.now = func() time.Time { return fixedNow }
	return svc, projects, store
}

func seedBug(b domain.Bug) domain.Bug {
	if b.ID == "" {
		b.ID = "bug-1"
	}
	b.ProjectID = projectID
	if b.AssigneeID == "" {
		b.AssigneeID = memberID
	}
	if b.Status == "" {
		b.Status = domain.BugStatusOpen
	}
	if b.ApprovalStatus == "" {
		b.ApprovalStatus = domain.ApprovalPending
	}
	return b
}

func TestBugCreateStartsOpenPending(t *testing.T) {
	svc, _, _ := newBugFixture()

	bug, err := svc.Create(context.Background(), projectID, memberID, CreateBugInput{Title: "crash on save"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if bug.Status != domain.BugStatusOpen {
		t.Errorf("Status = %q, want %q", bug.Status, domain.BugStatusOpen)
	}
	if bug.ApprovalStatus != domain.ApprovalPending {
		t.Errorf("ApprovalStatus = %q, want %q", bug.ApprovalStatus, domain.ApprovalPending)
	}
	if bug.Severity != domain.BugSeverityMedium {
		t.Errorf("Severity = %q, want default %q", bug.Severity, domain.BugSeverityMedium)
	}
	if bug.AssigneeID != memberID {
		t.Errorf("AssigneeID = %q, want requester %q", bug.AssigneeID, memberID)
	}
	if bug.ResolvedByID != nil || bug.ResolvedAt != nil {
		t.Error("new bug carries resolution fields")
	}
}

func TestBugUpdateResolvedStampsResolver(t *testing.T) {
	svc, _, _ := newBugFixture(seedBug(domain.Bug{Status: domain.BugStatusInProgress, Title: "crash"}))

	status := domain.BugStatusResolved
	got, err := svc.Update(context.Background(), "bug-1", memberID, UpdateBugInput{Status: &status})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got.Status != domain.BugStatusResolved {
		t.Errorf("Status = %q, want %q", got.Status, domain.BugStatusResolved)
	}
	if got.ResolvedByID == nil || *got.ResolvedByID != memberID {
		t.Errorf("ResolvedByID = %v, want %q", got.ResolvedByID, memberID)
	}
	if got.ResolvedAt == nil || !got.ResolvedAt.Equal(fixedNow) {
		t.Errorf("ResolvedAt = %v, want %v", got.ResolvedAt, fixedNow)
	}
}

func TestBugUpdateUnchangedStatusNoRestamp(t *testing.T) {
	earlier := fixedNow.Add(-48 * time.Hour)
	solver := memberID
	svc, _, _ := newBugFixture(seedBug(domain.Bug{
		Status:       domain.BugStatusResolved,
		Title:        "crash",
		ResolvedByID: &solver,
		ResolvedAt:   &earlier,
	}))

	// The leader re-saves the bug without moving its status; the original
	// resolution stamp must survive.
	status := domain.BugStatusResolved
	details := "verified on staging"
	got, err := svc.Update(context.Background(), "bug-1", leaderID, UpdateBugInput{
		Status:  &status,
		Details: &details,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got.ResolvedByID == nil || *got.ResolvedByID != memberID {
		t.Errorf("ResolvedByID = %v, want original solver %q", got.ResolvedByID, memberID)
	}
	if got.ResolvedAt == nil || !got.ResolvedAt.Equal(earlier) {
		t.Errorf("ResolvedAt = %v, want original %v", got.ResolvedAt, earlier)
	}
}

func TestBugUpdateReEnteringResolvedRestamps(t *testing.T) {
	earlier := fixedNow.Add(-48 * time.Hour)
	solver := memberID
	svc, _, _ := newBugFixture(seedBug(domain.Bug{
		Status:       domain.BugStatusClosed,
		Title:        "crash",
		ResolvedByID: &solver,
		ResolvedAt:   &earlier,
	}))

	status := domain.BugStatusResolved
	got, err := svc.Update(context.Background(), "bug-1", leaderID, UpdateBugInput{Status: &status})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got.ResolvedByID == nil || *got.ResolvedByID != leaderID {
		t.Errorf("ResolvedByID = %v, want new resolver %q", got.ResolvedByID, leaderID)
	}
	if got.ResolvedAt == nil || !got.ResolvedAt.Equal(fixedNow) {
		t.Errorf("ResolvedAt = %v, want %v", got.ResolvedAt, fixedNow)
	}
}

func TestBugUpdatePendingReviewResetsReviewState(t *testing.T) {
	reviewer := leaderID
	reviewedAt := fixedNow.Add(-24 * time.Hour)
	svc, _, _ := newBugFixture(seedBug(domain.Bug{
		Status:         domain.BugStatusInProgress,
		Title:          "crash",
		ApprovalStatus: domain.ApprovalRejected,
		ReviewerID:     &reviewer,
		ReviewComment:  "fix does not cover the edge case",
		ReviewedAt:     &reviewedAt,
	}))

	status := domain.BugStatusPendingReview
	got, err := svc.Update(context.Background(), "bug-1", memberID, UpdateBugInput{Status: &status})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got.ApprovalStatus != domain.ApprovalPending {
		t.Errorf("ApprovalStatus = %q, want %q", got.ApprovalStatus, domain.ApprovalPending)
	}
	if got.ReviewerID != nil || got.ReviewComment != "" || got.ReviewedAt != nil {
		t.Errorf("review fields not cleared: reviewer=%v comment=%q reviewedAt=%v",
			got.ReviewerID, got.ReviewComment, got.ReviewedAt)
	}
}

func TestBugUpdateMemberCannotReassign(t *testing.T) {
	svc, _, _ := newBugFixture(seedBug(domain.Bug{Status: domain.BugStatusOpen, Title: "crash"}))

	other := leaderID
	_, err := svc.Update(context.Background(), "bug-1", memberID, UpdateBugInput{AssigneeID: &other})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Update(reassign) error = %v, want ErrForbidden", err)
	}
}

func TestBugApproveApprovedForcesResolved(t *testing.T) {
	svc, _, _ := newBugFixture(seedBug(domain.Bug{Status: domain.BugStatusPendingReview, Title: "crash"}))

	got, err := svc.Approve(context.Background(), "bug-1", leaderID, ApproveBugInput{
		Result:        domain.ApprovalApproved,
		ReviewComment: "looks good",
	})
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	if got.Status != domain.BugStatusResolved {
		t.Errorf("Status = %q, want %q", got.Status, domain.BugStatusResolved)
	}
	if got.ApprovalStatus != domain.ApprovalApproved {
		t.Errorf("ApprovalStatus = %q, want %q", got.ApprovalStatus, domain.ApprovalApproved)
	}
	if got.ReviewerID == nil || *got.ReviewerID != leaderID {
		t.Errorf("ReviewerID = %v, want %q", got.ReviewerID, leaderID)
	}
	if got.ReviewComment != "looks good" {
		t.Errorf("ReviewComment = %q", got.ReviewComment)
	}
	// No solver ever stamped the bug, so the reviewer is backfilled.
	if got.ResolvedByID == nil || *got.ResolvedByID != leaderID {
		t.Errorf("ResolvedByID = %v, want backfilled reviewer %q", got.ResolvedByID, leaderID)
	}
	if got.ResolvedAt == nil || !got.ResolvedAt.Equal(fixedNow) {
		t.Errorf("ResolvedAt = %v, want %v", got.ResolvedAt, fixedNow)
	}
}

func TestBugApproveKeepsOriginalResolver(t *testing.T) {
	solver := memberID
	solvedAt := fixedNow.Add(-24 * time.Hour)
	svc, _, _ := newBugFixture(seedBug(domain.Bug{
		Status:       domain.BugStatusPendingReview,
		Title:        "crash",
		ResolvedByID: &solver,
		ResolvedAt:   &solvedAt,
	}))

	got, err := svc.Approve(context.Background(), "bug-1", leaderID, ApproveBugInput{Result: domain.ApprovalApproved})
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	if got.ResolvedByID == nil || *got.ResolvedByID != memberID {
		t.Errorf("ResolvedByID = %v, want original solver %q", got.ResolvedByID, memberID)
	}
	if got.ResolvedAt == nil || !got.ResolvedAt.Equal(solvedAt) {
		t.Errorf("ResolvedAt = %v, want original %v", got.ResolvedAt, solvedAt)
	}
}

func TestBugApproveRejectedLeavesStatus(t *testing.T) {
	svc, _, _ := newBugFixture(seedBug(domain.Bug{Status: domain.BugStatusPendingReview, Title: "crash"}))

	got, err := svc.Approve(context.Background(), "bug-1", leaderID, ApproveBugInput{
		Result:        domain.ApprovalRejected,
		ReviewComment: "regression on mobile",
	})
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	if got.Status != domain.BugStatusPendingReview {
		t.Errorf("Status = %q, want unchanged %q", got.Status, domain.BugStatusPendingReview)
	}
	if got.ApprovalStatus != domain.ApprovalRejected {
		t.Errorf("ApprovalStatus = %q, want %q", got.ApprovalStatus, domain.ApprovalRejected)
	}
	if got.ResolvedByID != nil {
		t.Errorf("ResolvedByID = %v on a rejected review", got.ResolvedByID)
	}
}

func TestBugApproveRequiresPendingReview(t *testing.T) {
	for _, status := range []domain.BugStatus{
		domain.BugStatusOpen,
		domain.BugStatusInProgress,
		domain.BugStatusResolved,
		domain.BugStatusClosed,
		domain.BugStatusCancelled,
	} {
		svc, _, _ := newBugFixture(seedBug(domain.Bug{Status: status, Title: "crash"}))

		_, err := svc.Approve(context.Background(), "bug-1", leaderID, ApproveBugInput{Result: domain.ApprovalApproved})
		if !errors.Is(err, domain.ErrConflict) {
			t.Errorf("Approve(status=%s) error = %v, want ErrConflict", status, err)
		}
	}
}

func TestBugApproveLeaderOnly(t *testing.T) {
	svc, _, _ := newBugFixture(seedBug(domain.Bug{Status: domain.BugStatusPendingReview, Title: "crash"}))

	// Not even the assignee may review their own fix.
	_, err := svc.Approve(context.Background(), "bug-1", memberID, ApproveBugInput{Result: domain.ApprovalApproved})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Approve(member) error = %v, want ErrForbidden", err)
	}
}

func TestBugApproveInvalidResult(t *testing.T) {
	svc, _, _ := newBugFixture(seedBug(domain.Bug{Status: domain.BugStatusPendingReview, Title: "crash"}))

	_, err := svc.Approve(context.Background(), "bug-1", leaderID, ApproveBugInput{Result: domain.ApprovalPending})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Approve() error = %v, want ValidationError", err)
	}
}

func TestBugCreateAutoEnrollNotRolledBack(t *testing.T) {
	svc, projects, store := newBugFixture()
	store.createErr = errors.New("write failed")

	_, err := svc.Create(context.Background(), projectID, leaderID, CreateBugInput{
		Title:      "crash",
		AssigneeID: outsiderID,
	})
	if err == nil {
		t.Fatal("Create() succeeded with a failing bug store")
	}

	// Membership and item writes are separate statements: the enrollment
	// sticks even when the bug write fails.
	stored, _ := projects.FindByID(context.Background(), projectID)
	if !stored.IsMember(outsiderID) {
		t.Error("enrollment rolled back after failed bug write")
	}
}

func TestBugListVisibility(t *testing.T) {
	svc, _, _ := newBugFixture(
		seedBug(domain.Bug{ID: "bug-a", Title: "a", AssigneeID: leaderID}),
		seedBug(domain.Bug{ID: "bug-b", Title: "b", AssigneeID: memberID}),
	)

	leaderView, err := svc.List(context.Background(), projectID, leaderID)
	if err != nil {
		t.Fatalf("List(leader) error = %v", err)
	}
	if len(leaderView) != 2 {
		t.Errorf("leader sees %d bugs, want 2", len(leaderView))
	}

	memberView, err := svc.List(context.Background(), projectID, memberID)
	if err != nil {
		t.Fatalf("List(member) error = %v", err)
	}
	if len(memberView) != 1 || memberView[0].AssigneeID != memberID {
		t.Errorf("member view = %+v, want only own bugs", memberView)
	}
}
