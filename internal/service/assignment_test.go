package service

import (
	"context"
	"errors"
	"testing"

	"github.com/collabinsight/server/internal/domain"
)

func newResolverFixture() (*AssignmentResolver, *fakeProjectStore, *domain.Project) {
	projects := newFakeProjectStore(fixtureProject())
	resolver := NewAssignmentResolver(fixtureUsers(), projects)
	project, _ := projects.FindByID(context.Background(), projectID)
	return resolver, projects, project
}

func TestResolveDefaultsToRequester(t *testing.T) {
	resolver, projects, project := newResolverFixture()

	got, err := resolver.Resolve(context.Background(), project, memberID, domain.RoleMember, "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != memberID {
		t.Errorf("Resolve() = %q, want requester %q", got, memberID)
	}
	if len(projects.addMemberCalls) != 0 {
		t.Errorf("AddMember called %d times for an existing member", len(projects.addMemberCalls))
	}
}

func TestResolveUnknownAssignee(t *testing.T) {
	resolver, _, project := newResolverFixture()

	_, err := resolver.Resolve(context.Background(), project, leaderID, domain.RoleLeader, "user-ghost")

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Resolve() error = %v, want ValidationError", err)
	}
	if verr.Field != "assignee_id" {
		t.Errorf("ValidationError.Field = %q, want %q", verr.Field, "assignee_id")
	}
}

func TestResolveMemberAssigningOther(t *testing.T) {
	resolver, projects, project := newResolverFixture()

	_, err := resolver.Resolve(context.Background(), project, memberID, domain.RoleMember, leaderID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Resolve() error = %v, want ErrForbidden", err)
	}
	if len(projects.addMemberCalls) != 0 {
		t.Errorf("AddMember called %d times on a denied assignment", len(projects.addMemberCalls))
	}
}

func TestResolveLeaderAutoEnrolls(t *testing.T) {
	resolver, projects, project := newResolverFixture()

	got, err := resolver.Resolve(context.Background(), project, leaderID, domain.RoleLeader, outsiderID)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != outsiderID {
		t.Errorf("Resolve() = %q, want %q", got, outsiderID)
	}

	if len(projects.addMemberCalls) != 1 {
		t.Fatalf("AddMember called %d times, want 1", len(projects.addMemberCalls))
	}
	if call := projects.addMemberCalls[0]; call.projectID != projectID || call.userID != outsiderID {
		t.Errorf("AddMember(%s, %s), want (%s, %s)", call.projectID, call.userID, projectID, outsiderID)
	}

	// The in-memory project must reflect the enrollment immediately so
	// follow-up checks within the same operation see the new member.
	if !project.IsMember(outsiderID) {
		t.Error("project.IsMember(enrolled assignee) = false after Resolve")
	}

	stored, _ := projects.FindByID(context.Background(), projectID)
	if !stored.IsMember(outsiderID) {
		t.Error("enrollment not persisted to the project store")
	}
}

func TestResolveAutoEnrollIdempotent(t *testing.T) {
	resolver, projects, project := newResolverFixture()

	for i := 0; i < 2; i++ {
		if _, err := resolver.Resolve(context.Background(), project, leaderID, domain.RoleLeader, outsiderID); err != nil {
			t.Fatalf("Resolve() #%d error = %v", i+1, err)
		}
	}

	if len(projects.addMemberCalls) != 1 {
		t.Errorf("AddMember called %d times, want 1", len(projects.addMemberCalls))
	}

	stored, _ := projects.FindByID(context.Background(), projectID)
	count := 0
	for _, id := range stored.MemberIDs {
		if id == outsiderID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("enrolled member appears %d times in member set, want 1", count)
	}
}

func TestResolveLeaderAssignsExistingMember(t *testing.T) {
	resolver, projects, project := newResolverFixture()

	got, err := resolver.Resolve(context.Background(), project, leaderID, domain.RoleLeader, memberID)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != memberID {
		t.Errorf("Resolve() = %q, want %q", got, memberID)
	}
	if len(projects.addMemberCalls) != 0 {
		t.Errorf("AddMember called %d times for an existing member", len(projects.addMemberCalls))
	}
}
