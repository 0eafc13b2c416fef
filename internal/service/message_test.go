package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/collabinsight/server/internal/domain"
)

func newMessageFixture() (*MessageService, *fakeMessageStore) {
	store := &fakeMessageStore{}
	return NewMessageService(newFakeProjectStore(fixtureProject()), store), store
}

func TestMessagePost(t *testing.T) {
	svc, _ := newMessageFixture()

	msg, err := svc.Post(context.Background(), projectID, memberID, "deploy is out", "")
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}

	if msg.SenderID != memberID {
		t.Errorf("SenderID = %q, want %q", msg.SenderID, memberID)
	}
	if msg.Type != domain.MessageTypeText {
		t.Errorf("Type = %q, want default %q", msg.Type, domain.MessageTypeText)
	}
}

func TestMessagePostRequiresContent(t *testing.T) {
	svc, _ := newMessageFixture()

	_, err := svc.Post(context.Background(), projectID, memberID, "", domain.MessageTypeText)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Post() error = %v, want ValidationError", err)
	}
}

func TestMessagePostOutsiderDenied(t *testing.T) {
	svc, store := newMessageFixture()

	_, err := svc.Post(context.Background(), projectID, outsiderID, "hi", domain.MessageTypeText)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Post() error = %v, want ErrForbidden", err)
	}
	if len(store.messages) != 0 {
		t.Error("message stored for a non-member")
	}
}

func TestMessageListLimits(t *testing.T) {
	svc, store := newMessageFixture()
	for i := 0; i < 250; i++ {
		store.messages = append(store.messages, domain.Message{
			ID:        fmt.Sprintf("msg-%d", i),
			ProjectID: projectID,
			SenderID:  memberID,
			Content:   "x",
			Type:      domain.MessageTypeText,
		})
	}

	got, err := svc.List(context.Background(), projectID, memberID, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != defaultMessageLimit {
		t.Errorf("List(limit=0) returned %d messages, want default %d", len(got), defaultMessageLimit)
	}

	got, err = svc.List(context.Background(), projectID, memberID, 1000)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != maxMessageLimit {
		t.Errorf("List(limit=1000) returned %d messages, want cap %d", len(got), maxMessageLimit)
	}

	if _, err := svc.List(context.Background(), projectID, outsiderID, 10); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("List(outsider) error = %v, want ErrForbidden", err)
	}
}
