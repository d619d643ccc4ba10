package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sahara-community/pulse/internal/domain"
	"github.com/sahara-community/pulse/internal/realtime"
)

func TestNotifyStoresWithoutSubscribers(t *testing.T) {
	repo := newMockNotificationRepo()
	// a real publisher with nobody connected
	uc := NewNotificationUsecase(repo, realtime.NewPublisher(realtime.NewRegistry()))

	related := "req-1"
	created, err := uc.Notify(context.Background(), "42", "hello", domain.NotifTypeApplication, &related)
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	list, err := uc.List(context.Background(), domain.Principal{ID: "42"}, 10, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("expected stored notification to be listed, got %+v", list)
	}
	if list[0].IsRead {
		t.Fatalf("new notification must be unread")
	}
}

func TestNotifyPublishesAfterWrite(t *testing.T) {
	repo := newMockNotificationRepo()
	pub := &mockPublisher{}
	uc := NewNotificationUsecase(repo, pub)

	created, err := uc.Notify(context.Background(), "7", "msg", domain.NotifTypeEvent, nil)
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if len(pub.events) != 1 || pub.events[0].topic != "notifications:7" {
		t.Fatalf("expected one publish to notifications:7, got %v", pub.topics())
	}
	payload, ok := pub.events[0].payload.(domain.NotificationPayload)
	if !ok || payload.ID != created.ID || payload.NotifType != domain.NotifTypeEvent {
		t.Fatalf("unexpected payload %+v", pub.events[0].payload)
	}
}

func TestNotifyWriteFailureSkipsPublish(t *testing.T) {
	repo := newMockNotificationRepo()
	repo.failFor["7"] = true
	pub := &mockPublisher{}
	uc := NewNotificationUsecase(repo, pub)

	_, err := uc.Notify(context.Background(), "7", "msg", domain.NotifTypeEvent, nil)
	if err == nil {
		t.Fatalf("expected durable write failure to surface")
	}
	if len(pub.events) != 0 {
		t.Fatalf("nothing may be published when the write fails")
	}
}

func TestNotifyRejectsUnknownType(t *testing.T) {
	uc := NewNotificationUsecase(newMockNotificationRepo(), &mockPublisher{})
	_, err := uc.Notify(context.Background(), "7", "msg", domain.NotifType("digest"), nil)
	if !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestMarkReadIsolation(t *testing.T) {
	repo := newMockNotificationRepo()
	uc := NewNotificationUsecase(repo, &mockPublisher{})
	ctx := context.Background()

	mine, _ := uc.Notify(ctx, "A", "for A", domain.NotifTypePost, nil)
	theirs, _ := uc.Notify(ctx, "B", "for B", domain.NotifTypePost, nil)

	if err := uc.MarkRead(ctx, domain.Principal{ID: "A"}, mine.ID); err != nil {
		t.Fatalf("owner should be able to mark read: %v", err)
	}
	got, _ := repo.Get(ctx, mine.ID)
	if !got.IsRead {
		t.Fatalf("expected A's notification to be read")
	}

	err := uc.MarkRead(ctx, domain.Principal{ID: "A"}, theirs.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	got, _ = repo.Get(ctx, theirs.ID)
	if got.IsRead {
		t.Fatalf("B's notification must stay unread")
	}
}

func TestMarkReadUnknown(t *testing.T) {
	uc := NewNotificationUsecase(newMockNotificationRepo(), &mockPublisher{})
	err := uc.MarkRead(context.Background(), domain.Principal{ID: "A"}, "0b7e3c6e-4f5a-4d2b-9a51-0c1d2e3f4a5b")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkReadMalformedID(t *testing.T) {
	repo := newMockNotificationRepo()
	uc := NewNotificationUsecase(repo, &mockPublisher{})

	// a non-uuid id never reaches the uuid column
	repo.records["not-a-uuid"] = domain.Notification{ID: "not-a-uuid", UserID: "A"}
	err := uc.MarkRead(context.Background(), domain.Principal{ID: "A"}, "not-a-uuid")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(repo.marked) != 0 || repo.records["not-a-uuid"].IsRead {
		t.Fatalf("malformed ids must not be marked")
	}
}

func TestListNewestFirstAndUnreadCount(t *testing.T) {
	repo := newMockNotificationRepo()
	uc := NewNotificationUsecase(repo, &mockPublisher{})
	ctx := context.Background()

	base := time.Now().UTC()
	for i, msg := range []string{"first", "second", "third"} {
		n := domain.Notification{ID: msg, UserID: "u", Message: msg, NotifType: domain.NotifTypeGroup, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		_, _ = repo.Create(ctx, n)
	}

	list, err := uc.List(ctx, domain.Principal{ID: "u"}, 0, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 3 || list[0].Message != "third" || list[2].Message != "first" {
		t.Fatalf("expected newest first, got %+v", list)
	}

	count, _ := uc.UnreadCount(ctx, domain.Principal{ID: "u"})
	if count != 3 {
		t.Fatalf("expected 3 unread, got %d", count)
	}
	marked, _ := uc.MarkAllRead(ctx, domain.Principal{ID: "u"})
	if marked != 3 {
		t.Fatalf("expected 3 marked, got %d", marked)
	}
	count, _ = uc.UnreadCount(ctx, domain.Principal{ID: "u"})
	if count != 0 {
		t.Fatalf("expected 0 unread, got %d", count)
	}
}
