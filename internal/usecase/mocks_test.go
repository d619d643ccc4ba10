package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sahara-community/pulse/internal/domain"
)

type published struct {
	topic   string
	payload domain.Payload
}

type mockPublisher struct {
	mu     sync.Mutex
	events []published
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, payload domain.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, published{topic: topic, payload: payload})
	return nil
}

func (m *mockPublisher) topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.topic)
	}
	return out
}

type mockNotificationRepo struct {
	mu      sync.Mutex
	records map[string]domain.Notification
	failFor map[string]bool
	marked  []string
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{
		records: make(map[string]domain.Notification),
		failFor: make(map[string]bool),
	}
}

func (m *mockNotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[n.UserID] {
		return domain.Notification{}, errors.New("storage unavailable")
	}
	m.records[n.ID] = n
	return n, nil
}

func (m *mockNotificationRepo) Get(ctx context.Context, id string) (domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.records[id]
	if !ok {
		return domain.Notification{}, domain.NotFoundError{Resource: "notification"}
	}
	return n, nil
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Notification
	for _, n := range m.records {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []domain.Notification{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id string, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.records[id]
	if !ok || n.UserID != userID {
		return domain.NotFoundError{Resource: "notification"}
	}
	n.IsRead = true
	m.records[id] = n
	m.marked = append(m.marked, id)
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for id, n := range m.records {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			m.records[id] = n
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, n := range m.records {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) forUser(userID string) []domain.Notification {
	out, _ := m.ListByUser(context.Background(), userID, 1000, 0)
	return out
}

type mockUserRepo struct {
	ids []string
	err error
}

func (m *mockUserRepo) ActiveUserIDs(ctx context.Context) ([]string, error) {
	return m.ids, m.err
}

type mockHelpRequestRepo struct {
	requests []domain.HelpRequest
}

func (m *mockHelpRequestRepo) List(ctx context.Context) ([]domain.HelpRequest, error) {
	return m.requests, nil
}

// inlineEnqueuer runs jobs synchronously and remembers their errors.
type inlineEnqueuer struct {
	names []string
	errs  []error
	full  bool
}

func (e *inlineEnqueuer) Enqueue(name string, job func(ctx context.Context) error) error {
	if e.full {
		return domain.ErrQueueFull
	}
	e.names = append(e.names, name)
	e.errs = append(e.errs, job(context.Background()))
	return nil
}

type mockChatRepo struct {
	rooms    map[string]bool
	messages []domain.ChatMessage
	err      error
}

func newMockChatRepo() *mockChatRepo {
	return &mockChatRepo{rooms: make(map[string]bool)}
}

func (m *mockChatRepo) EnsureRoom(ctx context.Context, name string) (domain.Room, error) {
	m.rooms[name] = true
	return domain.Room{ID: int64(len(m.rooms)), Name: name}, nil
}

func (m *mockChatRepo) CreateMessage(ctx context.Context, msg domain.ChatMessage) (domain.ChatMessage, error) {
	if m.err != nil {
		return domain.ChatMessage{}, m.err
	}
	msg.ID = int64(len(m.messages) + 1)
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *mockChatRepo) ListMessages(ctx context.Context, room string, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, msg := range m.messages {
		if msg.Room == room {
			out = append(out, msg)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type mockRoomAccess struct {
	members map[string][]string
}

func (m *mockRoomAccess) CanAccess(ctx context.Context, userID string, room string) (bool, error) {
	for _, id := range m.members[room] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

type mockCampaignRepo struct {
	saved []domain.DonationCampaign
	err   error
}

func (m *mockCampaignRepo) Save(ctx context.Context, c domain.DonationCampaign) (domain.DonationCampaign, error) {
	if m.err != nil {
		return domain.DonationCampaign{}, m.err
	}
	if c.ID == 0 {
		c.ID = int64(len(m.saved) + 1)
	}
	m.saved = append(m.saved, c)
	return c, nil
}
