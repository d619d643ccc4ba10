package rest

import (
	"context"
	"sort"
	"sync"

	"github.com/sahara-community/pulse/internal/domain"
)

type memNotifications struct {
	mu      sync.Mutex
	records map[string]domain.Notification
}

func newMemNotifications() *memNotifications {
	return &memNotifications{records: make(map[string]domain.Notification)}
}

func (m *memNotifications) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[n.ID] = n
	return n, nil
}

func (m *memNotifications) Get(ctx context.Context, id string) (domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.records[id]
	if !ok {
		return domain.Notification{}, domain.NotFoundError{Resource: "notification"}
	}
	return n, nil
}

func (m *memNotifications) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Notification{}
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

func (m *memNotifications) MarkRead(ctx context.Context, id string, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.records[id]
	n.IsRead = true
	m.records[id] = n
	return nil
}

func (m *memNotifications) MarkAllRead(ctx context.Context, userID string) (int64, error) {
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

func (m *memNotifications) CountUnread(ctx context.Context, userID string) (int64, error) {
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

type staticUsers []string

func (s staticUsers) ActiveUserIDs(ctx context.Context) ([]string, error) { return s, nil }

type staticHelpRequests []domain.HelpRequest

func (s staticHelpRequests) List(ctx context.Context) ([]domain.HelpRequest, error) { return s, nil }

type memChat struct {
	mu       sync.Mutex
	messages []domain.ChatMessage
}

func (m *memChat) EnsureRoom(ctx context.Context, name string) (domain.Room, error) {
	return domain.Room{ID: 1, Name: name}, nil
}

func (m *memChat) CreateMessage(ctx context.Context, msg domain.ChatMessage) (domain.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = int64(len(m.messages) + 1)
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *memChat) ListMessages(ctx context.Context, room string, limit int) ([]domain.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.ChatMessage{}
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

func (m *memChat) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

type memberships map[string][]string

func (m memberships) CanAccess(ctx context.Context, userID string, room string) (bool, error) {
	for _, id := range m[room] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

type memCampaigns struct{}

func (memCampaigns) Save(ctx context.Context, c domain.DonationCampaign) (domain.DonationCampaign, error) {
	if c.ID == 0 {
		c.ID = 1
	}
	return c, nil
}

// syncEnqueuer runs jobs inline.
type syncEnqueuer struct{}

func (syncEnqueuer) Enqueue(name string, job func(ctx context.Context) error) error {
	return job(context.Background())
}
