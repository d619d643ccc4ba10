package realtime

import "sync"

// Subscriber is a live connection the registry can hand frames to.
type Subscriber interface {
	ID() string
	Deliver(frame []byte) error
}

// Registry maps topic keys to the sessions currently subscribed to them.
// It holds no ownership of sessions; the transport must call DropSession
// on every teardown path.
type Registry struct {
	mu       sync.RWMutex
	topics   map[string]map[string]Subscriber
	sessions map[string]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		topics:   make(map[string]map[string]Subscriber),
		sessions: make(map[string]map[string]struct{}),
	}
}

// Subscribe adds sub to topic. Subscribing twice is a no-op.
func (r *Registry) Subscribe(topic string, sub Subscriber) {
	id := sub.ID()

	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.topics[topic]
	if !ok {
		subs = make(map[string]Subscriber)
		r.topics[topic] = subs
	}
	subs[id] = sub

	joined, ok := r.sessions[id]
	if !ok {
		joined = make(map[string]struct{})
		r.sessions[id] = joined
	}
	joined[topic] = struct{}{}
}

func (r *Registry) Unsubscribe(topic string, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.unsubscribeLocked(topic, sessionID)
}

func (r *Registry) unsubscribeLocked(topic string, sessionID string) {
	if subs, ok := r.topics[topic]; ok {
		delete(subs, sessionID)
		if len(subs) == 0 {
			delete(r.topics, topic)
		}
	}

	if joined, ok := r.sessions[sessionID]; ok {
		delete(joined, topic)
		if len(joined) == 0 {
			delete(r.sessions, sessionID)
		}
	}
}

// SubscribersOf returns a snapshot of the subscribers of topic.
// The slice is never shared with the registry.
func (r *Registry) SubscribersOf(topic string) []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := r.topics[topic]
	snapshot := make([]Subscriber, 0, len(subs))
	for _, sub := range subs {
		snapshot = append(snapshot, sub)
	}
	return snapshot
}

// DropSession removes sessionID from every topic it joined. Idempotent.
func (r *Registry) DropSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	joined, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	for topic := range joined {
		r.unsubscribeLocked(topic, sessionID)
	}
	delete(r.sessions, sessionID)
}

// Topics lists the topics sessionID is subscribed to.
func (r *Registry) Topics(sessionID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	joined := r.sessions[sessionID]
	topics := make([]string, 0, len(joined))
	for topic := range joined {
		topics = append(topics, topic)
	}
	return topics
}

// Len reports the number of topics with at least one subscriber.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.topics)
}
