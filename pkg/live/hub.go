package live

import (
	"sync"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"
)

// Hub is the in-process fanout for store change notifications. Subscribers
// receive coalesced wakeups, not payloads: on every wake a consumer rebuilds
// its full snapshot from the store, so a dropped wakeup while one is already
// pending loses nothing.
type Hub struct {
	mu   sync.Mutex
	buf  int
	subs map[string]map[*Subscription]struct{}
}

// Subscription is a live handle on a topic. Callers must call Unsubscribe
// on every exit path; a leaked subscription keeps consuming hub capacity
// indefinitely.
type Subscription struct {
	hub    *Hub
	topic  string
	ch     chan struct{}
	closed bool
}

func NewHub() *Hub {
	return NewHubSize(1)
}

// NewHubSize builds a hub whose subscriptions hold up to buffer pending
// wakeups. Coalescing needs at least one slot; smaller values clamp to 1.
func NewHubSize(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{buf: buffer, subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers a subscriber on the topic.
func (h *Hub) Subscribe(topic string) *Subscription {
	s := &Subscription{hub: h, topic: topic, ch: make(chan struct{}, h.buf)}
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.subs[topic]
	if !ok {
		m = make(map[*Subscription]struct{})
		h.subs[topic] = m
	}
	m[s] = struct{}{}
	activeSubscriptions.Inc()
	return s
}

// Publish wakes every subscriber on the topic. Non-blocking: a subscriber
// with a wakeup already pending is skipped (coalesced).
func (h *Hub) Publish(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[topic] {
		select {
		case s.ch <- struct{}{}:
			wakeupsTotal.Inc()
		default:
			coalescedTotal.Inc()
		}
	}
}

// Notify returns the wakeup channel. It is closed by Unsubscribe.
func (s *Subscription) Notify() <-chan struct{} {
	return s.ch
}

// Unsubscribe releases the subscription. After it returns no further wakeup
// is ever delivered on Notify. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if m, ok := s.hub.subs[s.topic]; ok {
		delete(m, s)
		if len(m) == 0 {
			delete(s.hub.subs, s.topic)
		}
	}
	close(s.ch)
	activeSubscriptions.Dec()
	logger.Debug("subscription_released", "topic", s.topic)
}

// ActiveTopics reports how many topics currently have subscribers. Used by
// leak checks and debugging endpoints.
func (h *Hub) ActiveTopics() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// TopicChats is published on any chat document change.
const TopicChats = "chats"

// TopicChat returns the per-chat message topic.
func TopicChat(chatID string) string { return "chat:" + chatID }
