package presence

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/live"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/store"
)

// Tracker maintains the best-effort typing signal: a per-chat per-user
// timestamp in the chat document's typing map. There is no clear-on-stop;
// absence of a fresh write within the staleness window means "stopped".
// Lost or out-of-order signals degrade to "no indicator".
type Tracker struct {
	hub *live.Hub

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	writeInterval time.Duration
	staleAfter    time.Duration

	now func() time.Time
}

func NewTracker(hub *live.Hub, writeInterval, staleAfter time.Duration) *Tracker {
	if writeInterval <= 0 {
		writeInterval = 2 * time.Second
	}
	if staleAfter <= 0 {
		staleAfter = 4 * time.Second
	}
	return &Tracker{
		hub:           hub,
		limiters:      make(map[string]*rate.Limiter),
		writeInterval: writeInterval,
		staleAfter:    staleAfter,
		now:           time.Now,
	}
}

func (t *Tracker) limiter(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	if l, ok := t.limiters[key]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(t.writeInterval), 1)
	t.limiters[key] = l
	return l
}

// Touch records that the user is typing in the chat. Writes are throttled
// to one per interval per (chat,user) to bound write volume; a throttled
// call is a successful no-op.
func (t *Tracker) Touch(chatID, userID string) error {
	if !t.limiter(chatID + "/" + userID).Allow() {
		return nil
	}
	chat, err := store.GetChat(chatID)
	if err != nil {
		return fmt.Errorf("chat not found: %w", err)
	}
	if chat.Typing == nil {
		chat.Typing = make(map[string]int64)
	}
	chat.Typing[userID] = t.now().UTC().UnixMilli()
	if err := store.SaveChat(chat); err != nil {
		// best effort: log and move on, the next keystroke retries
		logger.Warn("typing_write_failed", "chat", chatID, "user", userID, "error", err)
		return nil
	}
	t.hub.Publish(live.TopicChat(chatID))
	t.hub.Publish(live.TopicChats)
	return nil
}

// Typing reports whether the user's typing timestamp on the chat document
// is within the staleness window of read time.
func (t *Tracker) Typing(chat models.Chat, userID string) bool {
	ts, ok := chat.Typing[userID]
	if !ok {
		return false
	}
	age := t.now().UTC().UnixMilli() - ts
	return age >= 0 && age <= t.staleAfter.Milliseconds()
}

// TypingNow loads the chat and applies the staleness check.
func (t *Tracker) TypingNow(chatID, userID string) (bool, error) {
	chat, err := store.GetChat(chatID)
	if err != nil {
		return false, err
	}
	return t.Typing(chat, userID), nil
}
