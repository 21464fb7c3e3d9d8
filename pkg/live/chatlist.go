package live

import (
	"context"
	"sort"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/store"
)

// PlaceholderFn supplies the synthetic news-channel entry shown while no
// real channel document exists for the user. Nil means no injection.
type PlaceholderFn func(userID string) *models.Chat

// ChatList produces live, ordered chat-list snapshots for a user.
type ChatList struct {
	hub         *Hub
	placeholder PlaceholderFn
}

func NewChatList(hub *Hub, placeholder PlaceholderFn) *ChatList {
	return &ChatList{hub: hub, placeholder: placeholder}
}

// Snapshot builds the user's chat list: chats whose participant set contains
// the user, deduplicated by counterpart id (first encountered survives),
// ordered by updatedAt descending with ties broken by arrival order.
func (cl *ChatList) Snapshot(userID string) ([]models.Chat, error) {
	all, err := store.ListChats()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	hasChannel := false
	var out []models.Chat
	for _, c := range all {
		if !c.HasParticipant(userID) {
			continue
		}
		if c.Type == models.ChatTypeChannel {
			hasChannel = true
		} else {
			other := c.Counterpart(userID)
			if other != "" {
				if _, dup := seen[other]; dup {
					continue
				}
				seen[other] = struct{}{}
			}
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt > out[j].UpdatedAt
	})
	if !hasChannel && cl.placeholder != nil {
		if ph := cl.placeholder(userID); ph != nil {
			out = append([]models.Chat{*ph}, out...)
		}
	}
	snapshotsTotal.WithLabelValues("chatlist").Inc()
	return out, nil
}

// Watch emits a snapshot immediately and again on every chat change until
// ctx is done. The subscription is released on every exit path. Rebuild
// errors are logged and skipped; the stream itself is not torn down.
func (cl *ChatList) Watch(ctx context.Context, userID string) <-chan []models.Chat {
	out := make(chan []models.Chat, 1)
	sub := cl.hub.Subscribe(TopicChats)
	go func() {
		defer close(out)
		defer sub.Unsubscribe()
		for {
			snap, err := cl.Snapshot(userID)
			if err != nil {
				logger.Error("chatlist_snapshot_failed", "user", userID, "error", err)
			} else {
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			}
			select {
			case _, ok := <-sub.Notify():
				if !ok {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
