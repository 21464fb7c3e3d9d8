package live

import (
	"context"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/store"
)

// MessageFeed produces live message-history snapshots for a single chat.
// Every snapshot fully replaces the previous one — no incremental patching,
// the entire history every time. Correctness over efficiency.
type MessageFeed struct {
	hub *Hub
}

func NewMessageFeed(hub *Hub) *MessageFeed {
	return &MessageFeed{hub: hub}
}

// Snapshot returns the chat's full message history ascending by timestamp.
func (f *MessageFeed) Snapshot(chatID string) ([]models.Message, error) {
	msgs, err := store.ListMessages(chatID)
	if err != nil {
		return nil, err
	}
	snapshotsTotal.WithLabelValues("messages").Inc()
	return msgs, nil
}

// Watch emits the full history immediately and again on every new message
// until ctx is done. The subscription is released on every exit path,
// including error exits; after Watch returns no callback fires again.
func (f *MessageFeed) Watch(ctx context.Context, chatID string) <-chan []models.Message {
	out := make(chan []models.Message, 1)
	sub := f.hub.Subscribe(TopicChat(chatID))
	go func() {
		defer close(out)
		defer sub.Unsubscribe()
		for {
			snap, err := f.Snapshot(chatID)
			if err != nil {
				logger.Error("feed_snapshot_failed", "chat", chatID, "error", err)
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
