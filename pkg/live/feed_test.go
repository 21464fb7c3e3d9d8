package live

import (
	"context"
	"testing"
	"time"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/store"
)

func TestFeedSnapshotAscending(t *testing.T) {
	openTemp(t)
	f := NewMessageFeed(NewHub())

	for _, ts := range []int64{20, 10, 30} {
		if err := store.SaveMessage(models.Message{ChatID: "c1", TimestampRaw: ts}); err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
	}
	msgs, err := f.Snapshot("c1")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(msgs) != 3 || msgs[0].TimestampRaw != 10 || msgs[2].TimestampRaw != 30 {
		t.Fatalf("unexpected order: %+v", msgs)
	}
}

func TestFeedWatchFullReplace(t *testing.T) {
	openTemp(t)
	hub := NewHub()
	f := NewMessageFeed(hub)

	if err := store.SaveMessage(models.Message{ChatID: "c1", TimestampRaw: 1}); err != nil {
		t.Fatalf("SaveMessage: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := f.Watch(ctx, "c1")

	select {
	case snap := <-ch:
		if len(snap) != 1 {
			t.Fatalf("expected 1 message, got %d", len(snap))
		}
	case <-time.After(time.Second):
		t.Fatal("missing initial snapshot")
	}

	if err := store.SaveMessage(models.Message{ChatID: "c1", TimestampRaw: 2}); err != nil {
		t.Fatalf("SaveMessage: %v", err)
	}
	hub.Publish(TopicChat("c1"))

	select {
	case snap := <-ch:
		// the whole history again, not a delta
		if len(snap) != 2 {
			t.Fatalf("expected full snapshot of 2 messages, got %d", len(snap))
		}
	case <-time.After(time.Second):
		t.Fatal("missing snapshot after publish")
	}
}
