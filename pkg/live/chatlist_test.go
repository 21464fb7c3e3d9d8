package live

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/store"
)

func openTemp(t *testing.T) {
	t.Helper()
	if err := store.Open(filepath.Join(t.TempDir(), "db")); err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
}

func saveChat(t *testing.T, c models.Chat) {
	t.Helper()
	if err := store.SaveChat(c); err != nil {
		t.Fatalf("SaveChat %s: %v", c.ID, err)
	}
}

func TestSnapshotOrdersByUpdatedAtDesc(t *testing.T) {
	openTemp(t)
	cl := NewChatList(NewHub(), nil)

	saveChat(t, models.Chat{ID: "old", Participants: []string{"me", "a"}, Type: models.ChatTypePrivate, UpdatedAt: 100})
	saveChat(t, models.Chat{ID: "new", Participants: []string{"me", "b"}, Type: models.ChatTypePrivate, UpdatedAt: 300})
	saveChat(t, models.Chat{ID: "mid", Participants: []string{"me", "c"}, Type: models.ChatTypePrivate, UpdatedAt: 200})

	chats, err := cl.Snapshot("me")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(chats) != 3 {
		t.Fatalf("expected 3 chats, got %d", len(chats))
	}
	for i, want := range []string{"new", "mid", "old"} {
		if chats[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, chats[i].ID)
		}
	}
}

func TestSnapshotExcludesForeignChats(t *testing.T) {
	openTemp(t)
	cl := NewChatList(NewHub(), nil)

	saveChat(t, models.Chat{ID: "mine", Participants: []string{"me", "a"}, Type: models.ChatTypePrivate})
	saveChat(t, models.Chat{ID: "theirs", Participants: []string{"x", "y"}, Type: models.ChatTypePrivate})

	chats, err := cl.Snapshot("me")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(chats) != 1 || chats[0].ID != "mine" {
		t.Fatalf("expected only my chat, got %+v", chats)
	}
}

func TestSnapshotDedupesByCounterpart(t *testing.T) {
	openTemp(t)
	cl := NewChatList(NewHub(), nil)

	// two private chats against the same counterpart: first in key order wins
	saveChat(t, models.Chat{ID: "chat_a", Participants: []string{"me", "other"}, Type: models.ChatTypePrivate, UpdatedAt: 100})
	saveChat(t, models.Chat{ID: "chat_b", Participants: []string{"me", "other"}, Type: models.ChatTypePrivate, UpdatedAt: 200})

	chats, err := cl.Snapshot("me")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(chats) != 1 {
		t.Fatalf("expected duplicate counterpart collapsed, got %d chats", len(chats))
	}
	if chats[0].ID != "chat_a" {
		t.Fatalf("expected first-encountered chat to survive, got %s", chats[0].ID)
	}
}

func TestSnapshotInjectsPlaceholderOnlyWithoutChannel(t *testing.T) {
	openTemp(t)
	ph := func(userID string) *models.Chat {
		return &models.Chat{ID: "pending-" + userID, Type: models.ChatTypeChannel, IsReadOnly: true}
	}
	cl := NewChatList(NewHub(), ph)

	saveChat(t, models.Chat{ID: "p1", Participants: []string{"me", "a"}, Type: models.ChatTypePrivate, UpdatedAt: 500})

	chats, err := cl.Snapshot("me")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(chats) != 2 || chats[0].ID != "pending-me" {
		t.Fatalf("expected placeholder first, got %+v", chats)
	}

	// once a real channel exists the placeholder disappears
	saveChat(t, models.Chat{ID: "ch1", Participants: []string{"me", "hg"}, Type: models.ChatTypeChannel, UpdatedAt: 50})
	chats, err = cl.Snapshot("me")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	for _, c := range chats {
		if c.ID == "pending-me" {
			t.Fatal("placeholder still present alongside real channel")
		}
	}
	if len(chats) != 2 {
		t.Fatalf("expected private chat plus channel, got %d", len(chats))
	}
}

func TestWatchEmitsOnPublish(t *testing.T) {
	openTemp(t)
	hub := NewHub()
	cl := NewChatList(hub, nil)

	saveChat(t, models.Chat{ID: "c1", Participants: []string{"me", "a"}, Type: models.ChatTypePrivate, UpdatedAt: 1})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := cl.Watch(ctx, "me")

	// initial snapshot
	select {
	case snap := <-ch:
		if len(snap) != 1 {
			t.Fatalf("expected 1 chat in initial snapshot, got %d", len(snap))
		}
	case <-time.After(time.Second):
		t.Fatal("missing initial snapshot")
	}

	saveChat(t, models.Chat{ID: "c2", Participants: []string{"me", "b"}, Type: models.ChatTypePrivate, UpdatedAt: 2})
	hub.Publish(TopicChats)

	select {
	case snap := <-ch:
		if len(snap) != 2 {
			t.Fatalf("expected rebuilt snapshot with 2 chats, got %d", len(snap))
		}
	case <-time.After(time.Second):
		t.Fatal("missing snapshot after publish")
	}

	// cancellation tears the stream down
	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			// one in-flight snapshot may still be buffered; the next read must close
			if _, ok2 := <-ch; ok2 {
				t.Fatal("stream still open after cancel")
			}
		}
	case <-time.After(time.Second):
		t.Fatal("stream not closed after cancel")
	}
}
