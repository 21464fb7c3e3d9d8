package news

import (
	"path/filepath"
	"testing"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/live"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	if err := store.Open(filepath.Join(t.TempDir(), "db")); err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewService(live.NewHub())
}

func totalBundled() int {
	n := 0
	for _, b := range batches {
		n += len(b)
	}
	return n
}

func TestPlaceholderIsNeverPersisted(t *testing.T) {
	s := newTestService(t)

	ph := s.Placeholder("me")
	if ph == nil || ph.Type != models.ChatTypeChannel || !ph.IsReadOnly {
		t.Fatalf("unexpected placeholder: %+v", ph)
	}
	chats, err := store.ListChats()
	if err != nil {
		t.Fatalf("ListChats: %v", err)
	}
	if len(chats) != 0 {
		t.Fatalf("placeholder leaked into the store: %+v", chats)
	}
}

func TestOpenMaterializesAndBackfills(t *testing.T) {
	s := newTestService(t)

	chat, err := s.Open("me")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if chat.Type != models.ChatTypeChannel || chat.Owner != OwnerID || !chat.IsReadOnly {
		t.Fatalf("unexpected channel doc: %+v", chat)
	}
	if chat.NewsVersion != CurrentVersion() {
		t.Fatalf("expected version %d, got %d", CurrentVersion(), chat.NewsVersion)
	}

	msgs, err := store.ListMessages(chat.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != totalBundled() {
		t.Fatalf("expected %d backfilled messages, got %d", totalBundled(), len(msgs))
	}
	if chat.LastMessage.Text != msgs[len(msgs)-1].Text {
		t.Fatalf("summary not set to the last backfilled message")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	s := newTestService(t)

	first, err := s.Open("me")
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	second, err := s.Open("me")
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second open created a new channel: %s vs %s", second.ID, first.ID)
	}
	if second.UpdatedAt != first.UpdatedAt || second.NewsVersion != first.NewsVersion {
		t.Fatalf("second open performed writes: %+v vs %+v", second, first)
	}
	msgs, err := store.ListMessages(first.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != totalBundled() {
		t.Fatalf("second open duplicated messages: %d", len(msgs))
	}
}

func TestCatchUpAppendsOnlyUnseenBatches(t *testing.T) {
	s := newTestService(t)

	// a channel persisted by an older build that had only the first batch
	stale := models.Chat{
		ID:           "chat_news_me",
		Participants: []string{"me", OwnerID},
		Type:         models.ChatTypeChannel,
		Owner:        OwnerID,
		Title:        ChannelTitle,
		IsReadOnly:   true,
		NewsVersion:  1,
	}
	if err := store.SaveChat(stale); err != nil {
		t.Fatalf("SaveChat: %v", err)
	}
	for _, text := range batches[0] {
		if err := store.SaveMessage(models.Message{ChatID: stale.ID, SenderID: OwnerID, Text: text, Type: models.MessageTypeText, TimestampRaw: 1}); err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
	}

	chat, err := s.Open("me")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if chat.ID != stale.ID {
		t.Fatalf("catch-up created a new channel")
	}
	if chat.NewsVersion != CurrentVersion() {
		t.Fatalf("version not bumped: %d", chat.NewsVersion)
	}
	msgs, err := store.ListMessages(chat.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != totalBundled() {
		t.Fatalf("expected %d messages after catch-up, got %d", totalBundled(), len(msgs))
	}
}

func TestChannelsArePerUser(t *testing.T) {
	s := newTestService(t)

	a, err := s.Open("alice")
	if err != nil {
		t.Fatalf("Open alice: %v", err)
	}
	b, err := s.Open("bob")
	if err != nil {
		t.Fatalf("Open bob: %v", err)
	}
	if a.ID == b.ID {
		t.Fatal("expected distinct channel docs per user")
	}
}
