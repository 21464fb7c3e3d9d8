package news

import (
	"fmt"
	"time"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/live"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/store"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/utils"
)

// OwnerID is the designated sender of the broadcast channel.
const OwnerID = "housegram"

// ChannelTitle names the broadcast channel in the chat list.
const ChannelTitle = "HouseGram News"

// batches holds the bundled announcement sequences. Index i is the content
// introduced by version i+1; a chat at newsVersion v has received batches
// [0,v). Append a new batch to ship an update — never edit shipped ones.
var batches = [][]string{
	{
		"Welcome to HouseGram! 👋",
		"This channel carries release notes and service updates.",
		"Start a chat from the contacts screen to say hi to someone.",
	},
	{
		"Update: voice messages and media uploads are now available.",
		"Long-press send to schedule a message for later.",
	},
}

// CurrentVersion is the newest bundled announcement version.
func CurrentVersion() int { return len(batches) }

// Service owns the per-user broadcast channel lifecycle: synthetic
// placeholder, lazy materialization and idempotent catch-up.
type Service struct {
	hub *live.Hub
	now func() time.Time
}

func NewService(hub *live.Hub) *Service {
	return &Service{hub: hub, now: time.Now}
}

// Placeholder returns the synthetic chat-list entry shown while no real
// channel document exists for the user. It is never persisted.
func (s *Service) Placeholder(userID string) *models.Chat {
	return &models.Chat{
		ID:           "news-pending-" + userID,
		Participants: []string{userID, OwnerID},
		Type:         models.ChatTypeChannel,
		Owner:        OwnerID,
		Title:        ChannelTitle,
		IsReadOnly:   true,
		LastMessage:  models.MessageSummary{SenderID: OwnerID, Text: batches[0][0], Type: models.MessageTypeText},
	}
}

// find returns the user's materialized channel chat, if any.
func (s *Service) find(userID string) (models.Chat, bool, error) {
	chats, err := store.ListChats()
	if err != nil {
		return models.Chat{}, false, err
	}
	for _, c := range chats {
		if c.Type == models.ChatTypeChannel && c.Owner == OwnerID && c.HasParticipant(userID) {
			return c, true, nil
		}
	}
	return models.Chat{}, false, nil
}

// Open is invoked on every click of the news entry. On first interaction it
// materializes the real chat document and backfills the full announcement
// history; afterwards it appends any batches the chat has not seen yet.
// Idempotent: when the stored version matches the bundled one it performs
// no writes at all.
func (s *Service) Open(userID string) (models.Chat, error) {
	chat, ok, err := s.find(userID)
	if err != nil {
		return models.Chat{}, err
	}
	if !ok {
		chat = models.Chat{
			ID:           utils.GenChatID(),
			Participants: []string{userID, OwnerID},
			Type:         models.ChatTypeChannel,
			Owner:        OwnerID,
			Title:        ChannelTitle,
			IsReadOnly:   true,
			CreatedAt:    s.now().UTC().UnixMilli(),
		}
		if err := store.SaveChat(chat); err != nil {
			return models.Chat{}, fmt.Errorf("channel create failed: %w", err)
		}
		logger.Info("news_channel_materialized", "user", userID, "chat", chat.ID)
	}
	return s.catchUp(chat)
}

// catchUp appends unseen batches and bumps the stored version. The version
// comparison is numeric and monotonic, so re-running after a catch-up is a
// no-op.
func (s *Service) catchUp(chat models.Chat) (models.Chat, error) {
	if chat.NewsVersion >= CurrentVersion() {
		return chat, nil
	}
	var last models.Message
	for _, batch := range batches[chat.NewsVersion:] {
		for _, text := range batch {
			ts := s.now().UTC().UnixMilli()
			m := models.Message{
				ID:           utils.GenID(),
				ChatID:       chat.ID,
				SenderID:     OwnerID,
				Text:         text,
				Timestamp:    utils.FormatClock(ts),
				TimestampRaw: ts,
				Type:         models.MessageTypeText,
			}
			if err := store.SaveMessage(m); err != nil {
				return chat, fmt.Errorf("backfill failed: %w", err)
			}
			last = m
		}
	}
	chat.NewsVersion = CurrentVersion()
	chat.LastMessage = last.Summary()
	chat.UpdatedAt = last.TimestampRaw
	if err := store.SaveChat(chat); err != nil {
		return chat, fmt.Errorf("channel update failed: %w", err)
	}
	s.hub.Publish(live.TopicChat(chat.ID))
	s.hub.Publish(live.TopicChats)
	logger.Info("news_channel_caught_up", "chat", chat.ID, "version", chat.NewsVersion)
	return chat, nil
}
