package compose

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/blob"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/live"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/stats"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/store"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/utils"
)

// interactiveTokens maps the reserved emoji to their outcome type and
// inclusive upper bound. The outcome is rolled at send time and persisted,
// so all readers see the same value.
var interactiveTokens = map[string]struct {
	kind string
	max  int
}{
	"🎲": {"dice", 6},
	"🎯": {"dart", 6},
	"🏀": {"basketball", 5},
}

// Composer turns user intent into one persisted message plus an updated
// chat summary. The two writes are not transactional: the message lands
// first, and a crash before the summary overwrite leaves the chat preview
// stale while the feed stays correct.
type Composer struct {
	hub   *live.Hub
	blobs *blob.Store
	usage *stats.Store

	maxImageEdge int
	jpegQuality  int

	// now and roll are injectable for tests.
	now  func() time.Time
	roll func(max int) int
}

func New(hub *live.Hub, blobs *blob.Store, usage *stats.Store, maxImageEdge, jpegQuality int) *Composer {
	return &Composer{
		hub:          hub,
		blobs:        blobs,
		usage:        usage,
		maxImageEdge: maxImageEdge,
		jpegQuality:  jpegQuality,
		now:          time.Now,
		roll:         func(max int) int { return 1 + rand.Intn(max) },
	}
}

// SendText trims and persists a text message. A trimmed input exactly equal
// to a reserved emoji token is stored as an interactive-emoji message with
// empty text and a bounded random outcome instead.
func (c *Composer) SendText(ctx context.Context, chatID, senderID, text string) (models.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.Message{}, fmt.Errorf("empty message")
	}
	m := c.newMessage(chatID, senderID, models.MessageTypeText)
	if tok, ok := interactiveTokens[trimmed]; ok {
		m.InteractiveEmoji = &models.InteractiveEmoji{Type: tok.kind, Value: c.roll(tok.max)}
	} else {
		m.Text = trimmed
	}
	return m, c.deliver(ctx, m)
}

// SendMedia uploads the payload and persists the matching media message.
// Images are resized before upload so the longest edge stays within the
// configured cap; videos and files are uploaded unmodified.
func (c *Composer) SendMedia(ctx context.Context, chatID, senderID, kind, filename string, data []byte) (models.Message, error) {
	var payload []byte
	var err error
	switch kind {
	case models.MessageTypeImage:
		payload, filename, err = NormalizeImage(data, filename, c.maxImageEdge, c.jpegQuality)
		if err != nil {
			return models.Message{}, fmt.Errorf("image processing failed: %w", err)
		}
	case models.MessageTypeVideo, models.MessageTypeFile, models.MessageTypeAudio:
		payload = data
	default:
		return models.Message{}, fmt.Errorf("unknown media kind: %s", kind)
	}

	category, bucket := categoryFor(kind)
	stored := utils.GenFileName(filename)
	url, n, err := c.blobs.Upload(category, stored, bytes.NewReader(payload))
	if err != nil {
		return models.Message{}, fmt.Errorf("upload failed: %w", err)
	}
	c.usage.Add(bucket, n)

	m := c.newMessage(chatID, senderID, kind)
	m.MediaURL = url
	m.MediaName = filename
	m.MediaSize = n
	return m, c.deliver(ctx, m)
}

// ScheduleText persists a deferred text send to be delivered at sendAt.
// The interactive-emoji outcome, when applicable, is fixed now — at the
// moment the user committed the send — not at delivery.
func (c *Composer) ScheduleText(ctx context.Context, chatID, senderID, text string, sendAt time.Time) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("empty message")
	}
	if err := c.checkWritable(chatID, senderID); err != nil {
		return "", err
	}
	m := c.newMessage(chatID, senderID, models.MessageTypeText)
	if tok, ok := interactiveTokens[trimmed]; ok {
		m.InteractiveEmoji = &models.InteractiveEmoji{Type: tok.kind, Value: c.roll(tok.max)}
	} else {
		m.Text = trimmed
	}
	key, err := store.SaveScheduled(store.ScheduledSend{
		ChatID:  chatID,
		Sender:  senderID,
		Text:    m.Text,
		DueAt:   sendAt.UnixMilli(),
		Message: m,
	})
	if err != nil {
		return "", fmt.Errorf("schedule failed: %w", err)
	}
	logger.Info("message_scheduled", "chat", chatID, "due", sendAt.UnixMilli())
	return key, nil
}

// DeliverScheduled writes a due deferred send with delivery-time timestamps.
func (c *Composer) DeliverScheduled(ctx context.Context, sc store.ScheduledSend) error {
	m := sc.Message
	ts := c.now().UTC().UnixMilli()
	m.TimestampRaw = ts
	m.Timestamp = utils.FormatClock(ts)
	return c.deliver(ctx, m)
}

func (c *Composer) newMessage(chatID, senderID, kind string) models.Message {
	ts := c.now().UTC().UnixMilli()
	return models.Message{
		ID:           utils.GenID(),
		ChatID:       chatID,
		SenderID:     senderID,
		Timestamp:    utils.FormatClock(ts),
		TimestampRaw: ts,
		Type:         kind,
	}
}

func (c *Composer) checkWritable(chatID, senderID string) error {
	chat, err := store.GetChat(chatID)
	if err != nil {
		return fmt.Errorf("chat not found: %w", err)
	}
	if chat.IsReadOnly && chat.Owner != senderID {
		return fmt.Errorf("chat is read-only")
	}
	return nil
}

// deliver writes the message document followed by the denormalized summary
// overwrite on the parent chat, then wakes subscribers. The feed is the
// source of truth for display; the summary only drives the chat list.
func (c *Composer) deliver(ctx context.Context, m models.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chat, err := store.GetChat(m.ChatID)
	if err != nil {
		return fmt.Errorf("chat not found: %w", err)
	}
	if chat.IsReadOnly && chat.Owner != m.SenderID {
		return fmt.Errorf("chat is read-only")
	}
	if err := store.SaveMessage(m); err != nil {
		store.RecordWriteFailure("message")
		return fmt.Errorf("send failed: %w", err)
	}
	chat.LastMessage = m.Summary()
	chat.UpdatedAt = m.TimestampRaw
	if err := store.SaveChat(chat); err != nil {
		// message intact, summary stale; the feed remains correct
		store.RecordWriteFailure("chat")
		logger.Error("summary_overwrite_failed", "chat", m.ChatID, "error", err)
	}
	c.hub.Publish(live.TopicChat(m.ChatID))
	c.hub.Publish(live.TopicChats)
	logger.Info("message_sent", "chat", m.ChatID, "id", m.ID, "type", m.Type)
	return nil
}

func categoryFor(kind string) (category, bucket string) {
	switch kind {
	case models.MessageTypeImage, models.MessageTypeVideo:
		return blob.CategoryMedia, stats.BucketMedia
	case models.MessageTypeVoice, models.MessageTypeAudio:
		return blob.CategoryAudio, stats.BucketVoice
	default:
		return blob.CategoryFiles, stats.BucketFiles
	}
}
