package models

// Message kinds.
const (
	MessageTypeText  = "text"
	MessageTypeVoice = "voice"
	MessageTypeImage = "image"
	MessageTypeVideo = "video"
	MessageTypeFile  = "file"
	MessageTypeAudio = "audio"
)

// Message belongs to exactly one chat and is immutable once written.
// Ordering within a chat follows TimestampRaw, not subscription arrival.
type Message struct {
	ID       string `json:"id"`
	ChatID   string `json:"chatId"`
	SenderID string `json:"senderId"`
	Text     string `json:"text,omitempty"`
	// Timestamp is the short display string; TimestampRaw is epoch ms.
	Timestamp    string `json:"timestamp"`
	TimestampRaw int64  `json:"timestampRaw"`
	IsRead       bool   `json:"isRead"`
	Type         string `json:"type"`
	MediaURL     string `json:"mediaUrl,omitempty"`
	MediaName    string `json:"mediaName,omitempty"`
	MediaSize    int64  `json:"mediaSize,omitempty"`
	AudioURL     string `json:"audioUrl,omitempty"`
	// Duration is the mm:ss voice length string.
	Duration         string            `json:"duration,omitempty"`
	InteractiveEmoji *InteractiveEmoji `json:"interactiveEmoji,omitempty"`
}

// InteractiveEmoji carries the outcome of a dice/dart/basketball send. The
// value is fixed at send time and identical for all readers.
type InteractiveEmoji struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// Summary builds the denormalized chat preview for this message.
func (m *Message) Summary() MessageSummary {
	text := m.Text
	if text == "" {
		switch {
		case m.InteractiveEmoji != nil:
			text = m.InteractiveEmoji.Type
		case m.Type == MessageTypeVoice:
			text = "Voice message"
		case m.MediaName != "":
			text = m.MediaName
		}
	}
	return MessageSummary{
		SenderID:  m.SenderID,
		Text:      text,
		Type:      m.Type,
		Timestamp: m.TimestampRaw,
	}
}
