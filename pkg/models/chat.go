package models

// Chat types.
const (
	ChatTypePrivate = "private"
	ChatTypeChannel = "channel"
)

// Chat is the chat document stored under chat:<id>:meta. UpdatedAt is the
// single canonical ordering key for the chat list (descending).
type Chat struct {
	ID string `json:"id"`
	// Participants holds the user ids in the chat. For private chats the set
	// has exactly two members; channels may carry a single reader plus Owner.
	Participants []string `json:"participants"`
	// Users is a denormalized snapshot of participant profiles.
	Users []User `json:"users,omitempty"`
	Type  string `json:"type"`
	// Owner is the designated sender for channels.
	Owner      string `json:"owner,omitempty"`
	Title      string `json:"title,omitempty"`
	IsReadOnly bool   `json:"isReadOnly,omitempty"`
	// UpdatedAt timestamp (ms) — bumped on every summary overwrite.
	UpdatedAt   int64          `json:"updatedAt"`
	LastMessage MessageSummary `json:"lastMessage,omitempty"`
	// Typing maps userId -> last-typed-at epoch ms. Best effort; readers
	// apply a staleness window, no clear-on-stop.
	Typing map[string]int64 `json:"typing,omitempty"`
	// NewsVersion is the monotonic catch-up marker for channel chats.
	NewsVersion int `json:"newsVersion,omitempty"`
	// Created timestamp (ms)
	CreatedAt int64 `json:"createdAt,omitempty"`
}

// MessageSummary is the denormalized lastMessage preview on the chat doc.
type MessageSummary struct {
	SenderID  string `json:"senderId,omitempty"`
	Text      string `json:"text,omitempty"`
	Type      string `json:"type,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// Counterpart returns the participant id that is not self, or empty for
// chats without a second participant.
func (c *Chat) Counterpart(self string) string {
	for _, p := range c.Participants {
		if p != self {
			return p
		}
	}
	return ""
}

// HasParticipant reports whether id is in the participant set.
func (c *Chat) HasParticipant(id string) bool {
	for _, p := range c.Participants {
		if p == id {
			return true
		}
	}
	return false
}
