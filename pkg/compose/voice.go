package compose

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/blob"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/stats"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/utils"
)

// Recording accumulates one voice blob per session. Cancel discards the
// blob without uploading; Finish uploads and emits the message. The mm:ss
// duration comes from a wall-clock counter, not from decoding the audio,
// so a delayed recording start drifts the reported length.
type Recording struct {
	chatID   string
	senderID string
	buf      bytes.Buffer
	started  time.Time
	done     bool
}

// StartRecording opens a voice recording session for the chat.
func (c *Composer) StartRecording(chatID, senderID string) *Recording {
	return &Recording{chatID: chatID, senderID: senderID, started: c.now()}
}

// Write appends captured audio bytes to the session blob.
func (r *Recording) Write(p []byte) (int, error) {
	if r.done {
		return 0, fmt.Errorf("recording already closed")
	}
	return r.buf.Write(p)
}

// Cancel discards the recording without uploading.
func (r *Recording) Cancel() {
	r.done = true
	r.buf.Reset()
	logger.Debug("recording_cancelled", "chat", r.chatID)
}

// FinishRecording uploads the blob and persists the voice message.
func (c *Composer) FinishRecording(ctx context.Context, r *Recording) (models.Message, error) {
	if r.done {
		return models.Message{}, fmt.Errorf("recording already closed")
	}
	r.done = true
	if r.buf.Len() == 0 {
		return models.Message{}, fmt.Errorf("empty recording")
	}
	elapsed := c.now().Sub(r.started)

	stored := utils.GenFileName("voice.ogg")
	url, n, err := c.blobs.Upload(blob.CategoryAudio, stored, bytes.NewReader(r.buf.Bytes()))
	if err != nil {
		return models.Message{}, fmt.Errorf("upload failed: %w", err)
	}
	c.usage.Add(stats.BucketVoice, n)

	m := c.newMessage(r.chatID, r.senderID, models.MessageTypeVoice)
	m.AudioURL = url
	m.MediaSize = n
	m.Duration = utils.FormatDuration(elapsed)
	return m, c.deliver(ctx, m)
}
