package compose

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/store"
)

func TestFinishRecordingDeliversVoiceMessage(t *testing.T) {
	c, usage := newTestComposer(t)
	seedChat(t, models.Chat{ID: "c1", Participants: []string{"me", "other"}})

	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	rec := c.StartRecording("c1", "me")
	_, err := rec.Write([]byte("opus frames here"))
	require.NoError(t, err)

	// the duration counter is wall clock, measured from session start
	c.now = func() time.Time { return base.Add(65 * time.Second) }
	m, err := c.FinishRecording(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, models.MessageTypeVoice, m.Type)
	assert.Equal(t, "01:05", m.Duration)
	assert.True(t, strings.HasPrefix(m.AudioURL, "/blobs/audio/"), m.AudioURL)

	msgs, err := store.ListMessages("c1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	chat, err := store.GetChat("c1")
	require.NoError(t, err)
	assert.Equal(t, "Voice message", chat.LastMessage.Text)

	assert.Equal(t, int64(len("opus frames here")), usage.Usage().VoiceBytes)
}

func TestCancelledRecordingWritesNothing(t *testing.T) {
	c, usage := newTestComposer(t)
	seedChat(t, models.Chat{ID: "c1", Participants: []string{"me", "other"}})

	rec := c.StartRecording("c1", "me")
	_, err := rec.Write([]byte("soon to be discarded"))
	require.NoError(t, err)
	rec.Cancel()

	_, err = c.FinishRecording(context.Background(), rec)
	require.Error(t, err)
	_, err = rec.Write([]byte("more"))
	require.Error(t, err)

	msgs, err := store.ListMessages("c1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Zero(t, usage.Usage().VoiceBytes)
}

func TestEmptyRecordingRejected(t *testing.T) {
	c, _ := newTestComposer(t)
	seedChat(t, models.Chat{ID: "c1", Participants: []string{"me", "other"}})

	rec := c.StartRecording("c1", "me")
	_, err := c.FinishRecording(context.Background(), rec)
	require.Error(t, err)
}
