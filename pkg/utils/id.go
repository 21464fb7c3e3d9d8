package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"
)

// GenID returns a collision-resistant identifier built from the current time
// and a random suffix. Not a content hash: identical payloads get distinct ids.
func GenID() string {
	return fmt.Sprintf("%d_%s", time.Now().UTC().UnixMilli(), randHex(6))
}

// GenChatID returns a new chat document id.
func GenChatID() string {
	return "chat_" + randHex(10)
}

// GenFileName builds a stored-blob filename from the current time, a random
// suffix and the original file's extension.
func GenFileName(original string) string {
	ext := strings.ToLower(path.Ext(original))
	return fmt.Sprintf("%d_%s%s", time.Now().UTC().UnixMilli(), randHex(4), ext)
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// FormatClock renders an epoch-ms timestamp as the short display string
// attached to messages.
func FormatClock(epochMs int64) string {
	return time.UnixMilli(epochMs).UTC().Format("15:04")
}

// FormatDuration renders a recording length as mm:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
