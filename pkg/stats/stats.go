package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"
)

// Usage is the advisory storage-usage counter: incremented on successful
// uploads, never reconciled against actual backend usage. It can diverge
// (e.g. a failed message write after a successful upload over-counts).
type Usage struct {
	MediaBytes int64 `json:"mediaBytes"`
	FileBytes  int64 `json:"fileBytes"`
	VoiceBytes int64 `json:"voiceBytes"`
	TotalBytes int64 `json:"totalBytes"`
}

// Buckets for Add.
const (
	BucketMedia = "media"
	BucketFiles = "files"
	BucketVoice = "voice"
)

// Store holds the counter and persists it on every transition. It is passed
// by reference to the components that need it; persistence is an explicit
// side effect of each state change, not an implicit global.
type Store struct {
	mu    sync.Mutex
	path  string
	usage Usage
}

// Open loads (or initializes) the counter file under dir.
func Open(dir string) (*Store, error) {
	s := &Store{path: filepath.Join(dir, "storage.json")}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("cannot read stats file: %w", err)
	}
	if err := json.Unmarshal(b, &s.usage); err != nil {
		// corrupt counter file: advisory data, start over
		logger.Warn("stats_file_invalid", "path", s.path, "error", err)
		s.usage = Usage{}
	}
	return s, nil
}

// Add credits n bytes to the bucket and persists the new value.
func (s *Store) Add(bucket string, n int64) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch bucket {
	case BucketMedia:
		s.usage.MediaBytes += n
	case BucketFiles:
		s.usage.FileBytes += n
	case BucketVoice:
		s.usage.VoiceBytes += n
	default:
		logger.Warn("stats_unknown_bucket", "bucket", bucket)
		return
	}
	s.usage.TotalBytes += n
	s.persistLocked()
}

// Usage returns a copy of the current counters.
func (s *Store) Usage() Usage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage
}

func (s *Store) persistLocked() {
	b, err := json.Marshal(s.usage)
	if err != nil {
		logger.Error("stats_marshal_failed", "error", err)
		return
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		logger.Error("stats_persist_failed", "path", s.path, "error", err)
	}
}
