package banlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"
)

// Store is the advisory banned-id set backing the admin console. Like the
// storage counters it is local state: persisted on every transition and
// passed explicitly to the components that consult it.
type Store struct {
	mu   sync.Mutex
	path string
	ids  map[string]struct{}
}

// Open loads (or initializes) the ban file under dir.
func Open(dir string) (*Store, error) {
	s := &Store{path: filepath.Join(dir, "banned.json"), ids: make(map[string]struct{})}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("cannot read ban file: %w", err)
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		logger.Warn("banlist_file_invalid", "path", s.path, "error", err)
		return s, nil
	}
	for _, id := range list {
		s.ids[id] = struct{}{}
	}
	return s, nil
}

// Ban adds the user id to the set and persists it.
func (s *Store) Ban(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
	s.persistLocked()
}

// Unban removes the user id from the set and persists it.
func (s *Store) Unban(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
	s.persistLocked()
}

// Banned reports whether the id is in the set.
func (s *Store) Banned(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// List returns the banned ids sorted for stable output.
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *Store) persistLocked() {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	b, err := json.Marshal(out)
	if err != nil {
		logger.Error("banlist_marshal_failed", "error", err)
		return
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		logger.Error("banlist_persist_failed", "path", s.path, "error", err)
	}
}
