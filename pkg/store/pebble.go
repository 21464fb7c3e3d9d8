package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
)

var db *pebble.DB

// seq reduces key collisions when multiple messages share the same
// millisecond timestamp.
var seq uint64

// Open opens (or creates) a Pebble database at the given path and keeps a
// global handle for simple usage in this package.
func Open(path string) error {
	var err error
	logger.Info("opening_store", "path", path)
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("store_open_failed", "path", path, "error", err)
		return err
	}
	logger.Info("store_opened", "path", path)
	return nil
}

// Close closes the opened pebble DB if present.
func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	logger.Info("store_closed")
	return nil
}

// Ready reports whether the store is opened and ready.
func Ready() bool {
	return db != nil
}

func userKey(id string) []byte { return []byte("user:" + id) }
func chatKey(id string) []byte { return []byte("chat:" + id + ":meta") }

// MsgKey builds the sortable message key. The padded epoch-ms prefix makes
// iteration order equal the write-order of the timestamp field, with seq
// breaking same-millisecond ties.
func MsgKey(chatID string, tsMs int64, s uint64) string {
	return fmt.Sprintf("chat:%s:msg:%020d-%06d", chatID, tsMs, s)
}

// SaveUser upserts a user profile document.
func SaveUser(u models.User) error {
	if db == nil {
		return fmt.Errorf("store not opened; call store.Open first")
	}
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := db.Set(userKey(u.ID), b, pebble.Sync); err != nil {
		logger.Error("save_user_failed", "user", u.ID, "error", err)
		return err
	}
	recordWrite("user")
	return nil
}

// GetUser returns the stored user document for the given id.
func GetUser(id string) (models.User, error) {
	var u models.User
	if db == nil {
		return u, fmt.Errorf("store not opened; call store.Open first")
	}
	v, closer, err := db.Get(userKey(id))
	if err != nil {
		return u, err
	}
	defer closer.Close()
	recordRead("user")
	if err := json.Unmarshal(v, &u); err != nil {
		return u, fmt.Errorf("invalid user document: %w", err)
	}
	return u, nil
}

// ListUsers returns all stored user documents.
func ListUsers() ([]models.User, error) {
	if db == nil {
		return nil, fmt.Errorf("store not opened; call store.Open first")
	}
	prefix := []byte("user:")
	defer observeScan("user", time.Now())
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []models.User
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		var u models.User
		if err := json.Unmarshal(iter.Value(), &u); err == nil {
			out = append(out, u)
		}
	}
	return out, iter.Error()
}

// SaveChat overwrites chat metadata under its reserved key. Callers own the
// read-modify-write cycle; the last write wins.
func SaveChat(c models.Chat) error {
	if db == nil {
		return fmt.Errorf("store not opened; call store.Open first")
	}
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal chat: %w", err)
	}
	if err := db.Set(chatKey(c.ID), b, pebble.Sync); err != nil {
		logger.Error("save_chat_failed", "chat", c.ID, "error", err)
		return err
	}
	recordWrite("chat")
	logger.Debug("chat_saved", "chat", c.ID)
	return nil
}

// GetChat returns the stored chat document for a given chat ID.
func GetChat(id string) (models.Chat, error) {
	var c models.Chat
	if db == nil {
		return c, fmt.Errorf("store not opened; call store.Open first")
	}
	v, closer, err := db.Get(chatKey(id))
	if err != nil {
		return c, err
	}
	defer closer.Close()
	recordRead("chat")
	if err := json.Unmarshal(v, &c); err != nil {
		return c, fmt.Errorf("invalid chat document: %w", err)
	}
	return c, nil
}

// IsNotFound reports whether err is the store's missing-document error.
func IsNotFound(err error) bool {
	return errors.Is(err, pebble.ErrNotFound)
}

// ListChats returns all saved chat documents in key order.
func ListChats() ([]models.Chat, error) {
	if db == nil {
		return nil, fmt.Errorf("store not opened; call store.Open first")
	}
	prefix := []byte("chat:")
	defer observeScan("chat", time.Now())
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []models.Chat
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		if !bytes.HasSuffix(iter.Key(), []byte(":meta")) {
			continue
		}
		var c models.Chat
		if err := json.Unmarshal(iter.Value(), &c); err == nil {
			out = append(out, c)
		}
	}
	return out, iter.Error()
}

// SaveMessage appends a message to its chat under a sortable timestamp key.
// Messages are immutable once written; there is no update path.
func SaveMessage(m models.Message) error {
	if db == nil {
		return fmt.Errorf("store not opened; call store.Open first")
	}
	if m.ChatID == "" {
		return fmt.Errorf("message missing chat id")
	}
	s := atomic.AddUint64(&seq, 1)
	key := MsgKey(m.ChatID, m.TimestampRaw, s)
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := db.Set([]byte(key), b, pebble.Sync); err != nil {
		logger.Error("save_message_failed", "chat", m.ChatID, "key", key, "error", err)
		return err
	}
	recordWrite("message")
	logger.Debug("message_saved", "chat", m.ChatID, "id", m.ID)
	return nil
}

// ListMessages returns all messages for a chat ascending by timestamp.
func ListMessages(chatID string, limit ...int) ([]models.Message, error) {
	if db == nil {
		return nil, fmt.Errorf("store not opened; call store.Open first")
	}
	prefix := []byte("chat:" + chatID + ":msg:")
	defer observeScan("message", time.Now())
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	max := -1
	if len(limit) > 0 {
		max = limit[0]
	}
	var out []models.Message
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		var m models.Message
		if err := json.Unmarshal(iter.Value(), &m); err != nil {
			logger.Error("list_messages_invalid_json", "chat", chatID, "error", err)
			continue
		}
		out = append(out, m)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out, iter.Error()
}

// GetKey returns the raw value for the given key.
func GetKey(key string) ([]byte, error) {
	if db == nil {
		return nil, fmt.Errorf("store not opened; call store.Open first")
	}
	v, closer, err := db.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	recordRead("key")
	return append([]byte(nil), v...), nil
}

// SaveKey stores an arbitrary key/value pair. Callers should choose a safe
// namespace (e.g. "schedule:").
func SaveKey(key string, value []byte) error {
	if db == nil {
		return fmt.Errorf("store not opened; call store.Open first")
	}
	if err := db.Set([]byte(key), value, pebble.Sync); err != nil {
		logger.Error("save_key_failed", "key", key, "error", err)
		return err
	}
	return nil
}

// DeleteKey removes an arbitrary key.
func DeleteKey(key string) error {
	if db == nil {
		return fmt.Errorf("store not opened; call store.Open first")
	}
	return db.Delete([]byte(key), pebble.Sync)
}

// ListKeys returns all keys (as strings) that start with the given prefix.
func ListKeys(prefix string) ([]string, error) {
	if db == nil {
		return nil, fmt.Errorf("store not opened; call store.Open first")
	}
	pfx := []byte(prefix)
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []string
	for iter.SeekGE(pfx); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), pfx) {
			break
		}
		out = append(out, string(append([]byte(nil), iter.Key()...)))
	}
	return out, iter.Error()
}
