package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
)

// ScheduledSend is a deferred message persisted until its delivery time.
// The padded due-time key prefix keeps the namespace scan in delivery order.
type ScheduledSend struct {
	Key     string         `json:"-"`
	ChatID  string         `json:"chatId"`
	Sender  string         `json:"senderId"`
	Text    string         `json:"text"`
	DueAt   int64          `json:"dueAt"`
	Message models.Message `json:"message"`
}

var schedSeq uint64

func scheduleKey(dueMs int64, s uint64) string {
	return fmt.Sprintf("schedule:%020d-%06d", dueMs, s)
}

// SaveScheduled persists a deferred send under its due time.
func SaveScheduled(sc ScheduledSend) (string, error) {
	if db == nil {
		return "", fmt.Errorf("store not opened; call store.Open first")
	}
	key := scheduleKey(sc.DueAt, atomic.AddUint64(&schedSeq, 1))
	b, err := json.Marshal(sc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal scheduled send: %w", err)
	}
	if err := db.Set([]byte(key), b, pebble.Sync); err != nil {
		return "", err
	}
	recordWrite("schedule")
	return key, nil
}

// DueScheduled returns all deferred sends whose due time is at or before now
// (epoch ms), in delivery order.
func DueScheduled(nowMs int64) ([]ScheduledSend, error) {
	if db == nil {
		return nil, fmt.Errorf("store not opened; call store.Open first")
	}
	prefix := []byte("schedule:")
	upper := []byte(scheduleKey(nowMs, 999999))
	defer observeScan("schedule", time.Now())
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []ScheduledSend
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		if bytes.Compare(iter.Key(), upper) > 0 {
			break
		}
		var sc ScheduledSend
		if err := json.Unmarshal(iter.Value(), &sc); err != nil {
			continue
		}
		sc.Key = string(append([]byte(nil), iter.Key()...))
		out = append(out, sc)
	}
	return out, iter.Error()
}
