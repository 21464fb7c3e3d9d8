package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/blob"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/compose"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/live"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/models"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/stats"
	"github.com/HouseGram-code/HouseGram-sub000/pkg/store"
)

func newTestComposer(t *testing.T) *compose.Composer {
	t.Helper()
	if err := store.Open(filepath.Join(t.TempDir(), "db")); err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	blobs, err := blob.Open(t.TempDir())
	if err != nil {
		t.Fatalf("blob.Open: %v", err)
	}
	usage, err := stats.Open(t.TempDir())
	if err != nil {
		t.Fatalf("stats.Open: %v", err)
	}
	return compose.New(live.NewHub(), blobs, usage, 1280, 80)
}

func TestRunOnceDeliversDueAndKeepsFuture(t *testing.T) {
	c := newTestComposer(t)
	if err := store.SaveChat(models.Chat{ID: "c1", Participants: []string{"me", "other"}}); err != nil {
		t.Fatalf("SaveChat: %v", err)
	}

	past := time.Now().UTC().Add(-time.Minute)
	future := time.Now().UTC().Add(time.Hour)
	if _, err := c.ScheduleText(context.Background(), "c1", "me", "overdue", past); err != nil {
		t.Fatalf("ScheduleText past: %v", err)
	}
	if _, err := c.ScheduleText(context.Background(), "c1", "me", "tomorrow", future); err != nil {
		t.Fatalf("ScheduleText future: %v", err)
	}

	if err := RunOnce(context.Background(), c); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	msgs, err := store.ListMessages("c1")
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Text != "overdue" {
		t.Fatalf("expected only the overdue send delivered, got %+v", msgs)
	}

	// the delivered entry is gone, the future one remains
	pending, err := store.DueScheduled(future.UnixMilli())
	if err != nil {
		t.Fatalf("DueScheduled: %v", err)
	}
	if len(pending) != 1 || pending[0].Text != "tomorrow" {
		t.Fatalf("unexpected pending schedule: %+v", pending)
	}
}

func TestRunOnceIsRepeatable(t *testing.T) {
	c := newTestComposer(t)
	if err := store.SaveChat(models.Chat{ID: "c1", Participants: []string{"me", "other"}}); err != nil {
		t.Fatalf("SaveChat: %v", err)
	}
	if _, err := c.ScheduleText(context.Background(), "c1", "me", "once", time.Now().UTC().Add(-time.Second)); err != nil {
		t.Fatalf("ScheduleText: %v", err)
	}

	if err := RunOnce(context.Background(), c); err != nil {
		t.Fatalf("first RunOnce: %v", err)
	}
	if err := RunOnce(context.Background(), c); err != nil {
		t.Fatalf("second RunOnce: %v", err)
	}
	msgs, _ := store.ListMessages("c1")
	if len(msgs) != 1 {
		t.Fatalf("repeat sweep duplicated delivery: %d messages", len(msgs))
	}
}

func TestStartRejectsInvalidCron(t *testing.T) {
	c := newTestComposer(t)
	if _, err := Start(context.Background(), c, true, "not a cron"); err == nil {
		t.Fatal("expected invalid cron error")
	}
}

func TestStartDisabledIsNoop(t *testing.T) {
	c := newTestComposer(t)
	cancel, err := Start(context.Background(), c, false, "")
	if err != nil {
		t.Fatalf("Start disabled: %v", err)
	}
	cancel()
}
