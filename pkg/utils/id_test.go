package utils

import (
	"strings"
	"testing"
	"time"
)

func TestGenIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := GenID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id: %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestGenFileNameKeepsExtension(t *testing.T) {
	n := GenFileName("Holiday Photo.PNG")
	if !strings.HasSuffix(n, ".png") {
		t.Fatalf("expected lowercase .png suffix, got %s", n)
	}
	bare := GenFileName("noext")
	if strings.HasSuffix(bare, ".") {
		t.Fatalf("extension-less name gained a trailing dot: %s", bare)
	}
}

func TestFormatClock(t *testing.T) {
	ts := time.Date(2026, 9, 1, 14, 5, 59, 0, time.UTC).UnixMilli()
	if got := FormatClock(ts); got != "14:05" {
		t.Fatalf("expected 14:05, got %s", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{65 * time.Second, "01:05"},
		{10 * time.Minute, "10:00"},
		{-time.Second, "00:00"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Fatalf("FormatDuration(%v): expected %s, got %s", tc.d, tc.want, got)
		}
	}
}
