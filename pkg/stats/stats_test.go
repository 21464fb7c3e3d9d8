package stats

import (
	"testing"
)

func TestAddAccumulatesBuckets(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Add(BucketMedia, 100)
	s.Add(BucketFiles, 50)
	s.Add(BucketVoice, 25)
	s.Add(BucketMedia, 10)

	u := s.Usage()
	if u.MediaBytes != 110 || u.FileBytes != 50 || u.VoiceBytes != 25 {
		t.Fatalf("unexpected usage: %+v", u)
	}
	if u.TotalBytes != 185 {
		t.Fatalf("expected total 185, got %d", u.TotalBytes)
	}
}

func TestCountersSurviveReload(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Add(BucketVoice, 42)

	// a second open over the same dir sees the persisted counter
	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := s2.Usage().VoiceBytes; got != 42 {
		t.Fatalf("expected persisted 42, got %d", got)
	}
}

func TestUnknownBucketIgnored(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Add("swapfile", 999)
	if s.Usage().TotalBytes != 0 {
		t.Fatalf("unknown bucket counted: %+v", s.Usage())
	}
}
