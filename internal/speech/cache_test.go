package speech

import (
	"os"
	"testing"

	"github.com/hammamikhairi/voicetodo/internal/logger"
)

func TestAudioCacheMemory(t *testing.T) {
	c := NewAudioCache("voice-a", "", false, logger.New(logger.LevelOff, nil))

	if _, ok := c.Get("hello"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Put("hello", []byte("wav"))
	data, ok := c.Get("hello")
	if !ok || string(data) != "wav" {
		t.Fatalf("Get = %q, %v", data, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d", c.Len())
	}
}

func TestAudioCacheDiskSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	log := logger.New(logger.LevelOff, nil)

	first := NewAudioCache("voice-a", dir, true, log)
	first.Put("hello", []byte("wav"))

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected 1 file on disk, got %v (err=%v)", entries, err)
	}

	second := NewAudioCache("voice-a", dir, false, log)
	if data, ok := second.Get("hello"); !ok || string(data) != "wav" {
		t.Fatalf("disk hit = %q, %v", data, ok)
	}

	other := NewAudioCache("voice-b", dir, false, log)
	if _, ok := other.Get("hello"); ok {
		t.Fatal("a different voice must not hit")
	}
}

func TestAudioCacheNoDiskWrite(t *testing.T) {
	dir := t.TempDir()
	c := NewAudioCache("v", dir, false, logger.New(logger.LevelOff, nil))
	c.Put("hello", []byte("wav"))

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files written, got %d", len(entries))
	}
}

func TestAudioCacheEvictsOldest(t *testing.T) {
	c := NewAudioCache("v", "", false, logger.New(logger.LevelOff, nil))
	c.maxEntries = 2

	c.Put("one", []byte("1"))
	c.Put("two", []byte("2"))
	c.Put("one", []byte("1b")) // refresh does not reorder
	c.Put("three", []byte("3"))

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("one"); ok {
		t.Error("oldest entry should have been evicted")
	}
	for _, text := range []string{"two", "three"} {
		if _, ok := c.Get(text); !ok {
			t.Errorf("%q should still be cached", text)
		}
	}
}
