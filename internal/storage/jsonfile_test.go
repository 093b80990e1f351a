package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/voicetodo/internal/domain"
	"github.com/hammamikhairi/voicetodo/internal/logger"
)

func newFileStore(t *testing.T) (*JSONFileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	store, err := NewJSONFileStore(path, logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, path
}

func TestJSONFileStoreLoadMissing(t *testing.T) {
	store, _ := newFileStore(t)

	items, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", items)
	}
}

func TestJSONFileStoreRoundTrip(t *testing.T) {
	store, path := newFileStore(t)
	ctx := context.Background()
	now := time.Now()

	want := []domain.Item{
		domain.NewItem("buy milk", now),
		{Text: "call mom", Status: domain.StatusDone, CreatedAt: now.Add(-time.Hour).Truncate(time.Microsecond)},
		domain.NewItem("buy milk", now.Add(time.Minute)),
	}

	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.Contains(string(raw), "\n    {\n        \"item\": \"buy milk\"") {
		t.Fatalf("expected 4-space pretty printing, got:\n%s", raw)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Text != want[i].Text || got[i].Status != want[i].Status || !got[i].CreatedAt.Equal(want[i].CreatedAt) {
			t.Fatalf("item %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestJSONFileStoreSaveEmptyWritesArray(t *testing.T) {
	store, path := newFileStore(t)

	if err := store.Save(context.Background(), nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Fatalf("expected [], got %q", raw)
	}
}

func TestJSONFileStoreRejectsMalformed(t *testing.T) {
	tests := map[string]string{
		"not json":      `{{{`,
		"not an array":  `{"item":"x"}`,
		"missing field": `[{"item":"x","status":"pending"}]`,
		"empty text":    `[{"item":"","status":"pending","time_added":"2024-05-01 09:30:15"}]`,
		"bad status":    `[{"item":"x","status":"later","time_added":"2024-05-01 09:30:15"}]`,
		"bad time":      `[{"item":"x","status":"pending","time_added":"soon"}]`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			store, path := newFileStore(t)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := store.Load(context.Background()); err == nil {
				t.Fatalf("expected error for %s", content)
			}
		})
	}
}

func TestJSONFileStoreClear(t *testing.T) {
	store, path := newFileStore(t)
	ctx := context.Background()

	existed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("clear empty: %v", err)
	}
	if existed {
		t.Fatal("expected existed=false when no file")
	}

	if err := store.Save(ctx, []domain.Item{domain.NewItem("x", time.Now())}); err != nil {
		t.Fatalf("save: %v", err)
	}
	existed, err = store.Clear(ctx)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !existed {
		t.Fatal("expected existed=true after save")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}

	items, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list after clear, got %d", len(items))
	}
}

func TestJSONFileStoreCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "data.json")
	store, err := NewJSONFileStore(path, logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Save(context.Background(), []domain.Item{domain.NewItem("x", time.Now())}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file at %s: %v", path, err)
	}
}
