package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guttosm/pricesnap/internal/domain/models"
)

func TestFileStore_SaveCreatesDirAndPrettyPrints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "prices.json")
	store := NewFileStore(path)

	snap := models.Snapshot{AsOf: "2025-09-12T21:00:00.000Z", Source: "stooq"}
	snap.Quotes.Set("AGI", models.Quote{Price: 12.34})

	if err := store.SaveSnapshot(snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "{\n" +
		"  \"asOf\": \"2025-09-12T21:00:00.000Z\",\n" +
		"  \"source\": \"stooq\",\n" +
		"  \"quotes\": {\n" +
		"    \"AGI\": {\n" +
		"      \"price\": 12.34\n" +
		"    }\n" +
		"  }\n" +
		"}\n"
	if string(b) != want {
		t.Fatalf("unexpected file content:\n%s", b)
	}
}

func TestFileStore_OverwritesPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.json")
	store := NewFileStore(path)

	first := models.Snapshot{AsOf: "a", Source: "stooq"}
	first.Quotes.Set("AGI", models.Quote{Price: 1})
	first.Quotes.Set("FSM", models.Quote{Price: 2})
	if err := store.SaveSnapshot(first); err != nil {
		t.Fatalf("first save: %v", err)
	}

	second := models.Snapshot{AsOf: "b", Source: "stooq"}
	if err := store.SaveSnapshot(second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.LatestSnapshot()
	if err != nil || got == nil {
		t.Fatalf("LatestSnapshot: %v %v", got, err)
	}
	if got.AsOf != "b" || got.Quotes.Len() != 0 {
		t.Fatalf("snapshot was merged instead of replaced: %+v", got)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileStore_LatestSnapshotMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))
	snap, err := store.LatestSnapshot()
	if err != nil || snap != nil {
		t.Fatalf("want nil,nil got %v %v", snap, err)
	}
}

func TestFileStore_LatestSnapshotCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewFileStore(path).LatestSnapshot(); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFileStore_SaveFailsWhenParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "data")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewFileStore(filepath.Join(blocker, "prices.json"))

	err := store.SaveSnapshot(models.Snapshot{AsOf: "x", Source: "stooq"})
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *PersistenceError, got %v", err)
	}
	if perr.Op != "mkdir" {
		t.Fatalf("op=%q, want mkdir", perr.Op)
	}
	if store.Ping() == nil {
		t.Fatalf("Ping should fail when the parent is not a directory")
	}
}

func TestFileStore_Ping(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "prices.json"))
	if err := store.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if store.Path() == "" {
		t.Fatalf("empty path")
	}
}
