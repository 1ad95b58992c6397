package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ecommerceapp/storefront/internal/core/domain"
)

func TestFileStore_MissingFileMeansNoSession(t *testing.T) {
	f := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	token, user, err := f.Load()
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if token != "" || user != nil {
		t.Fatalf("missing file must yield empty session, got %q %+v", token, user)
	}
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	f := NewFileStore(path)

	user := &domain.User{ID: "7", Username: "Ada Lovelace", Email: "ada@example.com"}
	if err := f.Save("tok-1", user); err != nil {
		t.Fatalf("save: %v", err)
	}

	token, loaded, err := f.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("token round-trip: %q", token)
	}
	if loaded == nil || loaded.ID != "7" || loaded.Email != "ada@example.com" {
		t.Fatalf("user round-trip: %+v", loaded)
	}
}

func TestFileStore_ClearRemovesBothKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	f := NewFileStore(path)
	if err := f.Save("tok-1", &domain.User{ID: "7"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := f.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	token, user, err := f.Load()
	if err != nil || token != "" || user != nil {
		t.Fatalf("cleared store must be empty: %q %+v %v", token, user, err)
	}

	// Clearing again is a no-op.
	if err := f.Clear(); err != nil {
		t.Fatalf("double clear: %v", err)
	}
}

func TestFileStore_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, _, err := NewFileStore(path).Load(); err == nil {
		t.Fatal("corrupt document must surface an error")
	}
}

func TestFileStore_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	f := NewFileStore(path)
	if err := f.Save("tok-1", nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "session.json" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}
