package persist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"pkt.systems/coxswain/schema"
)

func TestStoreLoadMissing(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	_, ok, err := store.Load("alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("expected miss for unknown user")
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	snapshot := FixtureSnapshot{
		Workspaces: []schema.Workspace{{
			ID:      "ws-1",
			OwnerID: "alice",
			Name:    "widgets",
			Status:  schema.WorkspaceStatusRunning,
		}},
		Sessions: []SessionSnapshot{{
			Session: schema.Session{
				ID:        "sess-1",
				Name:      "widgets",
				State:     schema.SessionStateRunning,
				Ready:     true,
				CreatedAt: now,
				UpdatedAt: now,
			},
			Messages: []schema.Message{{
				ID:        "msg-1",
				SessionID: "sess-1",
				Type:      schema.MessageTypeUser,
				Content:   "hello",
				Status:    schema.MessageStatusSent,
				Timestamp: now,
			}},
			Files: []schema.FileEntry{{Path: "main.go", Name: "main.go", Size: 42}},
		}},
	}
	if err := store.Save("alice", snapshot); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, ok, err := store.Load("alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("expected hit after save")
	}
	if len(loaded.Workspaces) != 1 || loaded.Workspaces[0].ID != "ws-1" {
		t.Errorf("workspaces = %+v", loaded.Workspaces)
	}
	if len(loaded.Sessions) != 1 {
		t.Fatalf("sessions = %+v", loaded.Sessions)
	}
	sess := loaded.Sessions[0]
	if sess.Session.ID != "sess-1" || !sess.Session.Ready {
		t.Errorf("session = %+v", sess.Session)
	}
	if len(sess.Messages) != 1 || sess.Messages[0].Content != "hello" {
		t.Errorf("messages = %+v", sess.Messages)
	}
	if len(sess.Files) != 1 || sess.Files[0].Path != "main.go" {
		t.Errorf("files = %+v", sess.Files)
	}
}

func TestStoreSanitizesUserID(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Save("../evil/../../user", FixtureSnapshot{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if filepath.Ext(entries[0].Name()) != ".json" {
		t.Errorf("file = %q", entries[0].Name())
	}
	if entries[0].Name() != ".._evil_.._.._user.json" {
		t.Errorf("sanitized name = %q", entries[0].Name())
	}
}

func TestNewStoreRequiresDir(t *testing.T) {
	if _, err := NewStore("  "); err == nil {
		t.Fatal("expected error for empty directory")
	}
}
