package session

import (
	"context"
	"path/filepath"
	"testing"
)

type savePayload struct {
	Blob  string `json:"blob"`
	Turns int    `json:"turns"`
}

func newTestSQLiteStore(t *testing.T) *SQLiteStore[savePayload] {
	t.Helper()
	s, err := NewSQLiteStore[savePayload](filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Errorf("Expected miss without error, got ok=%v err=%v", ok, err)
	}

	want := savePayload{Blob: `{"state":{}}`, Turns: 3}
	if err := s.Put(ctx, "p1", want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, ok, err := s.Get(ctx, "p1")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	if err := s.Put(ctx, "p1", savePayload{Turns: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "p1", savePayload{Turns: 2}); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
	got, ok, err := s.Get(ctx, "p1")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if got.Turns != 2 {
		t.Errorf("Expected last write to win, got %+v", got)
	}
}

func TestSQLiteStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	if err := s.Put(ctx, "p1", savePayload{Turns: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "p1"); ok {
		t.Error("Expected miss after delete")
	}
	if err := s.Delete(ctx, "p1"); err != nil {
		t.Errorf("Deleting a missing key should be a no-op, got %v", err)
	}
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "saves.db")

	first, err := NewSQLiteStore[savePayload](path)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Put(ctx, "p1", savePayload{Blob: "kept", Turns: 7}); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := NewSQLiteStore[savePayload](path)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()
	got, ok, err := second.Get(ctx, "p1")
	if err != nil || !ok {
		t.Fatalf("Get after reopen failed: ok=%v err=%v", ok, err)
	}
	if got.Blob != "kept" || got.Turns != 7 {
		t.Errorf("Row lost across opens: %+v", got)
	}
}

func TestSQLiteStoreNewID(t *testing.T) {
	s := newTestSQLiteStore(t)
	a, b := s.NewID(), s.NewID()
	if a == b {
		t.Errorf("Expected distinct IDs, got %q twice", a)
	}
	if len(a) != 36 {
		t.Errorf("Expected UUID format, got %q", a)
	}
}
