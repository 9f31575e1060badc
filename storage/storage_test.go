package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func testKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := kv.Set(ctx, "a", []byte(`{"x":1}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(ctx, "a", []byte(`{"x":2}`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	got, err := kv.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"x":2}` {
		t.Errorf("Get = %s, want {\"x\":2}", got)
	}
}

func TestMemoryStore(t *testing.T) {
	testKV(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	testKV(t, fs)

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != `{"x":2}` {
		t.Errorf("reopened value = %s", got)
	}
}

func TestFileStoreRejectsNonJSON(t *testing.T) {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := fs.Set(context.Background(), "k", []byte("not json")); err == nil {
		t.Error("expected error for non-JSON value")
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.sqlite"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()
	testKV(t, s)
}

func TestOpenUnknownKind(t *testing.T) {
	if _, err := Open("etcd", "", ""); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Open(etcd) error = %v, want ErrUnknownKind", err)
	}
}
