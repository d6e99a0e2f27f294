package storage

import (
	"context"
	"errors"
	"testing"

	"metal-rates/internal/config"
)

func configFor(driver string) config.StorageConfig {
	return config.StorageConfig{Driver: driver, Path: "unused"}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, KeyHistory); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	doc := []byte(`{"unit":"tola","data":[]}`)
	if err := s.Put(ctx, KeyHistory, doc); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := s.Get(ctx, KeyHistory)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != string(doc) {
		t.Fatalf("document mismatch: %s", got)
	}

	// returned slice must be a copy
	got[0] = 'x'
	again, _ := s.Get(ctx, KeyHistory)
	if string(again) != string(doc) {
		t.Fatal("store leaked its internal buffer")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	ctx := context.Background()

	if _, err := s.Get(ctx, KeySnapshot); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	doc := []byte(`{"status":"live"}`)
	if err := s.Put(ctx, KeySnapshot, doc); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := s.Get(ctx, KeySnapshot)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != string(doc) {
		t.Fatalf("document mismatch: %s", got)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	ctx := context.Background()

	if err := s.Put(ctx, KeyNotifyState, []byte(`{"gold":1}`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := s.Put(ctx, KeyNotifyState, []byte(`{"gold":2}`)); err != nil {
		t.Fatalf("second put failed: %v", err)
	}

	got, err := s.Get(ctx, KeyNotifyState)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != `{"gold":2}` {
		t.Fatalf("expected last write to win, got %s", got)
	}
}

func TestFileStoreRequiresDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Fatal("empty directory should be rejected")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), configFor("bolt"))
	if err == nil {
		t.Fatal("unknown driver should fail")
	}
}

func TestOpenMemoryDriver(t *testing.T) {
	s, err := Open(context.Background(), configFor("memory"))
	if err != nil {
		t.Fatalf("open memory driver: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", s)
	}
}
