package kvstore

import (
	"context"
	"testing"
)

func TestFile_RoundTrip(t *testing.T) {
	store, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	if err := store.Set(ctx, "medical_result_John_Doe", `{"name":"report.pdf"}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, "medical_result_John_Doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"name":"report.pdf"}` {
		t.Errorf("unexpected value: %q", got)
	}
}

func TestFile_GetMissing(t *testing.T) {
	store, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Get(context.Background(), "missing"); err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestFile_DeleteIdempotent(t *testing.T) {
	store, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	_ = store.Set(ctx, "k", "v")
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting an absent key should not error, got %v", err)
	}
}

func TestFile_KeyCannotEscapeDir(t *testing.T) {
	store, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	if err := store.Set(ctx, "../outside", "v"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := store.Get(ctx, "../outside")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "v" {
		t.Errorf("unexpected value: %q", got)
	}
}

func TestFile_RequiresDir(t *testing.T) {
	if _, err := NewFile(""); err == nil {
		t.Fatal("expected error for empty directory")
	}
}
